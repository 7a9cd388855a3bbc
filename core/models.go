package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Lines carry the identifier assigned by their source; digests are
// generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Line is a single line of dialogue from the show.
type Line struct {
	Id      ID
	Season  int
	Episode int
	Scene   int
	Text    string // The spoken line
	Speaker string // Display name of the character
}

// DisplayText renders the line as "S{season}E{episode} - {speaker}: {text}".
func (l *Line) DisplayText() string {
	return "S" + strconv.Itoa(l.Season) + "E" + strconv.Itoa(l.Episode) +
		" - " + l.Speaker + ": " + l.Text
}

// CopyText returns the text placed on the clipboard when a line is selected.
func (l *Line) CopyText() string {
	return l.Text
}

// Checkpoint records the last successful import of a line source.
type Checkpoint struct {
	Source    string // Path or name of the imported source
	Digest    ID     // IDFromContent of the imported bytes
	Count     int    // Number of lines stored by the import
	UpdatedAt time.Time
}

// SampleLines is a small built-in corpus used when no line source is available.
func SampleLines() []*Line {
	return []*Line{
		{Id: 1, Season: 1, Episode: 1, Scene: 1, Text: "That's what she said!", Speaker: "Michael Scott"},
		{Id: 2, Season: 1, Episode: 1, Scene: 2, Text: "Bears. Beets. Battlestar Galactica.", Speaker: "Jim Halpert"},
		{Id: 3, Season: 1, Episode: 2, Scene: 1, Text: "I DECLARE BANKRUPTCY!", Speaker: "Michael Scott"},
		{Id: 4, Season: 2, Episode: 1, Scene: 1, Text: "Dwight, you ignorant slut!", Speaker: "Michael Scott"},
		{Id: 5, Season: 2, Episode: 3, Scene: 2, Text: "Identity theft is not a joke, Jim!", Speaker: "Dwight Schrute"},
	}
}
