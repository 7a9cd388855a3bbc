// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingestion

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/poiesic/officelines/core"
)

// Column positions in a line export.
const (
	colID = iota
	colSeason
	colEpisode
	colScene
	colText
	colSpeaker
	colDeleted

	minColumns = colSpeaker + 1
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseResult holds the lines read from a CSV source.
type ParseResult struct {
	Lines   []*core.Line
	Skipped int // Rows that were malformed or failed validation
	Deleted int // Rows flagged as deleted
}

// ParseCSV reads a line export with the columns
// id,season,episode,scene,line_text,speaker and an optional deleted flag.
// The first row is a header and is ignored. Only I/O errors are returned;
// bad rows are counted in Skipped.
func ParseCSV(r io.Reader) (*ParseResult, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	result := &ParseResult{}
	header := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				result.Skipped++
				continue
			}
			return nil, err
		}
		if header {
			header = false
			continue
		}
		if isBlank(record) {
			continue
		}

		line, deleted, ok := parseRecord(record)
		switch {
		case !ok:
			result.Skipped++
		case deleted:
			result.Deleted++
		default:
			result.Lines = append(result.Lines, line)
		}
	}

	return result, nil
}

func parseRecord(record []string) (line *core.Line, deleted bool, ok bool) {
	if len(record) < minColumns {
		return nil, false, false
	}

	id, err := strconv.ParseUint(strings.TrimSpace(record[colID]), 10, 64)
	if err != nil {
		return nil, false, false
	}
	var position [3]int
	for i, col := range []int{colSeason, colEpisode, colScene} {
		position[i], err = strconv.Atoi(strings.TrimSpace(record[col]))
		if err != nil {
			return nil, false, false
		}
	}

	if len(record) > colDeleted && strings.EqualFold(strings.TrimSpace(record[colDeleted]), "true") {
		return nil, true, true
	}

	line = &core.Line{
		Id:      core.ID(id),
		Season:  position[0],
		Episode: position[1],
		Scene:   position[2],
		Text:    strings.TrimSpace(record[colText]),
		Speaker: strings.TrimSpace(record[colSpeaker]),
	}
	if core.ValidateLine(line) != nil {
		return nil, false, false
	}
	return line, false, true
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
