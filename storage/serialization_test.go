package storage

import (
	"testing"
	"time"

	"github.com/poiesic/officelines/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("test content")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestMarshalUnmarshalLine(t *testing.T) {
	tests := []struct {
		name string
		line *core.Line
	}{
		{
			name: "minimal line",
			line: &core.Line{Id: 1, Season: 1, Episode: 1, Scene: 1, Text: "Hello"},
		},
		{
			name: "line with punctuation",
			line: &core.Line{Id: 2, Season: 3, Episode: 12, Scene: 40, Text: "You wouldn't understand. It's a secret", Speaker: "Jim Halpert"},
		},
		{
			name: "unicode text",
			line: &core.Line{Id: 3, Season: 5, Episode: 1, Scene: 2, Text: "Café “déjà vu” ☕", Speaker: "Angela Martin"},
		},
		{
			name: "large id",
			line: &core.Line{Id: core.ID(59909), Season: 9, Episode: 24, Scene: 120, Text: "The end.", Speaker: "Pam Beesly"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalLine(tt.line)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalLine(data)
			require.NoError(t, err)
			require.NotNil(t, decoded)
			assert.Equal(t, *tt.line, *decoded)
		})
	}
}

func TestUnmarshalLine_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"invalid data", []byte{0xFF, 0xFF, 0xFF}},
		{"partial data", []byte{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalLine(tt.data)
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}
}

func TestMarshalUnmarshalCheckpoint(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	checkpoint := &core.Checkpoint{
		Source:    "/data/the-office-lines.csv",
		Digest:    core.IDFromContent("id,season,episode,scene,line_text,speaker"),
		Count:     59909,
		UpdatedAt: now,
	}

	data := MarshalCheckpoint(checkpoint)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalCheckpoint(data)
	require.NoError(t, err)
	assert.Equal(t, checkpoint.Source, decoded.Source)
	assert.Equal(t, checkpoint.Digest, decoded.Digest)
	assert.Equal(t, checkpoint.Count, decoded.Count)
	assert.True(t, checkpoint.UpdatedAt.Equal(decoded.UpdatedAt))
}

func TestUnmarshalCheckpoint_Invalid(t *testing.T) {
	_, err := UnmarshalCheckpoint([]byte{})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
