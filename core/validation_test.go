package core

import (
	"errors"
	"testing"
)

func TestValidateLine(t *testing.T) {
	tests := []struct {
		name    string
		line    *Line
		wantErr error
	}{
		{
			name: "valid line",
			line: &Line{Id: 1, Season: 1, Episode: 1, Scene: 1, Text: "Hello", Speaker: "Michael Scott"},
		},
		{
			name: "empty speaker is allowed",
			line: &Line{Id: 1, Season: 1, Episode: 1, Scene: 1, Text: "Hello"},
		},
		{
			name:    "nil line",
			line:    nil,
			wantErr: ErrInvalidLine,
		},
		{
			name:    "zero id",
			line:    &Line{Season: 1, Episode: 1, Scene: 1, Text: "Hello"},
			wantErr: ErrMissingID,
		},
		{
			name:    "zero season",
			line:    &Line{Id: 1, Episode: 1, Scene: 1, Text: "Hello"},
			wantErr: ErrInvalidPosition,
		},
		{
			name:    "negative scene",
			line:    &Line{Id: 1, Season: 1, Episode: 1, Scene: -2, Text: "Hello"},
			wantErr: ErrInvalidPosition,
		},
		{
			name:    "blank text",
			line:    &Line{Id: 1, Season: 1, Episode: 1, Scene: 1, Text: "   "},
			wantErr: ErrEmptyText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLine(tt.line)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateLine() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Errorf("ValidateLine() error = nil, want %v", tt.wantErr)
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateLine() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidLine) {
				t.Errorf("ValidateLine() error = %v, want it to wrap ErrInvalidLine", err)
			}
		})
	}
}

func TestValidateCheckpoint(t *testing.T) {
	if err := ValidateCheckpoint(&Checkpoint{Source: "lines.csv"}); err != nil {
		t.Errorf("ValidateCheckpoint() error = %v, want nil", err)
	}

	err := ValidateCheckpoint(nil)
	if !errors.Is(err, ErrInvalidCheckpoint) {
		t.Errorf("ValidateCheckpoint(nil) error = %v, want %v", err, ErrInvalidCheckpoint)
	}

	err = ValidateCheckpoint(&Checkpoint{})
	if !errors.Is(err, ErrEmptySource) {
		t.Errorf("ValidateCheckpoint() error = %v, want %v", err, ErrEmptySource)
	}
}
