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


package core

import (
	"fmt"
	"strings"
)

// ValidateLine checks that a Line has the required fields set correctly.
// Returns an error wrapping ErrInvalidLine if validation fails.
func ValidateLine(line *Line) error {
	if line == nil {
		return fmt.Errorf("%w: line is nil", ErrInvalidLine)
	}

	if line.Id == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidLine, ErrMissingID)
	}

	if err := ValidatePosition(line.Season, line.Episode, line.Scene); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLine, err)
	}

	if strings.TrimSpace(line.Text) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidLine, ErrEmptyText)
	}

	return nil
}

// ValidatePosition checks that season, episode and scene are all positive.
func ValidatePosition(season, episode, scene int) error {
	if season < 1 || episode < 1 || scene < 1 {
		return fmt.Errorf("%w: S%dE%d scene %d", ErrInvalidPosition, season, episode, scene)
	}
	return nil
}

// ValidateCheckpoint checks that a Checkpoint names its source.
func ValidateCheckpoint(checkpoint *Checkpoint) error {
	if checkpoint == nil {
		return fmt.Errorf("%w: checkpoint is nil", ErrInvalidCheckpoint)
	}

	if checkpoint.Source == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCheckpoint, ErrEmptySource)
	}

	return nil
}
