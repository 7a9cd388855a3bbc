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

import "errors"

// Domain validation errors
var (
	// ErrInvalidLine indicates a Line failed validation.
	ErrInvalidLine = errors.New("invalid line")

	// ErrMissingID indicates the line has no identifier.
	ErrMissingID = errors.New("line id cannot be zero")

	// ErrInvalidPosition indicates a season, episode or scene number below one.
	ErrInvalidPosition = errors.New("season, episode and scene must be positive")

	// ErrEmptyText indicates the Text field is empty.
	ErrEmptyText = errors.New("line text cannot be empty")

	// ErrInvalidCheckpoint indicates a Checkpoint failed validation.
	ErrInvalidCheckpoint = errors.New("invalid checkpoint")

	// ErrEmptySource indicates the checkpoint Source field is empty.
	ErrEmptySource = errors.New("checkpoint source cannot be empty")
)
