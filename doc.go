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


// Package officelines searches a corpus of dialogue lines from The Office.
//
// A Database keeps imported lines in BadgerDB or SQLite and searches them
// with the text-matching engine in package search. A Corpus does the same
// for lines held only in memory, such as a CSV file read on demand or the
// built-in sample lines.
package officelines
