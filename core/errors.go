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
	// ErrInvalidSection indicates a Section failed validation.
	ErrInvalidSection = errors.New("invalid section")

	// ErrEmptyID indicates the ID field is empty.
	ErrEmptyID = errors.New("section id cannot be empty")

	// ErrEmptyCode indicates the Code field is empty.
	ErrEmptyCode = errors.New("section code cannot be empty")

	// ErrEmptyTerm indicates the Term field is empty.
	ErrEmptyTerm = errors.New("section term cannot be empty")

	// ErrNegativeCredits indicates a negative credit count.
	ErrNegativeCredits = errors.New("credits cannot be negative")

	// ErrInvalidEnrollment indicates negative enrollment figures.
	ErrInvalidEnrollment = errors.New("enrollment cannot be negative")
)
