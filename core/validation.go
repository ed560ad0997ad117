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

// ValidateSection validates a Section according to domain rules.
//
// Validation rules:
//   - ID, Code and Term must not be blank
//   - Credits must not be negative
//   - EnrollmentCap and EnrollmentTotal must not be negative
//
// NOT validated (degrade gracefully downstream):
//   - Meeting day and time strings
//   - SectionType (unknown types are neither primary nor secondary)
func ValidateSection(section *Section) error {
	if section == nil {
		return fmt.Errorf("%w: section is nil", ErrInvalidSection)
	}

	if strings.TrimSpace(section.ID) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSection, ErrEmptyID)
	}

	if strings.TrimSpace(section.Code) == "" {
		return fmt.Errorf("%w: %s: %w", ErrInvalidSection, section.ID, ErrEmptyCode)
	}

	if strings.TrimSpace(section.Term) == "" {
		return fmt.Errorf("%w: %s: %w", ErrInvalidSection, section.ID, ErrEmptyTerm)
	}

	if section.Credits < 0 {
		return fmt.Errorf("%w: %s: %w", ErrInvalidSection, section.ID, ErrNegativeCredits)
	}

	if section.EnrollmentCap < 0 || section.EnrollmentTotal < 0 {
		return fmt.Errorf("%w: %s: %w", ErrInvalidSection, section.ID, ErrInvalidEnrollment)
	}

	return nil
}
