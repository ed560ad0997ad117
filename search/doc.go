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

// Package search provides filtered fuzzy search over a course catalog snapshot.
//
// The Index type runs a multi-stage query pipeline:
//   - Bitmap filtering by subject, term, hub, college and status
//   - Candidate narrowing through a trigram index, or a code-prefix index
//     for queries shorter than three characters
//   - Fuzzy ranking with a pluggable Scorer
//
// SearchGrouped additionally folds discussion and lab sections under their
// lecture sections before paginating.
package search
