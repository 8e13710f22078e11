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

// ValidateFragment validates a Fragment according to domain rules.
//
// Validation rules:
//   - Id must be present and prefixed by the owning DocumentId
//   - DocumentId must carry the document identity prefix
//   - Content must not be empty
//   - ChunkIndex must fall within [0, TotalChunks)
//
// NOT validated:
//   - Vector (populated by the embedding step; the store checks presence
//     at insert time)
//   - Timestamp (any ingestion time is acceptable)
func ValidateFragment(fragment *Fragment) error {
	if fragment == nil {
		return fmt.Errorf("%w: fragment is nil", ErrInvalidFragment)
	}

	if !strings.HasPrefix(fragment.DocumentId, DocumentIDPrefix) {
		return fmt.Errorf("%w: document id %q lacks %q prefix",
			ErrInvalidFragment, fragment.DocumentId, DocumentIDPrefix)
	}

	if fragment.Id == "" || !strings.HasPrefix(fragment.Id, fragment.DocumentId) {
		return fmt.Errorf("%w: fragment id %q does not belong to document %q",
			ErrInvalidFragment, fragment.Id, fragment.DocumentId)
	}

	if fragment.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidFragment, ErrEmptyContent)
	}

	if fragment.ChunkIndex < 0 || fragment.ChunkIndex >= fragment.TotalChunks {
		return fmt.Errorf("%w: chunk index %d out of range [0,%d)",
			ErrInvalidFragment, fragment.ChunkIndex, fragment.TotalChunks)
	}

	return nil
}
