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
	// ErrPathResolution indicates a file path could not be resolved to a
	// canonical absolute form.
	ErrPathResolution = errors.New("path resolution failed")

	// ErrUnsupportedFileType indicates a file type outside {md, pdf}.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrExtraction indicates the extraction step failed or yielded no text.
	ErrExtraction = errors.New("text extraction failed")

	// ErrEmptyContent indicates chunking produced nothing from a document.
	ErrEmptyContent = errors.New("no content extracted from document")

	// ErrEmptyQuery indicates an empty or blank search query.
	ErrEmptyQuery = errors.New("search query cannot be empty")

	// ErrMissingAPIKey indicates a required embedding-backend credential
	// was neither supplied nor found in the environment.
	ErrMissingAPIKey = errors.New("embedding API key required")

	// ErrInvalidChunking indicates a chunk size / overlap configuration
	// that cannot terminate (chunk size must exceed overlap).
	ErrInvalidChunking = errors.New("invalid chunking configuration")

	// ErrInvalidFragment indicates a Fragment failed validation.
	ErrInvalidFragment = errors.New("invalid fragment")
)
