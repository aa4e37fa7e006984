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

package storage

import "errors"

// Repository errors. Callers match them with errors.Is; implementations wrap
// them with detail.
var (
	// ErrNotFound is returned for an unknown product, or a favorite that was never saved.
	ErrNotFound = errors.New("storage: not found")

	// ErrDuplicateKey is returned when a product is already a user's favorite.
	ErrDuplicateKey = errors.New("storage: already exists")

	// ErrStorageClosed is returned by any operation after the backend was closed.
	ErrStorageClosed = errors.New("storage: closed")

	// ErrSerializationFailed wraps encode and decode failures of stored values.
	ErrSerializationFailed = errors.New("storage: serialization failed")

	// ErrInvalidPath is returned when the database location cannot be used.
	ErrInvalidPath = errors.New("storage: invalid database path")
)
