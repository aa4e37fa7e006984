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
	// ErrInvalidProduct indicates a ProductRecord failed validation.
	ErrInvalidProduct = errors.New("invalid product record")

	// ErrEmptyName indicates the Name field is empty.
	ErrEmptyName = errors.New("product name cannot be empty")

	// ErrNameLength indicates the Name is outside the accepted length bounds.
	ErrNameLength = errors.New("product name length out of bounds")

	// ErrInvalidURL indicates the product URL is missing or not absolute.
	ErrInvalidURL = errors.New("product url must be an absolute http(s) url")

	// ErrEmptyImage indicates the ImageURL field is empty.
	ErrEmptyImage = errors.New("image url cannot be empty")

	// ErrEmptyPrice indicates the Price field is empty.
	ErrEmptyPrice = errors.New("price cannot be empty")
)
