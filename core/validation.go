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
	"net/url"
	"strings"
	"unicode/utf8"
)

// Name length bounds, in runes, after cleaning.
const (
	MinNameLength = 10
	MaxNameLength = 250
)

// ValidateProductRecord checks a freshly extracted record against the rules a
// scrape must meet before the record is accepted.
//
// Validation rules:
//   - Name, ProductURL, ImageURL and Price must not be empty
//   - Name must be between MinNameLength and MaxNameLength runes
//   - ProductURL must be an absolute http or https URL
//
// Category is not validated; it may be empty for records loaded from older files.
func ValidateProductRecord(record *ProductRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidProduct)
	}

	if record.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrEmptyName)
	}

	if n := utf8.RuneCountInString(record.Name); n < MinNameLength || n > MaxNameLength {
		return fmt.Errorf("%w: %w: %d", ErrInvalidProduct, ErrNameLength, n)
	}

	if !IsAbsoluteURL(record.ProductURL) {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrInvalidURL)
	}

	if record.ImageURL == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrEmptyImage)
	}

	if record.Price == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrEmptyPrice)
	}

	return nil
}

// ValidateStoredRecord checks what the catalog needs to key and list a record:
// a non-empty name and an absolute http or https product URL. Image, price and
// the name length bounds are left to the extractor, so records from older or
// hand-edited interchange files still load.
func ValidateStoredRecord(record *ProductRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidProduct)
	}
	if strings.TrimSpace(record.Name) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrEmptyName)
	}
	if !IsAbsoluteURL(record.ProductURL) {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrInvalidURL)
	}
	return nil
}

// IsAbsoluteURL reports whether raw parses as an http or https URL with a host.
func IsAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
