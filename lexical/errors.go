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

package lexical

import "errors"

var (
	// ErrNilNormalizer is returned when a Filter is built without a normalizer.
	ErrNilNormalizer = errors.New("lexical: normalizer is required")

	// ErrNilScorer is returned when WithScorer is given a nil function.
	ErrNilScorer = errors.New("lexical: scorer cannot be nil")
)
