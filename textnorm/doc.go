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

// Package textnorm cleans free text for lexical matching.
//
// A Normalizer lowercases its input, replaces non-word characters with spaces,
// drops English stop words and single-character tokens, and reduces the rest to a
// dictionary base form (golem's English lemma tables, no part of speech). The
// output is a single
// space separated string, and normalizing it again yields the same string.
//
// Normalizers are built explicitly with New, which loads the lemma dictionary,
// and are safe for concurrent use once constructed.
package textnorm
