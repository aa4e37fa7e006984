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

// Package search provides two-stage hybrid search over the product catalog.
//
// The Ranker combines:
//   - a lexical stage (package lexical) that keeps the best token-set matches
//   - an oracle stage (package ai) that asks a language model to rate each survivor
//
// Every lexical survivor is returned, annotated with its oracle score and sorted
// by that score. An oracle failure scores 0 and sinks the product to the bottom
// instead of dropping it. Display trims a ranking for presentation.
package search
