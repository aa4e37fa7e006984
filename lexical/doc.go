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

// Package lexical implements the first, cheap stage of catalog search.
//
// A Filter normalizes the query and every product name, scores each pair with a
// token-set similarity ratio in the range 0-100, and keeps the best scoring
// products above a threshold. The result feeds the oracle stage in package search.
package lexical
