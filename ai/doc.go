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

// Package ai provides the relevance oracle used to re-rank search candidates.
//
// The oracle is an external text-completion model treated as a black box: it is
// sent a fixed prompt containing the user's query and one product name, and its
// free-form reply is reduced to an integer score between 0 and 10 by ParseScore.
//
// # Implementation Packages
//
//   - ai/openai: production oracle speaking the OpenAI-compatible chat API
//     (Ollama, LocalAI, vLLM) through langchaingo
//   - ai/mock: scriptable oracle for unit tests
//
// # Failure Contract
//
// An oracle never fails a ranking batch. When the service cannot be reached,
// times out, or returns nothing, Score returns a Verdict with score 0 and the
// NoResponse marker alongside a diagnostic error. Callers log the error and keep
// the verdict.
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithModel("gemma3:1b"))
//	oracle, err := openai.NewOracle(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer oracle.Close()
//
//	verdict, err := oracle.Score(ctx, "eco tote bag", "Custom Logo Tote Bag")
package ai
