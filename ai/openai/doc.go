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

// Package openai provides the relevance oracle over OpenAI-compatible APIs.
//
// The oracle uses the langchaingo library to talk to OpenAI or compatible
// servers such as Ollama, LocalAI or vLLM.
//
// # Usage
//
//	cfg := ai.NewConfig(
//	    ai.WithHost("http://localhost:11434"), // /v1 added automatically
//	    ai.WithModel("gemma3:1b"),
//	)
//
//	oracle, err := openai.NewOracle(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer oracle.Close()
//
//	verdict, err := oracle.Score(ctx, "usb c cable", "Braided USB-C Fast Charging Cable")
//	if err != nil {
//	    slog.Warn("oracle failed, using fallback score", "err", err)
//	}
package openai
