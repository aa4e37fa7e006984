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

// Package mock provides a test double for the relevance oracle.
//
// The mock lets tests exercise ranking without a model server. Behavior can be
// scripted per call and calls are recorded for assertions.
//
// # Usage
//
//	oracle := mock.NewOracle().
//	    WithScoreFunc(func(ctx context.Context, query, name string) (ai.Verdict, error) {
//	        return ai.NewVerdict("Score: 7"), nil
//	    })
//
//	// Check calls
//	count := oracle.CallCount()
//	calls := oracle.Calls()
//
// # Default Behavior
//
// Without a ScoreFunc the mock answers "Score: N" where N is the number of query
// words found in the product name, capped at 10.
package mock
