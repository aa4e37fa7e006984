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

// Package scrape harvests product listings from a category page that reveals
// more items as it is scrolled.
//
// The package never drives a browser itself. It talks to the page through the
// Page and Element interfaces, so any automation backend can sit behind them;
// scrape/htmlpage provides one built on static HTML snapshots.
//
// # Extraction
//
// An Extractor runs one category at a time. The first pass reads whatever is
// already rendered. Every later pass scrolls, presses PageDown a random number of
// times, waits for the page to settle and then checks whether new product
// containers appeared. Each visible container is turned into a
// core.ProductRecord when a detail link, an image, a cleaned name and a price can
// all be found; URLs already present in the session's core.KnownURLSet are
// skipped.
//
// Passes that accept nothing are classified by classifyPass and counted. The
// category ends once the count reaches ExtractorConfig.MaxStalledPasses, once
// MaxPasses passes have run, or once the per-category record cap is hit.
//
// # Sessions
//
// A Session discovers the category tabs, matches them against
// core.CategoryToggles, activates each enabled tab and runs the Extractor on it.
// The same known-URL set is threaded through every category, so a product
// listed under two tabs is only recorded once. UI failures skip the category;
// unexpected failures end the session but the records gathered so far are still
// returned.
package scrape
