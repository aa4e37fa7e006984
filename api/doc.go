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

// Package api exposes catalog search and favorites over HTTP.
//
// Routes:
//
//	GET    /health
//	GET    /api/search?q=...&min_score=...&limit=...
//	GET    /api/products[?include_archived=true]
//	GET    /api/products/:id
//	POST   /api/load
//	GET    /api/favorites
//	POST   /api/favorites/:id
//	DELETE /api/favorites/:id
//
// Favorites belong to the caller named by the X-User-ID header, or to
// DefaultUser when the header is absent. Product IDs travel as decimal strings.
// POST /api/load starts a catalog load and answers 202 without waiting; it is
// only live when the handler was given a LoadTrigger.
package api
