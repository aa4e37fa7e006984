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

// Package interchange reads and writes the record hand-off file shared by the
// scraper and the catalog loader.
//
// The file is a JSON array of flat objects with the keys name, product_url,
// image_url, price and alibaba_category, indented by two spaces. A missing file
// reads as empty. A file that cannot be decoded also reads as empty and the
// problem is logged, so a damaged snapshot never blocks a fresh scrape.
package interchange
