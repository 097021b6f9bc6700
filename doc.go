// Copyright 2025 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package appledict implements a library for reading Apple Dictionary
// Services containers in pure Go.
//
// A dictionary bundle's Contents directory holds several files:
//  1. A Body.data file holding every record back-to-back. Each record is an
//     individually zlib-compressed block of entry markup preceded by a
//     12-byte length header. The container itself carries no index; record
//     boundaries must be reconstructed by a linear scan.
//  2. Media files (pronunciation .mp3 clips) referenced by name from the
//     record markup.
//  3. Optional stylesheet and script files used when rendering an entry.
//
// The container format is proprietary and undocumented. This package makes
// no attempt to validate that its reading of the format is the only possible
// one; it reconstructs record boundaries, indexes record titles, and
// extracts typed entries on a best-effort basis.
//
// A full container scan is expensive, so the title index is persisted to a
// side file and reloaded on later runs. The cache carries no version
// information and is never invalidated; delete the file to force a rebuild.
package appledict
