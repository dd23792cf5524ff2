// Package models defines the gallery domain entities shared by the engine, the API client, and the terminal UI.
//
// The package contains two categories of types:
//
// 1. Gallery values normalized from the remote API:
//   - [Item] : a photo, album tile, or other folder entry addressable by opaque id
//   - [Album] : an ordered, named collection of items with an optional explicit cover
//   - [FolderContent] : the items rendered for one folder of the grid
//
// 2. Persistent entities stored in the local journal database:
//   - [JournalEntry] : one attempted remote mutation and its outcome
//
// Persistent entities implement the [Model] interface, and the [Repository] interface defines standard CRUD operations for database access.
//
// The [Album.EffectiveCover] method is the single place that decides which item represents an album.
// An explicit cover wins only while it still references a member; otherwise the first item is used.
package models
