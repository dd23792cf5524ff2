// Package ui implements an interactive terminal gallery using bubbletea's Elm architecture.
//
// The TUI hosts the engine components against one working folder:
//  1. [BrowseView] : folder grid with selection marks, the batch toolbar and grid drag onto album tiles
//  2. [ConfirmView] : confirm a batch or single delete with the total count
//  3. [MoveView] : enter the target folder for the selected photos
//  4. [EditorView] : album editing session with the cover marker, remove and keyboard reorder
//  5. [AddPhotosView] : choose unattached media to add to the open album
//  6. [ViewerView] : step through an opened album with h/l
//  7. [ProgressView] : monitor batch progress updates
//
// Engine components never touch the model directly. They draw on a [Surface], which implements every
// view contract the engine defines, and the (view) [Model] reads a [Frame] from it on each update.
// Remote calls run inside tea.Cmds and report back through the Msg union type; batch actions stream
// [tasks.ProgressUpdate] values over a channel the same way as any other long-running operation.
//
// Keyboard navigation uses vim-style bindings with contextual help displayed via charmbracelet/bubbles/help.
package ui
