package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/galx/internal/album"
	"github.com/desertthunder/galx/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgFolderLoaded MsgKind = iota
	MsgActionDone
	MsgAlbumOpened
	MsgEditorOpened
	MsgProgressUpdate
	MsgBatchComplete
)

type outcome struct {
	note string
	err  error
}

// folderLoadedMsg is the constructor for [MsgFolderLoaded]
func folderLoadedMsg(err error) Msg {
	return Msg{kind: MsgFolderLoaded, data: outcome{err: err}}
}

// actionDoneMsg is the constructor for [MsgActionDone]
func actionDoneMsg(note string, err error) Msg {
	return Msg{kind: MsgActionDone, data: outcome{note: note, err: err}}
}

// albumOpenedMsg is the constructor for [MsgAlbumOpened]
func albumOpenedMsg(gate album.Gate, err error) Msg {
	return Msg{
		kind: MsgAlbumOpened,
		data: struct {
			gate album.Gate
			err  error
		}{gate, err},
	}
}

// editorOpenedMsg is the constructor for [MsgEditorOpened]
func editorOpenedMsg(err error) Msg {
	return Msg{kind: MsgEditorOpened, data: outcome{err: err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// batchCompleteMsg is the constructor for [MsgBatchComplete]
func batchCompleteMsg(note string, err error) Msg {
	return Msg{kind: MsgBatchComplete, data: outcome{note: note, err: err}}
}
