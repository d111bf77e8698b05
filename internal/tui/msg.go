package tui

import "github.com/runoshun/kanban/internal/usecase"

// Msg is the sealed interface for all board messages.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgBoardLoaded is sent when the columns are (re)loaded.
type MsgBoardLoaded struct {
	Columns []usecase.BoardColumn
}

func (MsgBoardLoaded) sealed() {}

// MsgItemShown is sent when an item was opened in the detail view.
type MsgItemShown struct {
	Out *usecase.ShowItemOutput
}

func (MsgItemShown) sealed() {}

// MsgItemUpdated is sent after an item changed status.
type MsgItemUpdated struct {
	ID int
}

func (MsgItemUpdated) sealed() {}

// MsgItemDeleted is sent after an item was removed.
type MsgItemDeleted struct {
	ID int
}

func (MsgItemDeleted) sealed() {}

// MsgError is sent when an operation fails.
type MsgError struct {
	Err error
}

func (MsgError) sealed() {}
