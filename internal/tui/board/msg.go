package board

import "github.com/runoshun/agile-notes/internal/usecase"

// Msg is the interface for all board viewer messages.
//
//sumtype:decl
type Msg interface {
	sealed()
}

// MsgBoardLoaded is sent when the board has been read from the vault.
type MsgBoardLoaded struct {
	Err   error
	Board *usecase.ShowBoardOutput
}

func (MsgBoardLoaded) sealed() {}
