package ui

import (
	"dragline/internal/domain"
	"dragline/internal/indicator"
)

// StateMsg carries a published indicator snapshot into the UI loop.
type StateMsg struct {
	State indicator.State
}

// SelectionMsg carries the ordered block selection into the UI loop.
type SelectionMsg struct {
	Blocks []domain.BlockID
}

// animSettleMsg is sent once the grow phase has had time to land, so the
// model can report the drop animation as finished.
type animSettleMsg struct{}
