package tui

import (
	"github.com/Veraticus/ccgen/internal/engine"
	"github.com/Veraticus/ccgen/internal/service"
)

// Async operation messages.
type generatedMsg struct {
	err    error
	result *engine.Result
}

type copiedMsg struct {
	err error
}

type lastBINMsg struct {
	bin     string
	history []string
}

type rememberedMsg struct {
	history []string
}

// Toast messages.
type toastMsg struct {
	kind    service.NotificationKind
	message string
}

type clearToastMsg struct {
	id int
}
