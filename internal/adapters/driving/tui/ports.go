// Package tui provides the interactive chat interface. It is a driving
// adapter: all behaviour flows through the core driving ports.
package tui

import (
	"github.com/askbase/askbase-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Chat runs conversations.
	Chat driving.ChatService

	// Document provides document records.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	return nil
}
