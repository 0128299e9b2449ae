// Package driving provides interfaces for primary/inbound actors (CLI, TUI).
package driving
