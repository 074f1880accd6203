package tui

import (
	"github.com/muesli/termenv"
)

// Success styles a positive status line for the current terminal.
func Success(msg string) string {
	p := termenv.ColorProfile()
	return termenv.String("✔ " + msg).Foreground(p.Color("#22c55e")).Bold().String()
}

// Failure styles a negative status line for the current terminal.
func Failure(msg string) string {
	p := termenv.ColorProfile()
	return termenv.String("✘ " + msg).Foreground(p.Color("#ef4444")).String()
}
