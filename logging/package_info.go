// Package logging contains the logger model shared by the harness: a minimal Printf-style Logger,
// a CapturingLogger that keeps output for later display, and a bridge to leveled ldlog.Loggers.
package logging
