package cploxplox

import (
	"io"
	"os"
)

// Config holds configuration options for script execution.
type Config struct {
	// REPLEcho enables expression-statement echoing: the value of a
	// top-level non-nil expression is printed after evaluation.
	REPLEcho bool

	// Debug dumps the token stream and the parsed AST to Stderr
	// before execution.
	Debug bool

	// Stdout is the writer for print and echo output (default os.Stdout).
	Stdout io.Writer

	// Stderr is the writer for error diagnostics (default os.Stderr).
	Stderr io.Writer

	// Stdin is the reader behind the getc builtin (default os.Stdin).
	Stdin io.Reader

	// LibPath overrides the LOXLIB import search path, a ;-separated
	// directory list. Empty means the environment variable applies.
	LibPath string
}

// applyDefaults fills in default values for unset Config fields.
func (c *Config) applyDefaults() {
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
	if c.Stdin == nil {
		c.Stdin = os.Stdin
	}
}
