// cploxplox - a Lox-family scripting language interpreter.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/Morphlng/cploxplox"
)

const (
	appName     = "cploxplox"
	historyFile = ".cploxplox_history"
	promptMain  = "lox > "
	promptCont  = "...   "
	banner      = "cploxplox REPL — Ctrl+C to cancel input, Ctrl+D or `exit` to leave."
)

func main() {
	var (
		file        string
		interactive bool
		version     bool
		debug       bool
	)
	flag.StringVar(&file, "file", "", "script file to run")
	flag.BoolVar(&interactive, "i", false, "drop into the REPL after running the script")
	flag.BoolVar(&version, "v", false, "print version and exit")
	flag.BoolVar(&debug, "D", false, "dump tokens and AST while running")
	flag.Parse()

	if version {
		fmt.Printf("%s %s\n", appName, cploxplox.Version)
		return
	}

	config := &cploxplox.Config{Debug: debug}

	if file != "" {
		if err := cploxplox.RunFile(file, config); err != nil {
			if code, ok := cploxplox.IsExitError(err); ok {
				os.Exit(code)
			}
			fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
			if !interactive {
				os.Exit(1)
			}
		}
		if !interactive {
			return
		}
	}

	os.Exit(runREPL(config))
}

// runREPL reads possibly-multiline inputs with liner and evaluates
// them in one persistent session, echoing expression values.
func runREPL(config *cploxplox.Config) int {
	fmt.Println(banner)

	config.REPLEcho = true
	session := cploxplox.NewSession(config)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		code, ok := readInput(ln)
		if !ok {
			fmt.Println()
			return 0
		}
		if strings.TrimSpace(code) == "" {
			continue
		}
		if strings.TrimSpace(code) == "exit" {
			return 0
		}

		ln.AppendHistory(code)

		if err := session.Run("<stdin>", code); err != nil {
			if code, ok := cploxplox.IsExitError(err); ok {
				return code
			}
			// diagnostics are already printed by the session
			continue
		}
	}
}

// readInput accumulates lines until braces balance, so block
// statements can span multiple lines.
func readInput(ln *liner.State) (string, bool) {
	var sb strings.Builder
	prompt := promptMain

	for {
		line, err := ln.Prompt(prompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				return "", true // canceled input, not EOF
			}
			return "", false
		}

		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(line)

		if openBraces(sb.String()) <= 0 {
			return sb.String(), true
		}
		prompt = promptCont
	}
}

// openBraces counts unbalanced braces outside strings and comments.
func openBraces(code string) int {
	depth := 0
	inString := false
	inComment := false
	escaped := false

	for _, ch := range code {
		switch {
		case inComment:
			if ch == '\n' {
				inComment = false
			}
		case inString:
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
		case ch == '"':
			inString = true
		case ch == '#':
			inComment = true
		case ch == '{':
			depth++
		case ch == '}':
			depth--
		}
	}
	return depth
}
