package cploxplox

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Morphlng/cploxplox/internal/ast"
	"github.com/Morphlng/cploxplox/internal/interp"
	"github.com/Morphlng/cploxplox/internal/lexer"
	"github.com/Morphlng/cploxplox/internal/parser"
	"github.com/Morphlng/cploxplox/internal/report"
	"github.com/Morphlng/cploxplox/internal/resolver"
)

// Version is the interpreter version string.
const Version = "0.1.0"

// Session is a persistent interpreter: the preset context, global
// bindings and module cache survive across Run calls, which is what a
// REPL needs. A Session is not safe for concurrent use.
type Session struct {
	config   *Config
	reporter *report.Reporter
	interp   *interp.Interpreter
}

// NewSession creates a session with the given configuration
// (nil for defaults).
func NewSession(config *Config) *Session {
	if config == nil {
		config = &Config{}
	}
	config.applyDefaults()

	reporter := report.NewReporter(config.Stderr)
	return &Session{
		config:   config,
		reporter: reporter,
		interp: interp.New(interp.Config{
			Stdout:   config.Stdout,
			Stdin:    config.Stdin,
			Reporter: reporter,
			LibPath:  config.LibPath,
		}),
	}
}

// Run lexes, parses, resolves and executes a source string from a
// named file in this session.
//
// Diagnostics are written to the configured Stderr as they occur; the
// returned error summarizes the failing stage. An ExitError reports a
// script-requested exit, not a failure.
func (s *Session) Run(filename, source string) error {
	s.interp.SetEcho(s.config.REPLEcho)

	stmts, err := s.frontend(filename, source)
	if err != nil {
		return err
	}

	if err := s.interp.Interpret(stmts); err != nil {
		var exit *interp.ExitSignal
		if errors.As(err, &exit) {
			return &ExitError{Code: exit.Code}
		}
		s.reporter.Report(err)
		s.reporter.Count()
		return &RuntimeError{Message: firstLine(err.Error())}
	}
	return nil
}

// frontend runs the static stages: tokens, AST, resolution.
func (s *Session) frontend(filename, source string) ([]ast.Stmt, error) {
	tokens, lexErr := lexer.New(filename, source).Tokenize()
	if lexErr != nil {
		s.reporter.Report(lexErr)
		s.reporter.Count()
		return nil, &ParseError{Count: 1, Message: firstLine(lexErr.Error())}
	}
	if s.config.Debug {
		for _, tok := range tokens {
			debugf(s.config, "%s %q\n", tok.Type.Name(), tok.Lexeme)
		}
	}

	p := parser.New(tokens)
	stmts := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		for _, e := range errs {
			s.reporter.Report(e)
		}
		s.reporter.Count()
		return nil, &ParseError{Count: len(errs), Message: firstLine(errs[0].Error())}
	}
	if s.config.Debug {
		debugf(s.config, "%s", ast.Dump(stmts))
	}

	var opts []resolver.Option
	if s.config.LibPath != "" {
		opts = append(opts, resolver.WithLibPath(s.config.LibPath))
	}
	res := resolver.New(s.reporter, opts...)
	if !res.Resolve(stmts) {
		return nil, &ResolveError{Count: s.reporter.Count()}
	}

	return stmts, nil
}

// Run executes a source string from a named file with a one-shot session.
func Run(filename, source string, config *Config) error {
	return NewSession(config).Run(filename, source)
}

// RunFile reads and executes a script file.
func RunFile(path string, config *Config) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return Run(path, string(content), config)
}

func debugf(config *Config, format string, args ...any) {
	fmt.Fprintf(config.Stderr, format, args...)
}

// firstLine trims a multi-line diagnostic down to its summary line.
func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
