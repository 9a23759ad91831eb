package interp

import (
	"os"

	"github.com/Morphlng/cploxplox/internal/ast"
	"github.com/Morphlng/cploxplox/internal/lexer"
	"github.com/Morphlng/cploxplox/internal/object"
	"github.com/Morphlng/cploxplox/internal/parser"
	"github.com/Morphlng/cploxplox/internal/resolver"
	"github.com/Morphlng/cploxplox/internal/token"
)

// Module is the set of global bindings left by running a file once,
// cached by its resolved absolute path.
type Module struct {
	Values map[string]object.Object
}

// Get returns the exported binding, if any.
func (m *Module) Get(name string) (object.Object, bool) {
	val, ok := m.Values[name]
	return val, ok
}

// executeImport loads (or reuses) the module behind an import
// statement and copies the requested symbols into the current context.
func (i *Interpreter) executeImport(s *ast.ImportStmt) error {
	path := s.Path.Lexeme

	module, ok := i.modules[path]
	if !ok {
		loaded, err := i.loadModule(s.Path)
		if err != nil {
			return err
		}
		if loaded == nil || i.reporter.Errors() > 0 {
			return &object.RuntimeError{
				Start:   s.Pos(),
				End:     s.End(),
				Message: "Failed to import Module, error occured",
			}
		}
		module = loaded
		i.modules[path] = module
	}

	if s.Star {
		for name, val := range module.Values {
			i.context.Set(name, val)
		}
		return nil
	}

	for _, sym := range s.Symbols {
		val, ok := module.Get(sym.Name.Lexeme)
		if !ok {
			return &object.RuntimeError{
				Start:   sym.Name.Start,
				End:     sym.Name.End,
				Message: "Can't find `" + sym.Name.Lexeme + "` from module \"" + path + "\".",
			}
		}
		name := sym.Name.Lexeme
		if sym.Alias != nil {
			name = sym.Alias.Lexeme
		}
		i.context.Set(name, val)
	}
	return nil
}

// loadModule re-enters the pipeline for the module file: read, lex,
// parse, resolve and interpret it in a fresh interpreter whose
// __name__ is the file path, then capture its global bindings.
func (i *Interpreter) loadModule(pathTok token.Token) (*Module, error) {
	path := pathTok.Lexeme

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &object.RuntimeError{
			Start:   pathTok.Start,
			End:     pathTok.End,
			Message: "Error in loading Module from file:" + path,
		}
	}

	tokens, lexErr := lexer.New(path, string(content)).Tokenize()
	if lexErr != nil {
		i.reporter.Report(lexErr)
		return nil, nil
	}

	p := parser.New(tokens)
	stmts := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		for _, e := range errs {
			i.reporter.Report(e)
		}
		return nil, nil
	}

	// one extra scope level matches the importing context's depth
	var opts []resolver.Option
	if i.libPath != "" {
		opts = append(opts, resolver.WithLibPath(i.libPath))
	}
	res := resolver.New(i.reporter, opts...)
	if !res.ResolveBlock(stmts) {
		return nil, nil
	}

	child := New(Config{
		Stdout:   i.stdout,
		Stdin:    i.stdin,
		Reporter: i.reporter,
		LibPath:  i.libPath,
	})
	child.modules = i.modules // imports share one cache

	// module code does not run as __main__
	child.global.Set("__name__", object.Str(path))

	if err := child.Interpret(stmts); err != nil {
		return nil, err
	}
	delete(child.global.Variables, "__name__")

	values := make(map[string]object.Object, len(child.global.Variables))
	for name, ref := range child.global.Variables {
		values[name] = *ref
	}
	return &Module{Values: values}, nil
}
