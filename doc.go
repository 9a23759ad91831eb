// Package cploxplox is a tree-walking interpreter for a small
// dynamically-typed, class-based scripting language in the Lox family,
// extended with lists, dicts, modules, lambdas, a string class,
// operator overloading and destructors.
//
// The pipeline runs source text through four stages: the lexer
// produces a position-tracked token stream, the recursive-descent
// parser builds the AST with error recovery, the resolver annotates
// lexical scope depths and enforces structural rules, and the
// interpreter walks the tree with a lexical context chain, closures,
// method binding and a module cache.
//
// Run a script:
//
//	err := cploxplox.RunFile("main.lox", nil)
//
// Keep state across inputs, as a REPL does:
//
//	session := cploxplox.NewSession(&cploxplox.Config{REPLEcho: true})
//	_ = session.Run("<stdin>", `var x = 1;`)
//	_ = session.Run("<stdin>", `x + 1;`) // echoes 2
package cploxplox
