// Package lang implements kdn, a small scripting language of variable
// bindings, arithmetic, printing, and counted loops.
//
// Source text is split into tokens by [Tokenize], parsed by a hand-written
// recursive descent parser ([Parse], [ParseString]) into a [Program], and
// executed directly by a tree-walking [Interpreter] over a [Scope] of
// lexically nested frames.
//
// # Grammar
//
// Informal EBNF:
//
//	program     → directive* EOF
//	directive   → let | assign | print | for
//	let         → "let" IDENT ( ":" type )? "=" expr ";"
//	assign      → IDENT "=" expr ";"
//	print       → "print" "(" expr ")" ";"
//	for         → "for" IDENT "in" expr ".." expr "{" directive* "}"
//	type        → "int" | "float" | "string"
//	expr        → term ( ( "+" | "-" ) term )*
//	term        → factor ( ( "*" | "/" ) factor )*
//	factor      → NUMBER | IDENT | "(" expr ")"
//
// Line comments begin with "//" or "#".
//
// # Example
//
//	let total = 0;
//	for i in 0..4 {
//	  total = total + i * 2;
//	}
//	print(total);        // 12
//	print(7 / 2);        // 3
//	print(7.0 / 2);      // 3.5
//
// # Values
//
// Every value is a 64-bit integer or a 64-bit float. Mixing the two promotes
// to float. Integer division truncates toward zero and dividing by zero of
// either type is an error. Type annotations on let are recorded in the tree
// but not checked.
//
// # Scoping
//
// The interpreter starts with one global frame. Each for loop pushes a single
// frame for its whole run, holding the loop binding and any let inside the
// body, and pops it when the loop ends. Assignment updates the innermost
// frame that declares the name.
//
// # Errors
//
// Every error is a [*Error] derived from one of the package sentinels, such
// as [ErrParse] or [ErrDivisionByZero], and carries the [Span] of the source
// it refers to. The first error ends lexing, parsing, or execution.
package lang
