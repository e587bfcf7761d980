// Package syntax defines the module-shaped syntax tree consumed by the
// instruction compiler.
//
// The tree is deliberately small: it models only what the compiler needs to
// find handler functions and split their parameters. Everything else (function
// bodies, most types, non-function items) is carried as source text with a
// span so later stages can re-inspect it.
//
// Item, Param, Pattern and Type are closed sum types. Only this package can
// add variants; consumers switch exhaustively over the known ones.
//
// Frontends that build the tree live in subpackages (see rustsrc).
package syntax
