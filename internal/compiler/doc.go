// Package compiler extracts instruction handlers from a program module.
//
// A program module is scanned in four steps, each available on its own:
//
//	FilterFunctions   module body -> function items (MissingModuleBody)
//	ClassifyParams    parameters  -> named arguments (ReceiverParameterNotAllowed,
//	                                 UnsupportedParameterPattern)
//	SplitContext      arguments   -> context + rest (EmptyParameterList)
//	ContextResolver   context type -> accounts ident (ContextIdentifierResolutionFailure)
//
// ParseInstructions composes them and fails fast on the first malformed
// handler in declaration order. Validate runs the same steps but reports
// every malformed handler. ParseInstructionsParallel validates handlers
// concurrently with the same observable result as ParseInstructions.
//
// The pass is a pure function of its input: it keeps no state between
// calls and never mutates the syntax tree.
package compiler
