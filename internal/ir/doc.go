// Package ir provides the intermediate representation produced by the
// instruction compiler and consumed by code generation.
//
// ir imports only internal/syntax. Raw syntax (argument types, the whole
// handler declaration) is carried by reference and never interpreted here;
// JSON and canonical forms render it as source text.
//
// Canonical serialization follows RFC 8785 with NFC-normalized strings and
// is the only form used for content-addressed hashes.
package ir
