// Package errors provides structured, actionable error messages for Lumen
// tooling.
//
// Each registered error has a code (e.g., "E101") mapping to a short
// message, a detailed explanation, and a documentation URL. Errors can
// carry a source location with surrounding context, a fix suggestion, and
// a wrapped cause.
//
// # Error Categories
//
//   - runtime: reactive runtime errors (hook order, disposed scopes)
//   - render: component render and markup errors
//   - config: lumen.json problems
//   - assets: asset store and manifest problems
//   - shell: window and surface problems
//   - cli: command-line usage errors
//
// # Usage
//
//	err := errors.New("E120").
//	    WithDetail("Failed to parse lumen.json").
//	    WithSuggestion("Check that lumen.json is valid JSON")
//
//	errors.PrintError(err)
package errors
