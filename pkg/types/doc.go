// Package types defines the data shared by every stage of the formula engine.
//
// This package contains:
//   - ASTNode: the formula Abstract Syntax Tree
//   - Locale: decimal and argument separators
//   - Operator priorities shared by the parser and the printers
//   - Error: structured errors with spreadsheet error codes
//   - Empty: the omitted-argument marker value
package types
