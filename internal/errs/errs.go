// Package errs defines the failure kinds a compile can abort with.
// Every error is categorized and carries a text code so callers can
// branch on the kind without parsing messages. Propagation is fail-fast:
// nothing in the evaluator catches or downgrades these.
package errs

import (
	stderrors "errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"nickandperla.net/rocket/internal/token"
)

// Text codes attached to every compile error.
const (
	CodeSyntax             = "SYNTAX_ERROR"
	CodeUnknownDirective   = "UNKNOWN_DIRECTIVE"
	CodeNotFound           = "NOT_FOUND"
	CodeArity              = "ARITY_ERROR"
	CodeNoMatchingTemplate = "NO_MATCHING_TEMPLATE"
	CodeCircularImport     = "CIRCULAR_IMPORT"
	CodeFileIO             = "FILE_IO_ERROR"
	CodeRecursionLimit     = "RECURSION_LIMIT_EXCEEDED"
)

// Syntax reports a parse failure at pos.
func Syntax(pos token.Pos, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return goerrors.New(fmt.Sprintf("%s: %s", pos, msg)).
		WithTextCode(CodeSyntax)
}

// UnknownDirective reports a list head that resolves to nothing.
func UnknownDirective(pos token.Pos, name string) error {
	return goerrors.New(fmt.Sprintf("%s: unknown directive %q", pos, name)).
		WithTextCode(CodeUnknownDirective)
}

// NotFound reports a scope lookup miss at the root.
func NotFound(pos token.Pos, name string) error {
	return goerrors.New(fmt.Sprintf("%s: %q is not defined", pos, name)).
		WithTextCode(CodeNotFound)
}

// Arity reports a directive invoked with an unusable argument shape.
func Arity(pos token.Pos, directive, detail string) error {
	return goerrors.New(fmt.Sprintf("%s: %s: %s", pos, directive, detail)).
		WithTextCode(CodeArity)
}

// NoMatchingTemplate reports that no pattern registered under name
// matched the call's arguments.
func NoMatchingTemplate(pos token.Pos, name string) error {
	return goerrors.New(fmt.Sprintf("%s: no template pattern for %q matches", pos, name)).
		WithTextCode(CodeNoMatchingTemplate)
}

// CircularImport reports an include/import cycle. The chain lists the
// in-progress canonical paths, oldest first, ending with the repeat.
func CircularImport(pos token.Pos, chain []string) error {
	return goerrors.New(fmt.Sprintf("%s: circular import: %s", pos, strings.Join(chain, " -> "))).
		WithTextCode(CodeCircularImport)
}

// FileIO wraps a loader failure.
func FileIO(pos token.Pos, path string, err error) error {
	return goerrors.Wrap(err, goerrors.CategoryExternal,
		fmt.Sprintf("%s: cannot load %q", pos, path)).
		WithTextCode(CodeFileIO)
}

// RecursionLimit reports that macro re-entry exceeded the depth bound.
func RecursionLimit(pos token.Pos, limit int) error {
	return goerrors.New(fmt.Sprintf("%s: recursion limit of %d exceeded", pos, limit)).
		WithTextCode(CodeRecursionLimit)
}

// Chain wraps err with the position of an enclosing include/import call
// so reported locations span files.
func Chain(pos token.Pos, path string, err error) error {
	return goerrors.Wrap(err, goerrors.CategoryExternal,
		fmt.Sprintf("%s: in document %q", pos, path)).
		WithTextCode(Code(err))
}

// Code extracts the text code from a compile error, or "".
func Code(err error) string {
	var ge *goerrors.Error
	if stderrors.As(err, &ge) {
		return ge.TextCode
	}
	return ""
}

// Is reports whether err carries the given text code.
func Is(err error, code string) bool {
	return Code(err) == code
}
