package eval

import (
	"nickandperla.net/rocket/internal/errs"
	"nickandperla.net/rocket/internal/expr"
	"nickandperla.net/rocket/internal/token"
)

// Truth is stringly typed: "" is false, anything else is true, and the
// logic directives produce "true" for a truthy result.
const truthy = "true"

func builtinIf(e *Evaluator, scope ScopeID, pos token.Pos, args []expr.Expr) (string, error) {
	if len(args) < 2 || len(args) > 3 {
		return "", errs.Arity(pos, "if", "expected (condition then else?)")
	}
	cond, err := e.eval(args[0], scope)
	if err != nil {
		return "", err
	}
	if cond != "" {
		return e.eval(args[1], scope)
	}
	if len(args) == 3 {
		return e.eval(args[2], scope)
	}
	return "", nil
}

func builtinNot(e *Evaluator, scope ScopeID, pos token.Pos, args []expr.Expr) (string, error) {
	if len(args) != 1 {
		return "", errs.Arity(pos, "not", "expected one argument")
	}
	value, err := e.eval(args[0], scope)
	if err != nil {
		return "", err
	}
	if value == "" {
		return truthy, nil
	}
	return "", nil
}

func builtinEquals(e *Evaluator, scope ScopeID, pos token.Pos, args []expr.Expr) (string, error) {
	if len(args) < 2 {
		return "", errs.Arity(pos, "equals", "expected at least two arguments")
	}
	first, err := e.eval(args[0], scope)
	if err != nil {
		return "", err
	}
	for _, arg := range args[1:] {
		next, err := e.eval(arg, scope)
		if err != nil {
			return "", err
		}
		if next != first {
			return "", nil
		}
	}
	return truthy, nil
}

func builtinNotEquals(e *Evaluator, scope ScopeID, pos token.Pos, args []expr.Expr) (string, error) {
	result, err := builtinEquals(e, scope, pos, args)
	if err != nil {
		return "", err
	}
	if result == "" {
		return truthy, nil
	}
	return "", nil
}
