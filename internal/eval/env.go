// Package eval implements the Rocket evaluator.
package eval

import (
	"nickandperla.net/rocket/internal/expr"
)

// BindingKind discriminates what a name resolves to.
type BindingKind int

const (
	// BindValue is a fully evaluated string, as produced by let.
	BindValue BindingKind = iota
	// BindMacro is an unevaluated body captured by define.
	BindMacro
	// BindTemplates is a stack of pattern templates, newest first.
	BindTemplates
)

// Binding is one entry in a scope.
type Binding struct {
	Kind      BindingKind
	Value     string
	Macro     expr.Expr
	Templates []templateDef
}

// ScopeID addresses a scope record in the arena. The generation counter
// guards against use of a released slot.
type ScopeID struct {
	index uint32
	gen   uint32
}

type scope struct {
	gen       uint32
	parent    ScopeID
	hasParent bool
	vars      map[string]Binding
	live      bool
}

// Environment holds every scope created during a compile run. Scopes are
// arena records addressed by ScopeID rather than linked by pointers, so
// releasing a frame is an O(1) slot recycle and stale IDs are detectable.
type Environment struct {
	scopes []scope
	free   []uint32
	root   ScopeID
}

// NewEnvironment creates an environment containing only the root scope.
func NewEnvironment() *Environment {
	env := &Environment{}
	env.root = env.alloc(ScopeID{}, false)
	return env
}

// Root returns the root scope. The root lives for the whole run.
func (env *Environment) Root() ScopeID { return env.root }

func (env *Environment) alloc(parent ScopeID, hasParent bool) ScopeID {
	if n := len(env.free); n > 0 {
		idx := env.free[n-1]
		env.free = env.free[:n-1]
		s := &env.scopes[idx]
		s.gen++
		s.parent = parent
		s.hasParent = hasParent
		s.vars = make(map[string]Binding)
		s.live = true
		return ScopeID{index: idx, gen: s.gen}
	}
	env.scopes = append(env.scopes, scope{
		parent:    parent,
		hasParent: hasParent,
		vars:      make(map[string]Binding),
		live:      true,
	})
	return ScopeID{index: uint32(len(env.scopes) - 1)}
}

func (env *Environment) get(id ScopeID) *scope {
	if int(id.index) >= len(env.scopes) {
		return nil
	}
	s := &env.scopes[id.index]
	if !s.live || s.gen != id.gen {
		return nil
	}
	return s
}

// NewChild creates a scope whose lookups fall through to parent.
func (env *Environment) NewChild(parent ScopeID) ScopeID {
	return env.alloc(parent, true)
}

// Release recycles a scope slot. The root is never released; releasing
// a stale ID is a no-op.
func (env *Environment) Release(id ScopeID) {
	if id == env.root {
		return
	}
	s := env.get(id)
	if s == nil {
		return
	}
	s.live = false
	s.vars = nil
	env.free = append(env.free, id.index)
}

// Define binds name in exactly the given scope, shadowing any binding of
// the same name in an ancestor.
func (env *Environment) Define(id ScopeID, name string, b Binding) {
	if s := env.get(id); s != nil {
		s.vars[name] = b
	}
}

// Lookup resolves name by walking the scope chain from id to the root.
func (env *Environment) Lookup(id ScopeID, name string) (Binding, bool) {
	for {
		s := env.get(id)
		if s == nil {
			return Binding{}, false
		}
		if b, ok := s.vars[name]; ok {
			return b, true
		}
		if !s.hasParent {
			return Binding{}, false
		}
		id = s.parent
	}
}

// Local returns the binding for name in exactly the given scope.
func (env *Environment) Local(id ScopeID, name string) (Binding, bool) {
	s := env.get(id)
	if s == nil {
		return Binding{}, false
	}
	b, ok := s.vars[name]
	return b, ok
}

// Names lists the names bound directly in the given scope, in no
// particular order.
func (env *Environment) Names(id ScopeID) []string {
	s := env.get(id)
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.vars))
	for name := range s.vars {
		names = append(names, name)
	}
	return names
}
