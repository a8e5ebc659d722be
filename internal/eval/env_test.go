package eval

import "testing"

func TestEnvDefineLookup(t *testing.T) {
	env := NewEnvironment()
	env.Define(env.Root(), "x", Binding{Kind: BindValue, Value: "1"})

	b, ok := env.Lookup(env.Root(), "x")
	if !ok || b.Value != "1" {
		t.Fatalf("lookup x: got %v %v", b, ok)
	}
	if _, ok := env.Lookup(env.Root(), "y"); ok {
		t.Fatal("lookup y: expected miss")
	}
}

func TestEnvChainWalksOutward(t *testing.T) {
	env := NewEnvironment()
	env.Define(env.Root(), "x", Binding{Kind: BindValue, Value: "outer"})

	child := env.NewChild(env.Root())
	if b, ok := env.Lookup(child, "x"); !ok || b.Value != "outer" {
		t.Fatalf("child sees outer x: got %v %v", b, ok)
	}

	env.Define(child, "x", Binding{Kind: BindValue, Value: "inner"})
	if b, _ := env.Lookup(child, "x"); b.Value != "inner" {
		t.Errorf("shadowed x: got %q", b.Value)
	}
	if b, _ := env.Lookup(env.Root(), "x"); b.Value != "outer" {
		t.Errorf("outer x after shadow: got %q", b.Value)
	}

	env.Release(child)
	if b, _ := env.Lookup(env.Root(), "x"); b.Value != "outer" {
		t.Errorf("outer x after release: got %q", b.Value)
	}
}

func TestEnvStaleIDAfterRelease(t *testing.T) {
	env := NewEnvironment()
	child := env.NewChild(env.Root())
	env.Define(child, "x", Binding{Kind: BindValue, Value: "1"})
	env.Release(child)

	if _, ok := env.Lookup(child, "x"); ok {
		t.Fatal("released scope still resolves")
	}

	// The slot is recycled with a new generation; the stale ID must not
	// see the new scope's bindings.
	other := env.NewChild(env.Root())
	env.Define(other, "y", Binding{Kind: BindValue, Value: "2"})
	if _, ok := env.Lookup(child, "y"); ok {
		t.Fatal("stale ID resolves against recycled slot")
	}
	if b, ok := env.Lookup(other, "y"); !ok || b.Value != "2" {
		t.Fatalf("recycled slot lookup: got %v %v", b, ok)
	}
}

func TestEnvRootNeverReleased(t *testing.T) {
	env := NewEnvironment()
	env.Define(env.Root(), "x", Binding{Kind: BindValue, Value: "1"})
	env.Release(env.Root())
	if _, ok := env.Lookup(env.Root(), "x"); !ok {
		t.Fatal("root released")
	}
}

func TestEnvNamesAndLocal(t *testing.T) {
	env := NewEnvironment()
	env.Define(env.Root(), "outer", Binding{Kind: BindValue, Value: "o"})
	child := env.NewChild(env.Root())
	env.Define(child, "a", Binding{Kind: BindValue, Value: "1"})
	env.Define(child, "b", Binding{Kind: BindValue, Value: "2"})

	names := env.Names(child)
	if len(names) != 2 {
		t.Fatalf("Names: got %v", names)
	}
	if _, ok := env.Local(child, "outer"); ok {
		t.Error("Local sees parent binding")
	}
	if b, ok := env.Local(child, "a"); !ok || b.Value != "1" {
		t.Errorf("Local a: got %v %v", b, ok)
	}
}
