package lang

import (
	"errors"
	"testing"
)

func TestScope_DeclareLookup(t *testing.T) {
	t.Parallel()

	s := NewScope()
	s.Declare("x", Int(1))

	v, err := s.Lookup("x")
	if err != nil || v != Int(1) {
		t.Fatalf("Lookup(x) = %v, %v, want 1", v, err)
	}

	if _, err := s.Lookup("y"); !errors.Is(err, ErrUndefinedVariable) {
		t.Errorf("Lookup(y) error = %v, want %v", err, ErrUndefinedVariable)
	}
}

func TestScope_Shadowing(t *testing.T) {
	t.Parallel()

	s := NewScope()
	s.Declare("x", Int(1))

	s.Push()
	s.Declare("x", Int(2))

	if v, _ := s.Lookup("x"); v != Int(2) {
		t.Errorf("inner x = %v, want 2", v)
	}

	s.Pop()

	if v, _ := s.Lookup("x"); v != Int(1) {
		t.Errorf("outer x after pop = %v, want 1", v)
	}
}

func TestScope_AssignNearest(t *testing.T) {
	t.Parallel()

	s := NewScope()
	s.Declare("x", Int(1))
	s.Declare("y", Int(1))

	s.Push()
	s.Declare("y", Int(10))

	if err := s.Assign("x", Int(5)); err != nil {
		t.Fatal(err)
	}

	if err := s.Assign("y", Int(20)); err != nil {
		t.Fatal(err)
	}

	s.Pop()

	// x was only declared globally, so the inner assignment reached it.
	if v, _ := s.Lookup("x"); v != Int(5) {
		t.Errorf("x = %v, want 5", v)
	}

	// y was shadowed, so the global binding is untouched.
	if v, _ := s.Lookup("y"); v != Int(1) {
		t.Errorf("y = %v, want 1", v)
	}
}

func TestScope_AssignUndeclared(t *testing.T) {
	t.Parallel()

	s := NewScope()

	err := s.Assign("ghost", Int(1))
	if !errors.Is(err, ErrUndefinedVariable) {
		t.Fatalf("Assign error = %v, want %v", err, ErrUndefinedVariable)
	}

	if _, err := s.Lookup("ghost"); err == nil {
		t.Error("failed assignment created a binding")
	}
}

func TestScope_PopKeepsGlobal(t *testing.T) {
	t.Parallel()

	s := NewScope()
	s.Declare("g", Float(1.5))

	s.Pop()
	s.Pop()

	if s.Depth() != 1 {
		t.Fatalf("Depth = %d, want 1", s.Depth())
	}

	if v, err := s.Lookup("g"); err != nil || v != Float(1.5) {
		t.Errorf("g = %v, %v, want 1.5", v, err)
	}
}

func TestScope_NamesAndBindings(t *testing.T) {
	t.Parallel()

	s := NewScope()
	s.Declare("b", Int(2))
	s.Declare("a", Int(1))
	s.Push()
	s.Declare("c", Int(3))
	s.Declare("a", Int(4))

	if got, want := s.Names(), []string{"a", "b", "c"}; !equalStrings(got, want) {
		t.Errorf("Names = %q, want %q", got, want)
	}

	globals := s.Bindings()
	if len(globals) != 2 || globals["a"] != Int(1) {
		t.Errorf("Bindings = %v, want a=1 b=2", globals)
	}

	globals["a"] = Int(100)

	s.Pop()

	if v, _ := s.Lookup("a"); v != Int(1) {
		t.Errorf("Bindings returned a live map: a = %v", v)
	}
}
