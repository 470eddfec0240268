package lang

import (
	"log/slog"
	"maps"
	"slices"
)

// Scope is a stack of variable frames. The bottom frame holds global
// bindings and is never popped.
//
// Lookup and Assign search from the innermost frame outward; Declare always
// binds in the innermost frame. A Scope is not safe for concurrent use.
type Scope struct {
	frames []map[string]Value
}

// NewScope returns a Scope containing only the global frame.
func NewScope() *Scope {
	return &Scope{frames: []map[string]Value{{}}}
}

// Push opens a new innermost frame.
func (s *Scope) Push() {
	s.frames = append(s.frames, map[string]Value{})
}

// Pop discards the innermost frame and every binding in it.
func (s *Scope) Pop() {
	if len(s.frames) > 1 {
		s.frames[len(s.frames)-1] = nil
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Depth returns the number of frames, including the global frame.
func (s *Scope) Depth() int { return len(s.frames) }

// Declare binds name in the innermost frame, replacing any binding of the
// same name in that frame and shadowing any in outer frames.
func (s *Scope) Declare(name string, v Value) {
	s.frames[len(s.frames)-1][name] = v
}

// Assign rebinds name in the innermost frame that declares it.
func (s *Scope) Assign(name string, v Value) error {
	if frame := s.find(name); frame != nil {
		frame[name] = v

		return nil
	}

	return undefined(name)
}

// Lookup returns the value of name from the innermost frame that declares it.
func (s *Scope) Lookup(name string) (Value, error) {
	if frame := s.find(name); frame != nil {
		return frame[name], nil
	}

	return Value{}, undefined(name)
}

func (s *Scope) find(name string) map[string]Value {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if _, ok := s.frames[i][name]; ok {
			return s.frames[i]
		}
	}

	return nil
}

// Names returns every visible variable name in sorted order.
func (s *Scope) Names() []string {
	seen := make(map[string]struct{})

	for _, frame := range s.frames {
		for name := range frame {
			seen[name] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}

// Bindings returns a copy of the global frame.
func (s *Scope) Bindings() map[string]Value {
	return maps.Clone(s.frames[0])
}

func undefined(name string) *Error {
	return ErrUndefinedVariable.
		WithDetail(quote(name)).
		With(slog.String("name", name))
}
