package exec

import (
	"errors"
	"fmt"
	"math/big"
)

// Scopes is the hint-local variable stack. The root frame exists for the
// whole run and can never be popped; frames above it come and go with
// vm_enter_scope/vm_exit_scope hints.
type Scopes struct {
	Frames []Frame
}

// Frame holds one scope's bindings. Values are whatever the hint author
// stored; readers assert the type they expect.
type Frame struct {
	Entries map[string]any
}

func NewScopes() *Scopes {
	return &Scopes{Frames: []Frame{{Entries: make(map[string]any)}}}
}

func (s *Scopes) Depth() int {
	return len(s.Frames)
}

// Enter pushes a new scope with the given bindings. A nil map is fine.
func (s *Scopes) Enter(vars map[string]any) {
	if vars == nil {
		vars = make(map[string]any)
	}
	s.Frames = append(s.Frames, Frame{Entries: vars})
}

// Exit pops the current scope. Popping the root scope fails and leaves
// the stack untouched.
func (s *Scopes) Exit() error {
	if len(s.Frames) <= 1 {
		return ErrCannotExitMainScope
	}
	s.Frames = s.Frames[:len(s.Frames)-1]
	return nil
}

func (s *Scopes) current() Frame {
	return s.Frames[len(s.Frames)-1]
}

// Set binds name in the current scope, replacing any prior binding.
func (s *Scopes) Set(name string, value any) {
	s.current().Entries[name] = value
}

// Get looks name up in the current scope only.
func (s *Scopes) Get(name string) (any, error) {
	v, ok := s.current().Entries[name]
	if !ok {
		return nil, VariableNotInScopeError{Name: name}
	}
	return v, nil
}

// GetInt reads name from the current scope and requires a *big.Int.
func (s *Scopes) GetInt(name string) (*big.Int, error) {
	v, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	n, ok := v.(*big.Int)
	if !ok {
		return nil, VariableWrongTypeError{Name: name, Got: v}
	}
	return n, nil
}

var ErrCannotExitMainScope = errors.New("cannot exit the main scope")

type VariableNotInScopeError struct {
	Name string
}

func (e VariableNotInScopeError) Error() string {
	return fmt.Sprintf("variable %q not in current scope", e.Name)
}

type VariableWrongTypeError struct {
	Name string
	Got  any
}

func (e VariableWrongTypeError) Error() string {
	return fmt.Sprintf("scope variable %q has type %T, not the requested one", e.Name, e.Got)
}
