package vm

import (
	"github.com/zkhint-dev/zkhint/memory"
	"github.com/zkhint-dev/zkhint/relocatable"
)

// RunContext holds the two machine registers a hint can see. The frame
// pointer is stable within a call, the allocation pointer advances as
// temporaries are written.
type RunContext struct {
	AP relocatable.Relocatable
	FP relocatable.Relocatable
}

// Machine bundles everything a hint body may touch. It is passed
// explicitly into every hint invocation; there is no ambient state.
type Machine struct {
	Memory   *memory.Memory
	Ctx      RunContext
	Builtins []BuiltinRunner
}

// NewMachine builds a machine with the conventional program and
// execution segments already allocated, ap and fp pointing at the base
// of the execution segment.
func NewMachine() *Machine {
	m := &Machine{Memory: memory.New()}
	m.Memory.AddSegment() // program
	execBase := m.Memory.AddSegment()
	m.Ctx.AP = execBase
	m.Ctx.FP = execBase
	return m
}

// AttachBuiltin gives the runner its own segment, installs its
// validation rule, and appends it to the builtin list.
func (m *Machine) AttachBuiltin(b BuiltinRunner) {
	b.Attach(m.Memory)
	m.Builtins = append(m.Builtins, b)
}
