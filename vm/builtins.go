package vm

import (
	"fmt"
	"math/big"

	"github.com/zkhint-dev/zkhint/memory"
	"github.com/zkhint-dev/zkhint/relocatable"
)

// BuiltinRunner is a pluggable capability referenced by name. A runner
// owns one memory segment and may validate every cell written into it.
type BuiltinRunner interface {
	Name() string
	Base() relocatable.Relocatable
	Attach(m *memory.Memory)
}

// FindBuiltin returns the first runner with the given name. The list is
// ordered; ties resolve to the earliest registration.
func FindBuiltin(name string, builtins []BuiltinRunner) (BuiltinRunner, error) {
	for _, b := range builtins {
		if b.Name() == name {
			return b, nil
		}
	}
	return nil, NoSuchBuiltinError{Name: name}
}

// FindRangeCheck is the concrete-kind accessor for the range-check
// capability.
func FindRangeCheck(builtins []BuiltinRunner) (*RangeCheckRunner, error) {
	b, err := FindBuiltin(RangeCheckName, builtins)
	if err != nil {
		return nil, err
	}
	rc, ok := b.(*RangeCheckRunner)
	if !ok {
		return nil, NoSuchBuiltinError{Name: RangeCheckName}
	}
	return rc, nil
}

const RangeCheckName = "range_check"

// rangeCheckBits bounds every validated cell to [0, 2^128).
const rangeCheckBits = 128

// RangeCheckRunner validates that cells written to its segment are
// integers inside [0, Bound).
type RangeCheckRunner struct {
	base  relocatable.Relocatable
	Bound *big.Int
}

func NewRangeCheckRunner() *RangeCheckRunner {
	return &RangeCheckRunner{
		Bound: new(big.Int).Lsh(big.NewInt(1), rangeCheckBits),
	}
}

func (r *RangeCheckRunner) Name() string {
	return RangeCheckName
}

func (r *RangeCheckRunner) Base() relocatable.Relocatable {
	return r.base
}

func (r *RangeCheckRunner) Attach(m *memory.Memory) {
	r.base = m.AddSegment()
	m.AddValidationRule(r.base.SegmentIndex, func(mem *memory.Memory, addr relocatable.Relocatable) error {
		n, err := mem.GetInt(addr)
		if err != nil {
			return memory.ValidationError{Addr: addr, Rule: RangeCheckName, Err: err}
		}
		if err := r.CheckRange(n); err != nil {
			return memory.ValidationError{Addr: addr, Rule: RangeCheckName, Err: err}
		}
		return nil
	})
}

// CheckRange reports whether n lies inside [0, Bound).
func (r *RangeCheckRunner) CheckRange(n *big.Int) error {
	if n.Sign() < 0 || n.Cmp(r.Bound) >= 0 {
		return OutOfBoundsError{Value: new(big.Int).Set(n), Bound: r.Bound}
	}
	return nil
}

type NoSuchBuiltinError struct {
	Name string
}

func (e NoSuchBuiltinError) Error() string {
	return fmt.Sprintf("no builtin named %q is active", e.Name)
}

type OutOfBoundsError struct {
	Value *big.Int
	Bound *big.Int
}

func (e OutOfBoundsError) Error() string {
	return fmt.Sprintf("value %s outside range [0, %s)", e.Value, e.Bound)
}
