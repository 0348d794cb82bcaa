package hint

import (
	"fmt"
	"math/big"

	"github.com/zkhint-dev/zkhint/relocatable"
	"github.com/zkhint-dev/zkhint/vm"
)

// Ids is the per-call-site view of the hint's variables: the name to
// reference mapping pruned for this hint, plus the call site's own ap
// tracking. A compiled hint carries one of these.
type Ids struct {
	Data     map[string]HintReference
	Tracking ApTracking
}

func (ids Ids) reference(name string) (HintReference, error) {
	ref, ok := ids.Data[name]
	if !ok {
		return HintReference{}, MissingIdentifierError{Name: name}
	}
	return ref, nil
}

// Addr resolves name to its concrete cell address.
func (ids Ids) Addr(name string, m *vm.Machine) (relocatable.Relocatable, error) {
	ref, err := ids.reference(name)
	if err != nil {
		return relocatable.Relocatable{}, err
	}
	tracking := ids.Tracking
	addr, ok, err := ComputeAddr(&ref, m.Ctx, m.Memory, &tracking)
	if err != nil {
		return relocatable.Relocatable{}, err
	}
	if !ok {
		return relocatable.Relocatable{}, UnresolvableReferenceError{Name: name}
	}
	return addr, nil
}

// Pointer resolves name to the address it points at: for dereferenced
// references the address value stored in the cell (shifted by the
// immediate when one is present), otherwise the cell address itself.
func (ids Ids) Pointer(name string, m *vm.Machine) (relocatable.Relocatable, error) {
	addr, err := ids.Addr(name, m)
	if err != nil {
		return relocatable.Relocatable{}, err
	}
	ref, err := ids.reference(name)
	if err != nil {
		return relocatable.Relocatable{}, err
	}
	if !ref.Dereference {
		return addr, nil
	}
	target, err := m.Memory.GetAddr(addr)
	if err != nil {
		return relocatable.Relocatable{}, err
	}
	if ref.Immediate != nil {
		shift, err := offsetFromBig(ref.Immediate)
		if err != nil {
			return relocatable.Relocatable{}, err
		}
		target.Offset += shift
	}
	return target, nil
}

// Int resolves name and reads the integer stored at its cell.
func (ids Ids) Int(name string, m *vm.Machine) (*big.Int, error) {
	addr, err := ids.Addr(name, m)
	if err != nil {
		return nil, err
	}
	return m.Memory.GetInt(addr)
}

// Insert resolves name and writes value into its cell, subject to the
// memory's write-once rule.
func (ids Ids) Insert(name string, value relocatable.Value, m *vm.Machine) error {
	addr, err := ids.Addr(name, m)
	if err != nil {
		return err
	}
	return m.Memory.Insert(addr, value)
}

// InsertIntoAP writes value at the current allocation pointer.
func InsertIntoAP(m *vm.Machine, value relocatable.Value) error {
	return m.Memory.Insert(m.Ctx.AP, value)
}

// MissingIdentifierError reports a name absent from the hint's
// reference mappings.
type MissingIdentifierError struct {
	Name string
}

func (e MissingIdentifierError) Error() string {
	return fmt.Sprintf("no reference for identifier %q", e.Name)
}

// UnresolvableReferenceError surfaces a not-computable resolution to a
// caller with no tolerance for absence.
type UnresolvableReferenceError struct {
	Name string
}

func (e UnresolvableReferenceError) Error() string {
	return fmt.Sprintf("reference for %q is not computable from the current state", e.Name)
}
