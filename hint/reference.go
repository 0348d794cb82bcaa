package hint

import "math/big"

// Register names the machine register a reference is anchored to.
// RegisterNone marks degenerate references that resolve to nothing.
type Register uint8

const (
	RegisterNone Register = iota
	RegisterAP
	RegisterFP
)

func (r Register) String() string {
	switch r {
	case RegisterAP:
		return "ap"
	case RegisterFP:
		return "fp"
	default:
		return "none"
	}
}

// ApTracking records which allocation-pointer revision a reference was
// captured under. Two trackings are only comparable within one group.
type ApTracking struct {
	Group  int
	Offset int
}

// HintReference is the compiler-emitted descriptor of one program
// variable at one hint call site. References are immutable once built.
type HintReference struct {
	Register         Register
	Offset1          int
	Offset2          int
	Dereference      bool
	InnerDereference bool
	ApTrackingData   *ApTracking
	Immediate        *big.Int
	// ValueType is the source-language type tag. Advisory only; it
	// plays no part in address computation.
	ValueType string
}

// NewSimpleReference builds the common fp-relative dereferenced form.
func NewSimpleReference(offset1 int) HintReference {
	return HintReference{
		Register:    RegisterFP,
		Offset1:     offset1,
		Dereference: true,
	}
}

func NewReference(offset1, offset2 int, innerDereference, dereference bool) HintReference {
	return HintReference{
		Register:         RegisterFP,
		Offset1:          offset1,
		Offset2:          offset2,
		InnerDereference: innerDereference,
		Dereference:      dereference,
	}
}
