package relocatable

import "fmt"

// Relocatable is a segment-relative memory address. Addresses stay
// segment-relative until the whole run is relocated, so the pair is the
// only identity a cell has during execution.
type Relocatable struct {
	SegmentIndex int
	Offset       uint64
}

func NewRelocatable(segment int, offset uint64) Relocatable {
	return Relocatable{SegmentIndex: segment, Offset: offset}
}

func (r Relocatable) String() string {
	return fmt.Sprintf("%d:%d", r.SegmentIndex, r.Offset)
}

// AddOffset shifts the address by delta, which may be negative.
func (r Relocatable) AddOffset(delta int64) (Relocatable, error) {
	off := int64(r.Offset) + delta
	if off < 0 {
		return Relocatable{}, OffsetUnderflowError{Base: r, Delta: delta}
	}
	return Relocatable{SegmentIndex: r.SegmentIndex, Offset: uint64(off)}, nil
}

// SubAddr returns the offset delta between two addresses in the same
// segment. Cross-segment deltas are undefined.
func (r Relocatable) SubAddr(other Relocatable) (int64, error) {
	if r.SegmentIndex != other.SegmentIndex {
		return 0, DiffSegmentError{A: r, B: other}
	}
	return int64(r.Offset) - int64(other.Offset), nil
}

type OffsetUnderflowError struct {
	Base  Relocatable
	Delta int64
}

func (e OffsetUnderflowError) Error() string {
	return fmt.Sprintf("offset underflow: %s%+d", e.Base, e.Delta)
}

type DiffSegmentError struct {
	A, B Relocatable
}

func (e DiffSegmentError) Error() string {
	return fmt.Sprintf("addresses %s and %s are in different segments", e.A, e.B)
}
