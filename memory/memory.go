package memory

import (
	"fmt"
	"math/big"

	"github.com/zkhint-dev/zkhint/relocatable"
)

// ValidationRule checks a freshly written cell. Rules are installed per
// segment by builtin runners; a failing rule rejects the write.
type ValidationRule func(m *Memory, addr relocatable.Relocatable) error

// Memory is the segment-backed cell store. Segments only grow, cells are
// write-once, and unset cells are ordinary (a hint may probe a cell that
// deterministic execution has not produced yet).
type Memory struct {
	segments [][]relocatable.Value
	rules    map[int]ValidationRule
}

func New() *Memory {
	return &Memory{
		rules: make(map[int]ValidationRule),
	}
}

// AddSegment allocates a new empty segment and returns its base address.
func (m *Memory) AddSegment() relocatable.Relocatable {
	m.segments = append(m.segments, nil)
	return relocatable.NewRelocatable(len(m.segments)-1, 0)
}

func (m *Memory) NumSegments() int {
	return len(m.segments)
}

// SegmentSize returns the highest written offset plus one.
func (m *Memory) SegmentSize(segment int) uint64 {
	if segment < 0 || segment >= len(m.segments) {
		return 0
	}
	return uint64(len(m.segments[segment]))
}

// AddValidationRule installs a rule for every future write to segment.
func (m *Memory) AddValidationRule(segment int, rule ValidationRule) {
	m.rules[segment] = rule
}

// Get returns the value at addr, or false if the cell is unset. An unset
// cell is not an error.
func (m *Memory) Get(addr relocatable.Relocatable) (relocatable.Value, bool) {
	if addr.SegmentIndex < 0 || addr.SegmentIndex >= len(m.segments) {
		return nil, false
	}
	seg := m.segments[addr.SegmentIndex]
	if addr.Offset >= uint64(len(seg)) {
		return nil, false
	}
	v := seg[addr.Offset]
	if v == nil {
		return nil, false
	}
	return v, true
}

// GetInt reads the cell at addr and requires it to hold an integer.
func (m *Memory) GetInt(addr relocatable.Relocatable) (*big.Int, error) {
	v, ok := m.Get(addr)
	if !ok {
		return nil, UnknownCellError{Addr: addr}
	}
	i, ok := v.(relocatable.Int)
	if !ok {
		return nil, ExpectedIntegerError{Addr: addr}
	}
	return i.Big(), nil
}

// GetAddr reads the cell at addr and requires it to hold an address.
func (m *Memory) GetAddr(addr relocatable.Relocatable) (relocatable.Relocatable, error) {
	v, ok := m.Get(addr)
	if !ok {
		return relocatable.Relocatable{}, UnknownCellError{Addr: addr}
	}
	a, ok := v.(relocatable.Addr)
	if !ok {
		return relocatable.Relocatable{}, ExpectedRelocatableError{Addr: addr}
	}
	return a.Relocatable, nil
}

// Insert writes value at addr. Rewriting a cell with the same value is a
// no-op; writing a different value is an inconsistency and fails.
func (m *Memory) Insert(addr relocatable.Relocatable, value relocatable.Value) error {
	if addr.SegmentIndex < 0 || addr.SegmentIndex >= len(m.segments) {
		return UnallocatedSegmentError{Addr: addr}
	}
	seg := m.segments[addr.SegmentIndex]
	oldLen := len(seg)
	for uint64(len(seg)) <= addr.Offset {
		seg = append(seg, nil)
	}
	if old := seg[addr.Offset]; old != nil {
		if !relocatable.Equal(old, value) {
			return InconsistentWriteError{Addr: addr, Old: old, New: value}
		}
		return nil
	}
	seg[addr.Offset] = value
	m.segments[addr.SegmentIndex] = seg
	if rule, ok := m.rules[addr.SegmentIndex]; ok {
		if err := rule(m, addr); err != nil {
			// A rejected write must not leave a trace: undo the cell
			// and any segment growth it caused.
			seg[addr.Offset] = nil
			m.segments[addr.SegmentIndex] = seg[:oldLen]
			return err
		}
	}
	return nil
}

type UnallocatedSegmentError struct {
	Addr relocatable.Relocatable
}

func (e UnallocatedSegmentError) Error() string {
	return fmt.Sprintf("address %s is outside any allocated segment", e.Addr)
}

type InconsistentWriteError struct {
	Addr     relocatable.Relocatable
	Old, New relocatable.Value
}

func (e InconsistentWriteError) Error() string {
	return fmt.Sprintf("cell %s already holds %s, refusing to write %s", e.Addr, e.Old, e.New)
}

type UnknownCellError struct {
	Addr relocatable.Relocatable
}

func (e UnknownCellError) Error() string {
	return fmt.Sprintf("cell %s has no value", e.Addr)
}

type ExpectedIntegerError struct {
	Addr relocatable.Relocatable
}

func (e ExpectedIntegerError) Error() string {
	return fmt.Sprintf("cell %s holds an address, expected an integer", e.Addr)
}

type ExpectedRelocatableError struct {
	Addr relocatable.Relocatable
}

func (e ExpectedRelocatableError) Error() string {
	return fmt.Sprintf("cell %s holds an integer, expected an address", e.Addr)
}

// ValidationError wraps a builtin rule rejection with the cell it hit.
type ValidationError struct {
	Addr relocatable.Relocatable
	Rule string
	Err  error
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation %q failed at %s: %v", e.Rule, e.Addr, e.Err)
}

func (e ValidationError) Unwrap() error {
	return e.Err
}
