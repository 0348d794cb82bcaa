package relocatable

import (
	"fmt"
	"math/big"
)

// Value is what a memory cell can hold: either an arbitrary-precision
// integer or a segment-relative address. Nothing coerces between the two;
// callers assert the kind they need.
type Value interface {
	isValue()
	String() string
}

type Int struct {
	val *big.Int
}

func (Int) isValue() {}

func NewInt(i int64) Int {
	return Int{val: big.NewInt(i)}
}

func NewBigInt(v *big.Int) Int {
	return Int{val: new(big.Int).Set(v)}
}

func (i Int) Big() *big.Int {
	return i.val
}

func (i Int) String() string {
	return i.val.String()
}

type Addr struct {
	Relocatable
}

func (Addr) isValue() {}

func NewAddr(r Relocatable) Addr {
	return Addr{Relocatable: r}
}

func IsInt(v Value) bool {
	_, ok := v.(Int)
	return ok
}

func IsAddr(v Value) bool {
	_, ok := v.(Addr)
	return ok
}

func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Int:
		bv, ok := b.(Int)
		return ok && av.val.Cmp(bv.val) == 0
	case Addr:
		bv, ok := b.(Addr)
		return ok && av.Relocatable == bv.Relocatable
	}
	return false
}

// Add follows the address arithmetic rules: Int+Int is an Int, Addr+Int
// (either order) shifts the address offset, Addr+Addr is an error.
func Add(a, b Value) (Value, error) {
	switch av := a.(type) {
	case Int:
		switch bv := b.(type) {
		case Int:
			return Int{val: new(big.Int).Add(av.val, bv.val)}, nil
		case Addr:
			return addToAddr(bv, av.val)
		}
	case Addr:
		switch bv := b.(type) {
		case Int:
			return addToAddr(av, bv.val)
		case Addr:
			return nil, AddrAddError{A: av.Relocatable, B: bv.Relocatable}
		}
	}
	return nil, fmt.Errorf("unknown value kinds %T and %T", a, b)
}

// Sub follows the subtraction rules: Int-Int is an Int, Addr-Int shifts
// the address, Addr-Addr within one segment is the offset delta as an
// Int, everything else is an error.
func Sub(a, b Value) (Value, error) {
	switch av := a.(type) {
	case Int:
		if bv, ok := b.(Int); ok {
			return Int{val: new(big.Int).Sub(av.val, bv.val)}, nil
		}
		return nil, ExpectedIntError{Got: b}
	case Addr:
		switch bv := b.(type) {
		case Int:
			return addToAddr(av, new(big.Int).Neg(bv.val))
		case Addr:
			delta, err := av.SubAddr(bv.Relocatable)
			if err != nil {
				return nil, err
			}
			return NewInt(delta), nil
		}
	}
	return nil, fmt.Errorf("unknown value kinds %T and %T", a, b)
}

func addToAddr(a Addr, delta *big.Int) (Value, error) {
	if !delta.IsInt64() {
		return nil, OffsetRangeError{Value: new(big.Int).Set(delta)}
	}
	r, err := a.AddOffset(delta.Int64())
	if err != nil {
		return nil, err
	}
	return NewAddr(r), nil
}

type AddrAddError struct {
	A, B Relocatable
}

func (e AddrAddError) Error() string {
	return fmt.Sprintf("cannot add two addresses %s and %s", e.A, e.B)
}

// ExpectedIntError reports a value of the wrong kind where an integer was
// required.
type ExpectedIntError struct {
	Got Value
}

func (e ExpectedIntError) Error() string {
	return fmt.Sprintf("expected an integer, got address %s", e.Got)
}

// ExpectedAddrError reports a value of the wrong kind where an address
// was required.
type ExpectedAddrError struct {
	Got Value
}

func (e ExpectedAddrError) Error() string {
	return fmt.Sprintf("expected an address, got integer %s", e.Got)
}

// OffsetRangeError reports an integer too large to act as an address
// offset shift.
type OffsetRangeError struct {
	Value *big.Int
}

func (e OffsetRangeError) Error() string {
	return fmt.Sprintf("integer %s out of range for an address offset", e.Value)
}
