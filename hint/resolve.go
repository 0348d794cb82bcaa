package hint

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/zkhint-dev/zkhint/memory"
	"github.com/zkhint-dev/zkhint/relocatable"
	"github.com/zkhint-dev/zkhint/vm"
)

// ComputeAddr resolves a reference against the current registers. The
// boolean mirrors "not computable yet": false (with a nil error) means
// the address cannot be produced from the current state — an offset
// would underflow, or an inner-dereference cell is unset or holds an
// integer. Hard inconsistencies (missing or mismatched ap tracking)
// come back as errors instead.
func ComputeAddr(ref *HintReference, ctx vm.RunContext, mem *memory.Memory, hintTracking *ApTracking) (relocatable.Relocatable, bool, error) {
	var base relocatable.Relocatable
	switch ref.Register {
	case RegisterFP:
		base = ctx.FP
	case RegisterAP:
		corrected, ok, err := applyApTrackingCorrection(ctx.AP, ref.ApTrackingData, hintTracking)
		if err != nil || !ok {
			return relocatable.Relocatable{}, ok, err
		}
		base = corrected
	default:
		return relocatable.Relocatable{}, false, nil
	}

	baseOff := int64(base.Offset)
	if ref.Offset1 < 0 && baseOff+int64(ref.Offset1) < 0 {
		return relocatable.Relocatable{}, false, nil
	}

	if !ref.InnerDereference {
		final := baseOff + int64(ref.Offset1) + int64(ref.Offset2)
		if final < 0 {
			return relocatable.Relocatable{}, false, nil
		}
		return relocatable.NewRelocatable(base.SegmentIndex, uint64(final)), true, nil
	}

	intermediate := relocatable.NewRelocatable(base.SegmentIndex, uint64(baseOff+int64(ref.Offset1)))
	cell, ok := mem.Get(intermediate)
	if !ok {
		return relocatable.Relocatable{}, false, nil
	}
	deref, ok := cell.(relocatable.Addr)
	if !ok {
		return relocatable.Relocatable{}, false, nil
	}
	if ref.Immediate != nil {
		shift, err := offsetFromBig(ref.Immediate)
		if err != nil {
			return relocatable.Relocatable{}, false, err
		}
		return relocatable.NewRelocatable(deref.SegmentIndex, deref.Offset+shift), true, nil
	}
	final := int64(deref.Offset) + int64(ref.Offset2)
	if final < 0 {
		return relocatable.Relocatable{}, false, nil
	}
	return relocatable.NewRelocatable(deref.SegmentIndex, uint64(final)), true, nil
}

// applyApTrackingCorrection rewinds ap by however far it has advanced
// since the reference was captured. Both trackings must exist and share
// a group.
func applyApTrackingCorrection(ap relocatable.Relocatable, refTracking, hintTracking *ApTracking) (relocatable.Relocatable, bool, error) {
	if refTracking == nil || hintTracking == nil {
		return relocatable.Relocatable{}, false, ErrMissingApTracking
	}
	if refTracking.Group != hintTracking.Group {
		return relocatable.Relocatable{}, false, InvalidTrackingGroupError{
			RefGroup:  refTracking.Group,
			HintGroup: hintTracking.Group,
		}
	}
	diff := hintTracking.Offset - refTracking.Offset
	off := int64(ap.Offset) - int64(diff)
	if off < 0 {
		return relocatable.Relocatable{}, false, nil
	}
	return relocatable.NewRelocatable(ap.SegmentIndex, uint64(off)), true, nil
}

func offsetFromBig(n *big.Int) (uint64, error) {
	if !n.IsUint64() {
		return 0, ImmediateRangeError{Value: new(big.Int).Set(n)}
	}
	return n.Uint64(), nil
}

// ErrMissingApTracking fires when an ap-anchored reference is resolved
// without tracking data on either side.
var ErrMissingApTracking = errors.New("ap-anchored reference resolved without ap tracking data")

// InvalidTrackingGroupError signals a compiler/VM inconsistency: the
// reference and the call site disagree about the tracking group. Always
// fatal.
type InvalidTrackingGroupError struct {
	RefGroup  int
	HintGroup int
}

func (e InvalidTrackingGroupError) Error() string {
	return fmt.Sprintf("ap tracking groups differ: reference has %d, call site has %d", e.RefGroup, e.HintGroup)
}

type ImmediateRangeError struct {
	Value *big.Int
}

func (e ImmediateRangeError) Error() string {
	return fmt.Sprintf("immediate %s out of range for an address offset", e.Value)
}
