package memory

import (
	"fmt"
	"io"
	"math/big"

	"github.com/shamaton/msgpack/v2"
	"github.com/zkhint-dev/zkhint/relocatable"
)

const (
	cellInt  = 1
	cellAddr = 2
)

type snapshotCell struct {
	Offset  uint64
	Kind    uint8
	Int     string
	Segment int
	Address uint64
}

type snapshot struct {
	Segments [][]snapshotCell
	Sizes    []uint64
}

// Serialize writes a msgpack snapshot of the memory contents. Unset
// cells are skipped; segment sizes are kept so empty tails survive a
// round trip.
func (m *Memory) Serialize(w io.Writer) error {
	snap := snapshot{
		Segments: make([][]snapshotCell, len(m.segments)),
		Sizes:    make([]uint64, len(m.segments)),
	}
	for i, seg := range m.segments {
		snap.Sizes[i] = uint64(len(seg))
		for off, v := range seg {
			if v == nil {
				continue
			}
			cell := snapshotCell{Offset: uint64(off)}
			switch val := v.(type) {
			case relocatable.Int:
				cell.Kind = cellInt
				cell.Int = val.Big().Text(10)
			case relocatable.Addr:
				cell.Kind = cellAddr
				cell.Segment = val.SegmentIndex
				cell.Address = val.Offset
			}
			snap.Segments[i] = append(snap.Segments[i], cell)
		}
	}
	return msgpack.MarshalWrite(w, snap)
}

// Deserialize replaces the memory contents with a snapshot written by
// Serialize. Validation rules are not reapplied.
func (m *Memory) Deserialize(r io.Reader) error {
	var snap snapshot
	if err := msgpack.UnmarshalRead(r, &snap); err != nil {
		return err
	}
	segments := make([][]relocatable.Value, len(snap.Segments))
	for i, cells := range snap.Segments {
		seg := make([]relocatable.Value, snap.Sizes[i])
		for _, cell := range cells {
			switch cell.Kind {
			case cellInt:
				n, ok := new(big.Int).SetString(cell.Int, 10)
				if !ok {
					return fmt.Errorf("bad integer %q in snapshot", cell.Int)
				}
				seg[cell.Offset] = relocatable.NewBigInt(n)
			case cellAddr:
				seg[cell.Offset] = relocatable.NewAddr(relocatable.NewRelocatable(cell.Segment, cell.Address))
			default:
				return fmt.Errorf("unknown cell kind %d in snapshot", cell.Kind)
			}
		}
		segments[i] = seg
	}
	m.segments = segments
	return nil
}
