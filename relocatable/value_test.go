package relocatable

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddIntInt(t *testing.T) {
	v, err := Add(NewInt(3), NewInt(4))
	require.NoError(t, err)
	require.True(t, Equal(v, NewInt(7)))
}

func TestAddAddrInt(t *testing.T) {
	v, err := Add(NewAddr(NewRelocatable(2, 5)), NewInt(10))
	require.NoError(t, err)
	require.True(t, Equal(v, NewAddr(NewRelocatable(2, 15))))

	// shift works from either side
	v, err = Add(NewInt(10), NewAddr(NewRelocatable(2, 5)))
	require.NoError(t, err)
	require.True(t, Equal(v, NewAddr(NewRelocatable(2, 15))))
}

func TestAddAddrAddrFails(t *testing.T) {
	_, err := Add(NewAddr(NewRelocatable(0, 1)), NewAddr(NewRelocatable(0, 2)))
	require.Error(t, err)
	require.IsType(t, AddrAddError{}, err)
}

func TestAddNegativeUnderflow(t *testing.T) {
	_, err := Add(NewAddr(NewRelocatable(0, 3)), NewInt(-5))
	require.Error(t, err)
	require.IsType(t, OffsetUnderflowError{}, err)
}

func TestSubSameSegment(t *testing.T) {
	v, err := Sub(NewAddr(NewRelocatable(1, 9)), NewAddr(NewRelocatable(1, 4)))
	require.NoError(t, err)
	require.True(t, Equal(v, NewInt(5)))
}

func TestSubCrossSegmentFails(t *testing.T) {
	_, err := Sub(NewAddr(NewRelocatable(1, 9)), NewAddr(NewRelocatable(2, 4)))
	require.Error(t, err)
	require.IsType(t, DiffSegmentError{}, err)
}

func TestSubIntAddrFails(t *testing.T) {
	_, err := Sub(NewInt(9), NewAddr(NewRelocatable(0, 0)))
	require.Error(t, err)
	require.IsType(t, ExpectedIntError{}, err)
}

func TestHugeOffsetShift(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 80)
	_, err := Add(NewAddr(NewRelocatable(0, 0)), NewBigInt(huge))
	require.Error(t, err)
	require.IsType(t, OffsetRangeError{}, err)
}

func TestKindPredicates(t *testing.T) {
	require.True(t, IsInt(NewInt(1)))
	require.False(t, IsAddr(NewInt(1)))
	require.True(t, IsAddr(NewAddr(NewRelocatable(0, 0))))
	require.False(t, IsInt(NewAddr(NewRelocatable(0, 0))))
}

func TestEqual(t *testing.T) {
	require.True(t, Equal(NewInt(42), NewBigInt(big.NewInt(42))))
	require.False(t, Equal(NewInt(42), NewInt(43)))
	require.False(t, Equal(NewInt(42), NewAddr(NewRelocatable(0, 42))))
	require.True(t, Equal(NewAddr(NewRelocatable(3, 7)), NewAddr(NewRelocatable(3, 7))))
}
