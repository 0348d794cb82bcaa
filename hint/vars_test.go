package hint

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zkhint-dev/zkhint/relocatable"
	"github.com/zkhint-dev/zkhint/vm"
)

func bigIntFrom(i int64) *big.Int {
	return big.NewInt(i)
}

func testMachine(apOff, fpOff uint64) *vm.Machine {
	m := vm.NewMachine()
	m.Ctx.AP = relocatable.NewRelocatable(1, apOff)
	m.Ctx.FP = relocatable.NewRelocatable(1, fpOff)
	return m
}

func simpleIds(names ...string) Ids {
	ids := Ids{Data: make(map[string]HintReference)}
	for i, name := range names {
		ids.Data[name] = NewSimpleReference(i)
	}
	return ids
}

func TestIdsInt(t *testing.T) {
	m := testMachine(0, 1)
	ids := simpleIds("variable")
	// NewSimpleReference(0) resolves to fp+0 = (1,1)
	require.NoError(t, m.Memory.Insert(relocatable.NewRelocatable(1, 1), relocatable.NewInt(10)))

	n, err := ids.Int("variable", m)
	require.NoError(t, err)
	require.EqualValues(t, 10, n.Int64())
}

func TestIdsIntExpectedInteger(t *testing.T) {
	m := testMachine(0, 1)
	ids := simpleIds("variable")
	require.NoError(t, m.Memory.Insert(relocatable.NewRelocatable(1, 1), relocatable.NewAddr(relocatable.NewRelocatable(1, 0))))

	_, err := ids.Int("variable", m)
	require.Error(t, err)
}

func TestIdsMissingIdentifier(t *testing.T) {
	m := testMachine(0, 0)
	ids := simpleIds()
	_, err := ids.Addr("ghost", m)
	require.IsType(t, MissingIdentifierError{}, err)
}

func TestIdsUnresolvable(t *testing.T) {
	m := testMachine(0, 2)
	ids := Ids{Data: map[string]HintReference{
		"deep": NewSimpleReference(-20),
	}}
	_, err := ids.Addr("deep", m)
	require.IsType(t, UnresolvableReferenceError{}, err)
}

func TestIdsPointerPlain(t *testing.T) {
	m := testMachine(0, 4)
	ids := Ids{Data: map[string]HintReference{
		"ptr": NewReference(1, 0, false, false),
	}}
	addr, err := ids.Pointer("ptr", m)
	require.NoError(t, err)
	require.Equal(t, relocatable.NewRelocatable(1, 5), addr)
}

func TestIdsPointerDereferenced(t *testing.T) {
	m := testMachine(0, 0)
	ids := Ids{Data: map[string]HintReference{
		"ptr": NewSimpleReference(0),
	}}
	require.NoError(t, m.Memory.Insert(relocatable.NewRelocatable(1, 0), relocatable.NewAddr(relocatable.NewRelocatable(0, 3))))

	addr, err := ids.Pointer("ptr", m)
	require.NoError(t, err)
	require.Equal(t, relocatable.NewRelocatable(0, 3), addr)
}

func TestIdsPointerImmediate(t *testing.T) {
	m := testMachine(0, 0)
	ref := NewSimpleReference(0)
	ref.Immediate = bigIntFrom(2)
	ids := Ids{Data: map[string]HintReference{"field": ref}}
	require.NoError(t, m.Memory.Insert(relocatable.NewRelocatable(1, 0), relocatable.NewAddr(relocatable.NewRelocatable(0, 3))))

	addr, err := ids.Pointer("field", m)
	require.NoError(t, err)
	require.Equal(t, relocatable.NewRelocatable(0, 5), addr)
}

func TestIdsPointerNotAnAddress(t *testing.T) {
	m := testMachine(0, 0)
	ids := Ids{Data: map[string]HintReference{"ptr": NewSimpleReference(0)}}
	require.NoError(t, m.Memory.Insert(relocatable.NewRelocatable(1, 0), relocatable.NewInt(12)))

	_, err := ids.Pointer("ptr", m)
	require.Error(t, err)
}

func TestIdsInsert(t *testing.T) {
	m := testMachine(0, 0)
	ids := simpleIds("out")

	require.NoError(t, ids.Insert("out", relocatable.NewInt(33), m))
	n, err := m.Memory.GetInt(relocatable.NewRelocatable(1, 0))
	require.NoError(t, err)
	require.EqualValues(t, 33, n.Int64())

	// write-once across repeated executions
	require.NoError(t, ids.Insert("out", relocatable.NewInt(33), m))
	require.Error(t, ids.Insert("out", relocatable.NewInt(34), m))
}

func TestInsertIntoAP(t *testing.T) {
	m := testMachine(3, 0)
	require.NoError(t, InsertIntoAP(m, relocatable.NewAddr(relocatable.NewRelocatable(4, 0))))

	a, err := m.Memory.GetAddr(relocatable.NewRelocatable(1, 3))
	require.NoError(t, err)
	require.Equal(t, relocatable.NewRelocatable(4, 0), a)
}
