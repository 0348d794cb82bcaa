package runner

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zkhint-dev/zkhint/memory"
	"github.com/zkhint-dev/zkhint/relocatable"
	"github.com/zkhint-dev/zkhint/vm"
)

const memcpySession = `
[session]
ap = 0
fp = 0
builtins = ["range_check"]

[constants]
LIMIT = "340282366920938463463374607431768211456"

[[memory]]
segment = 1
offset = 0
int = "3"

[[step]]
pc = 0
code = "vm_enter_scope({'n': ids.len})"

  [[step.reference]]
  name = "__main__.memcpy.len"
  register = "fp"
  dereference = true

[[step]]
pc = 1
code = """n -= 1
ids.continue_copying = 1 if n > 0 else 0"""
repeat = 3
ap = 1
ap_step = 1

  [step.ap_tracking]
  group = 2

  [[step.reference]]
  name = "continue_copying"
  register = "ap"

    [step.reference.ap_tracking]
    group = 2

[[step]]
pc = 2
code = "vm_exit_scope()"

[[step]]
pc = 3
code = "memory[ap] = segments.add()"
ap = 5
`

func TestSessionEndToEnd(t *testing.T) {
	spec, err := parseSpec(strings.NewReader(memcpySession))
	require.NoError(t, err)

	session, err := spec.BuildSession()
	require.NoError(t, err)
	require.NotEmpty(t, session.ID)
	require.NoError(t, session.Run())

	mem := session.Machine.Memory
	// three loop iterations wrote 1, 1, 0 above fp
	for i, want := range []int64{1, 1, 0} {
		n, err := mem.GetInt(relocatable.NewRelocatable(1, uint64(1+i)))
		require.NoError(t, err)
		require.EqualValues(t, want, n.Int64())
	}

	// the scope opened by the first step was closed again
	require.Equal(t, 1, session.Scopes.Depth())

	// add_segment allocated past program, execution and range_check
	base, err := mem.GetAddr(relocatable.NewRelocatable(1, 5))
	require.NoError(t, err)
	require.Equal(t, relocatable.NewRelocatable(3, 0), base)

	// constants made it into the pool
	require.Contains(t, session.Constants, "LIMIT")
}

func TestLoadSpecFromFile(t *testing.T) {
	spec, err := LoadSpecFromFile("testdata/memcpy.toml")
	require.NoError(t, err)
	require.Len(t, spec.Steps, 3)

	session, err := spec.BuildSession()
	require.NoError(t, err)
	require.NoError(t, session.Run())

	n, err := session.Machine.Memory.GetInt(relocatable.NewRelocatable(1, 3))
	require.NoError(t, err)
	require.EqualValues(t, 0, n.Int64())
}

func TestSessionCompileCache(t *testing.T) {
	spec, err := parseSpec(strings.NewReader(memcpySession))
	require.NoError(t, err)
	session, err := spec.BuildSession()
	require.NoError(t, err)
	require.NoError(t, session.Run())

	// one artifact per distinct (pc, code) pair
	require.Equal(t, 4, session.Cache.Stats().Size)
}

func TestSessionMemoryDump(t *testing.T) {
	spec, err := parseSpec(strings.NewReader(memcpySession))
	require.NoError(t, err)
	session, err := spec.BuildSession()
	require.NoError(t, err)
	require.NoError(t, session.Run())

	var buf bytes.Buffer
	require.NoError(t, session.DumpMemory(&buf))

	restored := memory.New()
	require.NoError(t, restored.Deserialize(&buf))
	require.Equal(t, session.Machine.Memory.NumSegments(), restored.NumSegments())
}

func TestSessionUnknownBuiltin(t *testing.T) {
	spec := &Spec{Session: SessionDetails{Builtins: []string{"pedersen"}}}
	_, err := spec.BuildSession()
	require.Error(t, err)
	require.IsType(t, vm.NoSuchBuiltinError{}, err)
}

func TestSessionBadConstant(t *testing.T) {
	spec := &Spec{Constants: map[string]string{"X": "not-a-number"}}
	_, err := spec.BuildSession()
	require.Error(t, err)
}

func TestSessionUnknownRegister(t *testing.T) {
	spec := &Spec{Steps: []StepSpec{{
		Code:       "vm_enter_scope()",
		References: []ReferenceSpec{{Name: "x", Register: "sp"}},
	}}}
	session, err := spec.BuildSession()
	require.NoError(t, err)
	err = session.Run()
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown register")
}

func TestSessionStopsOnFirstError(t *testing.T) {
	text := `
[[step]]
pc = 0
code = "vm_exit_scope()"

[[step]]
pc = 1
code = "vm_enter_scope()"
`
	spec, err := parseSpec(strings.NewReader(text))
	require.NoError(t, err)
	session, err := spec.BuildSession()
	require.NoError(t, err)

	err = session.Run()
	require.Error(t, err)
	// the second step never ran
	require.Equal(t, 1, session.Scopes.Depth())
}
