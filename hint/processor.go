package hint

import (
	"math/big"

	"github.com/zkhint-dev/zkhint/exec"
	"github.com/zkhint-dev/zkhint/vm"
)

// Processor is the two-phase hint pipeline. CompileHint runs once per
// distinct hint occurrence while a program is loaded and must not touch
// machine state; the caller caches the returned artifact by program
// location. ExecuteHint runs the artifact against live state every time
// execution reaches the hint, so it must tolerate re-invocation. An
// execute failure is terminal for the current step: hint side effects
// are not rolled back, so the machine must not retry.
type Processor interface {
	CompileHint(code string, tracking ApTracking, referenceIDs map[string]int, references map[int]HintReference) (any, error)

	ExecuteHint(m *vm.Machine, scopes *exec.Scopes, compiled any, constants map[string]*big.Int) error
}
