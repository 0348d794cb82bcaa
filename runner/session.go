package runner

import (
	"fmt"
	"io"
	"math/big"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/zkhint-dev/zkhint/exec"
	"github.com/zkhint-dev/zkhint/hint"
	"github.com/zkhint-dev/zkhint/hints"
	"github.com/zkhint-dev/zkhint/relocatable"
	"github.com/zkhint-dev/zkhint/vm"
)

// Session is one configured run of the hint pipeline: a machine, a
// scope stack, a processor, and the compile cache shared by all steps.
type Session struct {
	ID        string
	Machine   *vm.Machine
	Scopes    *exec.Scopes
	Processor hint.Processor
	Cache     *hints.LRUCache
	Constants map[string]*big.Int

	spec *Spec
}

// BuildSession sets up the machine described by the spec: conventional
// segments, builtin runners with their validation rules, seeded memory
// cells, and the parsed constant pool.
func (s *Spec) BuildSession() (*Session, error) {
	m := vm.NewMachine()
	m.Ctx.AP = relocatable.NewRelocatable(1, s.Session.AP)
	m.Ctx.FP = relocatable.NewRelocatable(1, s.Session.FP)

	for _, name := range s.Session.Builtins {
		switch name {
		case vm.RangeCheckName:
			m.AttachBuiltin(vm.NewRangeCheckRunner())
		default:
			return nil, vm.NoSuchBuiltinError{Name: name}
		}
	}
	for i := 0; i < s.Session.ExtraSegments; i++ {
		m.Memory.AddSegment()
	}

	for _, cell := range s.Memory {
		addr := relocatable.NewRelocatable(cell.Segment, cell.Offset)
		value, err := cell.value()
		if err != nil {
			return nil, err
		}
		if err := m.Memory.Insert(addr, value); err != nil {
			return nil, err
		}
	}

	constants := make(map[string]*big.Int, len(s.Constants))
	for name, text := range s.Constants {
		n, ok := new(big.Int).SetString(text, 10)
		if !ok {
			return nil, fmt.Errorf("constant %q: bad integer %q", name, text)
		}
		constants[name] = n
	}

	return &Session{
		ID:        uuid.NewString(),
		Machine:   m,
		Scopes:    exec.NewScopes(),
		Processor: hints.NewProcessor(),
		Cache:     hints.NewLRUCache(0),
		Constants: constants,
		spec:      s,
	}, nil
}

func (c CellSpec) value() (relocatable.Value, error) {
	if c.Address != nil {
		return relocatable.NewAddr(relocatable.NewRelocatable(c.Address.Segment, c.Address.Offset)), nil
	}
	n, ok := new(big.Int).SetString(c.Int, 10)
	if !ok {
		return nil, fmt.Errorf("memory cell %d:%d: bad integer %q", c.Segment, c.Offset, c.Int)
	}
	return relocatable.NewBigInt(n), nil
}

// Run executes every step in order. The first failure aborts the
// session; hint side effects are not rolled back.
func (s *Session) Run() error {
	log.Debug().Str("session", s.ID).Int("steps", len(s.spec.Steps)).Msg("starting hint session")
	for i, step := range s.spec.Steps {
		if err := s.runStep(&step); err != nil {
			return fmt.Errorf("step %d (pc %d): %w", i, step.PC, err)
		}
	}
	log.Debug().Str("session", s.ID).Msg("hint session finished")
	return nil
}

func (s *Session) runStep(step *StepSpec) error {
	if step.AP != nil {
		s.Machine.Ctx.AP = relocatable.NewRelocatable(1, *step.AP)
	}
	if step.FP != nil {
		s.Machine.Ctx.FP = relocatable.NewRelocatable(1, *step.FP)
	}

	compiled, err := s.compile(step)
	if err != nil {
		return err
	}

	repeat := step.Repeat
	if repeat <= 0 {
		repeat = 1
	}
	for i := 0; i < repeat; i++ {
		log.Trace().Str("session", s.ID).Uint64("pc", step.PC).Int("iteration", i).Str("ap", s.Machine.Ctx.AP.String()).Msg("executing hint step")
		if err := s.Processor.ExecuteHint(s.Machine, s.Scopes, compiled, s.Constants); err != nil {
			return err
		}
		if step.APStep != 0 {
			s.Machine.Ctx.AP.Offset += step.APStep
		}
	}
	return nil
}

// compile resolves a step to its compiled artifact, once per distinct
// program location and hint body.
func (s *Session) compile(step *StepSpec) (any, error) {
	key := hints.NewCacheKey(step.PC, step.Code)
	if compiled, ok := s.Cache.Get(key); ok {
		return compiled, nil
	}

	referenceIDs := make(map[string]int, len(step.References))
	references := make(map[int]hint.HintReference, len(step.References))
	for i, refSpec := range step.References {
		ref, err := refSpec.build()
		if err != nil {
			return nil, err
		}
		referenceIDs[refSpec.Name] = i
		references[i] = ref
	}

	tracking := hint.ApTracking{Group: step.ApTracking.Group, Offset: step.ApTracking.Offset}
	compiled, err := s.Processor.CompileHint(step.Code, tracking, referenceIDs, references)
	if err != nil {
		return nil, err
	}
	s.Cache.Add(key, compiled)
	return compiled, nil
}

// DumpMemory writes a msgpack snapshot of the machine's memory.
func (s *Session) DumpMemory(w io.Writer) error {
	return s.Machine.Memory.Serialize(w)
}
