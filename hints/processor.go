package hints

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/rs/zerolog/log"
	"go.starlark.net/syntax"

	"github.com/zkhint-dev/zkhint/exec"
	"github.com/zkhint-dev/zkhint/hint"
	"github.com/zkhint-dev/zkhint/vm"
)

// Processor implements hint.Processor for the canonical hint library.
// Hint bodies are matched verbatim against the registry; the body is
// also parsed so that only the identifiers it actually touches survive
// into the compiled artifact.
type Processor struct {
	registry map[string]Func
}

var _ hint.Processor = (*Processor)(nil)

func NewProcessor() *Processor {
	return &Processor{registry: registry()}
}

// Register adds or replaces a hint body. Embedders use this to extend
// the library with their own dialect.
func (p *Processor) Register(code string, fn Func) {
	p.registry[code] = fn
}

// CompiledHint is the opaque artifact produced by CompileHint. The
// machine only ever sees it behind an any.
type CompiledHint struct {
	Code string
	Ids  hint.Ids

	fn Func
}

// CompileHint is pure: it touches no machine state and the same inputs
// always produce an equivalent artifact. Callers invoke it once per
// hint occurrence and cache the result.
func (p *Processor) CompileHint(code string, tracking hint.ApTracking, referenceIDs map[string]int, references map[int]hint.HintReference) (any, error) {
	fn, ok := p.registry[code]
	if !ok {
		return nil, UnknownHintError{Code: code}
	}

	data := make(map[string]hint.HintReference, len(referenceIDs))
	for fullName, id := range referenceIDs {
		ref, ok := references[id]
		if !ok {
			return nil, MissingReferenceError{Name: fullName, ID: id}
		}
		// the loader emits dotted paths; hints see the last segment
		short := fullName
		if i := strings.LastIndex(fullName, "."); i >= 0 {
			short = fullName[i+1:]
		}
		data[short] = ref
	}

	names, err := referencedIdents(code)
	if err != nil {
		return nil, err
	}
	pruned := make(map[string]hint.HintReference, len(names))
	for _, name := range names {
		ref, ok := data[name]
		if !ok {
			return nil, hint.MissingIdentifierError{Name: name}
		}
		pruned[name] = ref
	}

	return &CompiledHint{
		Code: code,
		Ids:  hint.Ids{Data: pruned, Tracking: tracking},
		fn:   fn,
	}, nil
}

// ExecuteHint runs a compiled artifact against live state. It may be
// re-entered any number of times for the same artifact; a failure is
// terminal for the current machine step.
func (p *Processor) ExecuteHint(m *vm.Machine, scopes *exec.Scopes, compiled any, constants map[string]*big.Int) error {
	artifact, ok := compiled.(*CompiledHint)
	if !ok {
		return BadArtifactError{Got: compiled}
	}
	log.Trace().Str("hint", artifact.Code).Int("scope_depth", scopes.Depth()).Msg("executing hint")
	return artifact.fn(&Context{
		Machine:   m,
		Scopes:    scopes,
		Ids:       artifact.Ids,
		Constants: constants,
	})
}

// referencedIdents parses the hint body and collects every name read or
// written through the ids namespace.
func referencedIdents(code string) ([]string, error) {
	opts := syntax.FileOptions{}
	file, err := opts.Parse("<hint>", code, 0)
	if err != nil {
		return nil, HintSyntaxError{Code: code, Err: err}
	}
	var names []string
	seen := make(map[string]bool)
	syntax.Walk(file, func(n syntax.Node) bool {
		dot, ok := n.(*syntax.DotExpr)
		if !ok {
			return true
		}
		ident, ok := dot.X.(*syntax.Ident)
		if !ok || ident.Name != "ids" {
			return true
		}
		if !seen[dot.Name.Name] {
			seen[dot.Name.Name] = true
			names = append(names, dot.Name.Name)
		}
		return true
	})
	return names, nil
}

type UnknownHintError struct {
	Code string
}

func (e UnknownHintError) Error() string {
	return fmt.Sprintf("unknown hint %q", e.Code)
}

type MissingReferenceError struct {
	Name string
	ID   int
}

func (e MissingReferenceError) Error() string {
	return fmt.Sprintf("identifier %q maps to reference id %d, which has no reference", e.Name, e.ID)
}

type HintSyntaxError struct {
	Code string
	Err  error
}

func (e HintSyntaxError) Error() string {
	return fmt.Sprintf("hint body does not parse: %v", e.Err)
}

func (e HintSyntaxError) Unwrap() error {
	return e.Err
}

type BadArtifactError struct {
	Got any
}

func (e BadArtifactError) Error() string {
	return fmt.Sprintf("compiled hint has unexpected type %T", e.Got)
}
