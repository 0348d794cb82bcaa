package runner

import (
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/zkhint-dev/zkhint/hint"
)

// Spec describes one hint session: how to set up the machine and which
// hints to run against it, in order.
type Spec struct {
	Session   SessionDetails    `toml:"session"`
	Constants map[string]string `toml:"constants,omitempty"`
	Memory    []CellSpec        `toml:"memory,omitempty"`
	Steps     []StepSpec        `toml:"step"`
}

type SessionDetails struct {
	AP            uint64   `toml:"ap,omitempty"`
	FP            uint64   `toml:"fp,omitempty"`
	Builtins      []string `toml:"builtins,omitempty"`
	ExtraSegments int      `toml:"extra_segments,omitempty"`
}

// CellSpec seeds one memory cell before the session starts, standing in
// for values deterministic execution would have produced.
type CellSpec struct {
	Segment int          `toml:"segment"`
	Offset  uint64       `toml:"offset"`
	Int     string       `toml:"int,omitempty"`
	Address *AddressSpec `toml:"address,omitempty"`
}

type AddressSpec struct {
	Segment int    `toml:"segment"`
	Offset  uint64 `toml:"offset"`
}

// StepSpec is one hint occurrence. Repeat re-executes the same compiled
// artifact, advancing ap by APStep between iterations, which is how a
// counted loop like memcpy is driven from a session file.
type StepSpec struct {
	PC         uint64          `toml:"pc"`
	Code       string          `toml:"code"`
	Repeat     int             `toml:"repeat,omitempty"`
	AP         *uint64         `toml:"ap,omitempty"`
	FP         *uint64         `toml:"fp,omitempty"`
	APStep     uint64          `toml:"ap_step,omitempty"`
	ApTracking TrackingSpec    `toml:"ap_tracking,omitempty"`
	References []ReferenceSpec `toml:"reference,omitempty"`
}

type TrackingSpec struct {
	Group  int `toml:"group"`
	Offset int `toml:"offset"`
}

type ReferenceSpec struct {
	Name             string        `toml:"name"`
	Register         string        `toml:"register,omitempty"`
	Offset1          int           `toml:"offset1,omitempty"`
	Offset2          int           `toml:"offset2,omitempty"`
	Dereference      bool          `toml:"dereference,omitempty"`
	InnerDereference bool          `toml:"inner_dereference,omitempty"`
	ApTracking       *TrackingSpec `toml:"ap_tracking,omitempty"`
	Immediate        string        `toml:"immediate,omitempty"`
	Type             string        `toml:"type,omitempty"`
}

func parseSpec(f io.Reader) (*Spec, error) {
	var out Spec
	_, err := toml.NewDecoder(f).Decode(&out)
	return &out, err
}

func LoadSpecFromFile(path string) (*Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseSpec(f)
}

func (r ReferenceSpec) build() (hint.HintReference, error) {
	ref := hint.HintReference{
		Offset1:          r.Offset1,
		Offset2:          r.Offset2,
		Dereference:      r.Dereference,
		InnerDereference: r.InnerDereference,
		ValueType:        r.Type,
	}
	switch r.Register {
	case "ap":
		ref.Register = hint.RegisterAP
	case "fp":
		ref.Register = hint.RegisterFP
	case "":
		ref.Register = hint.RegisterNone
	default:
		return hint.HintReference{}, fmt.Errorf("reference %q: unknown register %q", r.Name, r.Register)
	}
	if r.ApTracking != nil {
		ref.ApTrackingData = &hint.ApTracking{Group: r.ApTracking.Group, Offset: r.ApTracking.Offset}
	}
	if r.Immediate != "" {
		imm, ok := new(big.Int).SetString(r.Immediate, 10)
		if !ok {
			return hint.HintReference{}, fmt.Errorf("reference %q: bad immediate %q", r.Name, r.Immediate)
		}
		ref.Immediate = imm
	}
	return ref, nil
}
