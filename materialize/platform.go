// Package materialize implements the pipeline that turns a validated graph
// into a target-specific artifact: canonicalize, transform, verification
// gate, schedule, layout, resource fit, and code emission (§4.4).
package materialize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// describeValidationErrors turns the validator's field-error slice into a
// single readable message, the same tag-to-sentence switch the teacher's
// bindJSON helper uses for HTTP request validation, repointed here to
// platform/codegen config validation.
func describeValidationErrors(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s", field, fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// Endianness is the byte order a target ISA uses.
type Endianness int

const (
	LittleEndian Endianness = iota
	BigEndian
)

func (e Endianness) String() string {
	if e == BigEndian {
		return "big"
	}
	return "little"
}

// ISADescription describes the instruction-set-architecture-level facts
// layout and code emission consult.
type ISADescription struct {
	Name            string   `validate:"required"`
	WordSizeBits    int      `validate:"required,oneof=8 16 32 64"`
	Endianness      Endianness
	RegisterClasses []string
	CallingConvention string `validate:"required"`
	Extensions      []string
}

// Microarchitecture describes pipeline/memory-timing detail from
// `torc-targets/src/isa.rs`, richer than the distilled spec's one-line
// mention but directly consulted nowhere in this engine beyond being
// carried through to any collaborator that wants it for cycle-accurate
// estimation — the core's own resource fit uses only the ISA and
// environment fields.
type Microarchitecture struct {
	PipelineStages  int
	MemoryTimingNs  uint64 // rough single-access latency, used nowhere in core fit math yet
}

// RegionType discriminates bare-metal from a hosted environment.
type RegionType int

const (
	BareMetal RegionType = iota
	Hosted
)

// MemoryRegion is one named, based, sized span of addressable memory with
// access flags.
type MemoryRegion struct {
	Name        string `validate:"required"`
	BaseAddress uint64
	Size        uint64 `validate:"required,gt=0"`
	Readable    bool
	Writable    bool
	Executable  bool
}

// Environment describes the execution environment a platform provides.
type Environment struct {
	Type           RegionType
	Regions        []MemoryRegion
	TotalFlash     uint64 `validate:"required,gt=0"`
	TotalRAM       uint64 `validate:"required,gt=0"`
	StackCap       *uint64
	ClockHz        *uint64
}

// PlatformDescription is the consumed, never-written platform record §6
// names: the core reads it to drive layout and resource fit.
type PlatformDescription struct {
	Name string `validate:"required"`
	ISA  ISADescription   `validate:"required"`
	Uarch Microarchitecture
	Env  Environment      `validate:"required"`
}

// Validate runs struct-tag validation over p, surfacing every violation at
// once the way the teacher's config validation does.
func (p *PlatformDescription) Validate() error {
	if err := validate.Struct(p); err != nil {
		return describeValidationErrors(err)
	}
	return nil
}
