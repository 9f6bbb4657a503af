package common

import (
	"errors"
	"fmt"
)

// The closed set of error kinds raised by the engine. Every error returned by an engine package
// wraps exactly one of these, so callers can classify failures with errors.Is.
var (
	// ErrInvalidHandle reports a handle absent from its registry, including an operation on a
	// target that has nothing bound.
	ErrInvalidHandle = errors.New("oxy-gl: invalid handle")

	// ErrDuplicateBinding reports two attributes claiming one location, or two attachments
	// claiming one framebuffer attachment point.
	ErrDuplicateBinding = errors.New("oxy-gl: duplicate binding")

	// ErrUnsupported reports a feature the native context cannot provide.
	ErrUnsupported = errors.New("oxy-gl: unsupported configuration")

	// ErrCompile reports a shader stage that failed to compile.
	ErrCompile = errors.New("oxy-gl: shader compile failed")

	// ErrLink reports a program that failed to link.
	ErrLink = errors.New("oxy-gl: program link failed")

	// ErrStackUnderflow reports a pop on an empty state stack.
	ErrStackUnderflow = errors.New("oxy-gl: pop on empty stack")

	// ErrArgumentShape reports a value count that does not match a uniform's reflected type.
	ErrArgumentShape = errors.New("oxy-gl: wrong argument shape")

	// ErrIncomplete reports a framebuffer that failed the native completeness check.
	ErrIncomplete = errors.New("oxy-gl: incomplete framebuffer")
)

// InvalidHandleError carries the resource kind and handle that failed a registry lookup.
type InvalidHandleError struct {
	Kind   string
	Handle int
}

func (e *InvalidHandleError) Error() string {
	return fmt.Sprintf("oxy-gl: invalid %s id %d", e.Kind, e.Handle)
}

func (e *InvalidHandleError) Unwrap() error { return ErrInvalidHandle }

// CompileError carries the failing shader stage and the native diagnostic text verbatim.
type CompileError struct {
	Stage string
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("oxy-gl: %s shader compile failed: %s", e.Stage, e.Log)
}

func (e *CompileError) Unwrap() error { return ErrCompile }

// LinkError carries the native program link diagnostic text verbatim.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("oxy-gl: program link failed: %s", e.Log)
}

func (e *LinkError) Unwrap() error { return ErrLink }

// IncompleteError carries the native framebuffer status returned by the completeness check.
type IncompleteError struct {
	Status uint32
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("oxy-gl: framebuffer incomplete (status 0x%04X)", e.Status)
}

func (e *IncompleteError) Unwrap() error { return ErrIncomplete }
