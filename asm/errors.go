package asm

import "fmt"

// ErrKind names an assembler failure kind, reported alongside the offending
// line number or label rather than as a distinct Go error type per kind.
type ErrKind int

const (
	ErrSyntax ErrKind = iota
	ErrDuplicateLabel
	ErrUnresolvedLabel
)

func (k ErrKind) String() string {
	switch k {
	case ErrSyntax:
		return "SyntaxError"
	case ErrDuplicateLabel:
		return "DuplicateLabel"
	case ErrUnresolvedLabel:
		return "UnresolvedLabel"
	default:
		return "Unknown"
	}
}

// Error is the assembler's single error type; Kind tells the caller which
// of the three failure modes occurred, with Line or Label giving context.
type Error struct {
	Kind  ErrKind
	Line  int
	Label string
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrSyntax:
		return fmt.Sprintf("%s: line %d", e.Kind, e.Line)
	case ErrDuplicateLabel:
		return fmt.Sprintf("%s: %q", e.Kind, e.Label)
	case ErrUnresolvedLabel:
		return fmt.Sprintf("%s: %q", e.Kind, e.Label)
	default:
		return e.Kind.String()
	}
}
