package vm

import "errors"

// Error kinds. These are compared with errors.Is; the CPU and VM wrap them
// with fmt.Errorf("%w: ...") to attach the address, stack depth or other
// context a diagnostic line needs.
var (
	ErrInvalidOperand   = errors.New("invalid operand")
	ErrExpectedRegister = errors.New("expected register operand")
	ErrInvalidAddress   = errors.New("invalid address")
	ErrEmptyStack       = errors.New("stack is empty")
	ErrUnknownOpcode    = errors.New("unknown opcode")
	ErrDivisionByZero   = errors.New("division by zero")
	ErrIO               = errors.New("input/output error")

	// ErrNotRunning is returned by Step when the CPU is not in the Running
	// state, and by Start when it is not NotStarted.
	ErrNotRunning = errors.New("cpu is not in a runnable state")
)
