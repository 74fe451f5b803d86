package vm

import (
	"context"
	"log/slog"

	"synacorvm/internal/vmlog"
)

// VM composes a CPU and a Bus: the thin object the host constructs, loads a
// program into, and runs to completion.
type VM struct {
	CPU *CPU
	Bus *Bus
	IO  IO

	debug bool
	log   *slog.Logger
}

// Option configures a VM at construction time.
type Option func(*VM)

// WithIO attaches the host I/O collaborator used by in/out. Without it,
// in/out behave as if stdin is at EOF and stdout discards.
func WithIO(io IO) Option {
	return func(v *VM) { v.IO = io }
}

// WithLogger attaches a logger for step traces and failure postmortems.
func WithLogger(log *slog.Logger) Option {
	return func(v *VM) { v.log = log }
}

// WithDebug enables a debug record when an image is loaded. It does not gate
// per-instruction traces: the CPU logs every step at Debug level, and those
// records appear whenever the attached logger admits that level.
func WithDebug(debug bool) Option {
	return func(v *VM) { v.debug = debug }
}

// New constructs a VM with zeroed memory, an empty stack, and a CPU in
// state NotStarted.
func New(opts ...Option) *VM {
	v := &VM{
		Bus: NewBus(),
		IO:  discardIO{},
		log: vmlog.Discard,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.CPU = NewCPU(v.log)
	return v
}

// LoadMemory writes the image to memory beginning at address 0; extra
// addresses remain zero. Requires the CPU still be NotStarted.
func (v *VM) LoadMemory(words []Word) error {
	if v.CPU.State() != NotStarted {
		return ErrNotRunning
	}
	if err := v.Bus.LoadImage(words); err != nil {
		return err
	}
	if v.debug {
		v.log.Debug("loaded image", "words", len(words))
	}
	return nil
}

// Run starts the CPU and steps it until it leaves the Running state,
// returning the final state. The VM is single-use: once Halted or Error,
// construct a new VM to run again. ctx is threaded through to in's blocking
// read; cancelling it (e.g. on SIGINT) ends the run with a step error rather
// than leaving the CPU running.
func (v *VM) Run(ctx context.Context) (State, error) {
	if err := v.CPU.Start(); err != nil {
		return v.CPU.State(), err
	}
	for v.CPU.IsRunning() {
		if err := v.CPU.Step(ctx, v.Bus, v.IO); err != nil {
			// Step already recorded the error on the CPU; Run reports the
			// final state rather than propagating mid-run step errors,
			// since the caller inspects State()/Err() after the loop.
			break
		}
	}
	if flusher, ok := v.IO.(interface{ Flush() error }); ok {
		if err := flusher.Flush(); err != nil {
			v.log.Error("output flush failed", "err", err)
		}
	}
	return v.CPU.State(), v.CPU.Err()
}
