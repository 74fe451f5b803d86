// Command synacorvm runs and assembles programs for the 16-bit
// word-addressed Synacor-style architecture.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"synacorvm/asm"
	"synacorvm/host"
	"synacorvm/internal/disasm"
	"synacorvm/internal/vmlog"
	"synacorvm/vm"
)

var (
	runPath        = flag.String("run", "", "load and execute a binary image")
	assemblePath   = flag.String("assemble", "", "assemble a source file")
	disassemble    = flag.String("disassemble", "", "disassemble a binary image (reserved, unimplemented)")
	debugger       = flag.Bool("debugger", false, "enable debug tracing (with --run)")
	outPath        = flag.String("out", "", "output path (default: source path with .bin extension, for --assemble)")
	help           = flag.Bool("help", false, "print usage")
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: synacorvm --run <binary> [--debugger] | --assemble <source> [--out <path>] | --disassemble <binary> | --help")
	flag.PrintDefaults()
}

func main() {
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}

	debug := *debugger || os.Getenv("GVM_DEBUG") != ""
	logger := vmlog.New(os.Stderr, debug)

	var err error
	switch {
	case *runPath != "":
		err = runBinary(*runPath, debug, logger)
	case *assemblePath != "":
		err = assembleSource(*assemblePath, *outPath)
	case *disassemble != "":
		err = disassembleBinary(*disassemble)
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runBinary(path string, debug bool, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("synacorvm: %w", err)
	}
	words := asm.BytesToWords(data)

	console, err := host.NewConsole(os.Stdin, os.Stdout)
	if err != nil {
		return fmt.Errorf("synacorvm: %w", err)
	}
	defer console.Close()

	// SIGINT unblocks a pending in and lets the deferred Close restore the
	// terminal's prior state before the process exits, instead of leaving
	// a raw-mode terminal behind.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	machine := vm.New(vm.WithIO(console), vm.WithLogger(logger), vm.WithDebug(debug))
	if err := machine.LoadMemory(words); err != nil {
		return fmt.Errorf("synacorvm: %w", err)
	}

	start := time.Now()
	state, runErr := machine.Run(ctx)
	logger.Debug("run finished", "state", state, "elapsed", vmlog.ElapsedSince(start))

	if state == vm.Error {
		return fmt.Errorf("synacorvm: program failed at pc=%#04x: %w", machine.CPU.PC(), runErr)
	}
	return nil
}

func assembleSource(path, out string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("synacorvm: %w", err)
	}
	lines := strings.Split(string(data), "\n")

	image, err := asm.Assemble(lines)
	if err != nil {
		var aerr *asm.Error
		if errors.As(err, &aerr) {
			return fmt.Errorf("synacorvm: %s", aerr)
		}
		return fmt.Errorf("synacorvm: %w", err)
	}

	if out == "" {
		ext := filepath.Ext(path)
		out = strings.TrimSuffix(path, ext) + ".bin"
	}
	if err := os.WriteFile(out, image, 0o644); err != nil {
		return fmt.Errorf("synacorvm: %w", err)
	}
	return nil
}

func disassembleBinary(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("synacorvm: %w", err)
	}
	words := disasm.ToWords(data)
	tokens, err := disasm.Tokenize(words)
	if err != nil {
		return fmt.Errorf("synacorvm: %w", err)
	}
	_, err = disasm.Render(tokens)
	return fmt.Errorf("synacorvm: %w", err)
}
