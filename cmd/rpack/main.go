package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rpack/internal/errkind"
)

const (
	exitOK             = 0
	exitError          = 1
	exitEmptySelection = 2 // scripts can tell an empty selection from a failure
)

func main() {
	// Set UTF-8 as fallback encoding so non-ASCII names render everywhere
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and maps the outcome to an exit code.
func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	return exitCode(cmd.Execute(), stderr)
}

func exitCode(err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errkind.ErrNothingSelected):
		fmt.Fprintln(stderr, "rpack: nothing selected")
		return exitEmptySelection
	default:
		fmt.Fprintf(stderr, "rpack: %v\n", err)
		return exitError
	}
}
