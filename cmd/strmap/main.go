package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

func main() {
	exitCode := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	os.Exit(exitCode)
}

// run is the main entry point for the CLI, separated for testing
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app := &cliApp{stdin: stdin, stdout: stdout, stderr: stderr}
	root := newRootCommand(app)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(context.Background())
	app.closeLogger()
	if err == nil {
		return ExitCodeSuccess
	}

	var cliErr *cliError
	if errors.As(err, &cliErr) {
		switch {
		case cliErr.silent:
		case cliErr.cause == nil:
			fmt.Fprintln(stderr, cliErr.message)
		default:
			fmt.Fprintf(stderr, FmtErrorWithCause, cliErr.message, cliErr.cause)
		}
		return cliErr.code
	}

	// flag parsing and unknown commands
	fmt.Fprintln(stderr, err)
	return ExitCodeUsageError
}

// cliError carries the exit code a command failed with
type cliError struct {
	code    int
	message string
	cause   error
	silent  bool
}

func (e *cliError) Error() string {
	if e.cause == nil {
		return e.message
	}
	return e.message + ": " + e.cause.Error()
}

func (e *cliError) Unwrap() error {
	return e.cause
}

func failWith(code int, message string, cause error) error {
	return &cliError{code: code, message: message, cause: cause}
}

// exitSilently ends the command with code and no error output
func exitSilently(code int) error {
	return &cliError{code: code, silent: true}
}
