// SPDX-License-Identifier: MIT

// Command matinv is the inversion engine process. It reads one request
// document from stdin (or --input), times the serial and parallel variant of
// the requested method, and writes one response document to stdout.
//
// Exit status: 0 on success, 2 when the request is at fault (validation
// failure, singular matrix), 1 on internal errors.
//
// Example:
//
//	echo '{"method":"lu","matrix_size":2,"matrix_input":"4 3 6 3"}' | matinv --workers 4
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
