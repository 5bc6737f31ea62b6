// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/spf13/pflag"

	"github.com/katalvlaran/matinv/contract"
	"github.com/katalvlaran/matinv/harness"
	"github.com/katalvlaran/matinv/internal/config"
	"github.com/katalvlaran/matinv/internal/logging"
	"github.com/katalvlaran/matinv/internal/metrics"
)

// run is main without the process globals, so tests can drive it.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load(args)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)

		return contract.StatusInternal.ExitCode()
	}

	log, flush, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(stderr, err)

		return contract.StatusInternal.ExitCode()
	}
	defer flush()

	rec := metrics.NewRecorder()
	if cfg.MetricsFile != "" {
		defer func() {
			if werr := rec.WriteTextfile(cfg.MetricsFile); werr != nil {
				log.Error(werr, "writing metrics file", "path", cfg.MetricsFile)
			}
		}()
	}

	res, err := serve(ctx, cfg, stdin, log, rec)
	doc, status := contract.Respond(res, err)
	if err != nil && status == contract.StatusInternal {
		log.Error(err, "request failed")
	}

	return respond(stdout, doc, status, log)
}

// respond writes doc. A document that cannot be encoded is replaced by the
// internal-failure document, so stdout always carries one response.
func respond(w io.Writer, doc any, status contract.Status, log logr.Logger) int {
	err := contract.Encode(w, doc)
	if err == nil {
		return status.ExitCode()
	}
	log.Error(err, "encoding response")
	if ferr := contract.Encode(w, contract.Failure(err)); ferr != nil {
		log.Error(ferr, "writing response")
	}

	return contract.StatusInternal.ExitCode()
}

// serve decodes and validates the request, then runs the harness.
// Parsing and validation stay outside the harness' timed regions.
func serve(ctx context.Context, cfg *config.Config, stdin io.Reader, log logr.Logger, obs harness.Observer) (*harness.Result, error) {
	in, closeIn, err := openInput(cfg.Input, stdin)
	if err != nil {
		return nil, err
	}
	defer closeIn()

	req, err := contract.Decode(in)
	if err != nil {
		return nil, err
	}
	input, err := req.Validate()
	if err != nil {
		return nil, err
	}
	log.V(1).Info("request accepted", "method", input.Method.Label(), "size", input.Size)

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	opts := append(cfg.HarnessOptions(), harness.WithLogger(log), harness.WithObserver(obs))

	return harness.Run(ctx, input.Method, input.Matrix, opts...)
}

func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == config.StdinPath {
		return stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}

	return f, func() { _ = f.Close() }, nil
}
