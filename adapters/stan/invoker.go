// Package stan invokes the external probabilistic inference engine as an
// opaque subprocess. The engine owns the model definition and the sampler;
// this adapter only speaks the fixed JSON request/response contract.
package stan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"puckcast/domain/core"
	"puckcast/ports"
)

// Invoker implements ports.Engine by running a sampler command. The request
// is written to the process's stdin as JSON; posterior draws and parameter
// summaries are read back from stdout as JSON.
type Invoker struct {
	command string
	args    []string
	timeout time.Duration
}

// NewInvoker creates an invoker for the given sampler command line. The
// engine may parallelize internally; that is its configuration, not ours.
func NewInvoker(command string, timeout time.Duration) *Invoker {
	fields := strings.Fields(command)
	var args []string
	if len(fields) > 1 {
		args = fields[1:]
	}
	name := ""
	if len(fields) > 0 {
		name = fields[0]
	}
	return &Invoker{command: name, args: args, timeout: timeout}
}

// FitPredict delegates synchronously to the sampler. The call is bounded by
// the configured timeout; cancellation kills the subprocess. Failures are
// surfaced as core.ErrInferenceFailure and never retried.
func (inv *Invoker) FitPredict(ctx context.Context, req ports.FitRequest) (*ports.FitResult, error) {
	if err := req.Validate(); err != nil {
		return nil, core.NewInferenceError(err)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, core.NewInferenceError(fmt.Errorf("marshal request: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, inv.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, inv.command, inv.args...)
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, core.NewInferenceError(fmt.Errorf("sampler timed out after %s", inv.timeout))
		}
		return nil, core.NewInferenceError(fmt.Errorf("sampler exited: %v: %s", err, firstLine(stderr.String())))
	}

	var result ports.FitResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		return nil, core.NewInferenceError(fmt.Errorf("malformed sampler output: %w", err))
	}
	if err := ValidateResult(req, &result); err != nil {
		return nil, core.NewInferenceError(err)
	}
	return &result, nil
}

// ValidateResult checks the engine response against the draw-alignment
// contract: one draw set per query, all sets non-empty and of equal length,
// each internally index-aligned.
func ValidateResult(req ports.FitRequest, result *ports.FitResult) error {
	if len(result.Queries) != req.NQueries {
		return fmt.Errorf("engine returned %d draw sets for %d queries", len(result.Queries), req.NQueries)
	}
	drawCount := -1
	for i, d := range result.Queries {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("query %d: %w", i, err)
		}
		if d.Len() == 0 {
			return fmt.Errorf("query %d: empty draw set", i)
		}
		if drawCount == -1 {
			drawCount = d.Len()
		} else if d.Len() != drawCount {
			return fmt.Errorf("query %d: %d draws, expected %d", i, d.Len(), drawCount)
		}
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
