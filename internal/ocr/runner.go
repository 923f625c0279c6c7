package ocr

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"labreport-backend/internal/shared/telemetry"
)

// Runner lets us stub external commands in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	dur := time.Since(start)

	if err != nil {
		telemetry.Error("exec.failed", map[string]any{
			"cmd":        name,
			"args":       strings.Join(args, " "),
			"durationMs": dur.Milliseconds(),
			"error":      err.Error(),
			"stderr":     truncate(errb.String(), 8<<10),
		})
	} else {
		telemetry.Info("exec.complete", map[string]any{
			"cmd":         name,
			"durationMs":  dur.Milliseconds(),
			"stdoutBytes": out.Len(),
		})
	}

	return out.Bytes(), errb.Bytes(), err
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
