package loadcheck

import (
	"context"
	"fmt"
	"os"
)

// Modes accepted by Run.
const (
	ModeGenerate = "generate"
	ModeVerify   = "verify"
)

// Run executes one load check mode.
func Run(ctx context.Context, mode string, cfg *Config) error {
	switch mode {
	case ModeGenerate:
		_, err := GenerateFile(ctx, cfg)
		return err
	case ModeVerify:
		report, err := Verify(ctx, cfg)
		if report != nil {
			PrintReport(report)
		}
		return err
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, mode)
	}
}

// PrintReport writes a human readable summary to stdout.
func PrintReport(r *Report) {
	fmt.Fprintf(os.Stdout, "run %s: %d checks, %d requests in %s\n", r.RunID, r.Checks, r.Requests, r.Duration.Round(1e6))
	if len(r.Violations) == 0 {
		fmt.Fprintln(os.Stdout, "all invariants hold")
		return
	}
	for _, v := range r.Violations {
		fmt.Fprintln(os.Stdout, "  violation:", v)
	}
}
