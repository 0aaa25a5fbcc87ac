package install

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/xtatsux/homebrew-spkdl/internal/formula"
)

// DefaultTestTimeout bounds a smoke test run.
const DefaultTestTimeout = 30 * time.Second

// RunTest runs binPath with the test arguments and returns the combined
// output. It fails with ErrTestFailed when the command exits non-zero or the
// output lacks the expected text.
func RunTest(ctx context.Context, binPath string, test formula.Test) (string, error) {
	if !IsInstalled(binPath) {
		return "", fmt.Errorf("%w: %s", ErrNotInstalled, binPath)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTestTimeout)
		defer cancel()
	}

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, binPath, test.Args...)
	cmd.Stdout = &out
	cmd.Stderr = &out

	runErr := cmd.Run()
	output := strings.TrimSpace(out.String())

	if ctx.Err() != nil {
		return output, fmt.Errorf("%w: %s timed out: %v", ErrTestFailed, binPath, ctx.Err())
	}
	if runErr != nil {
		return output, fmt.Errorf("%w: %s %s: %v\n%s", ErrTestFailed, binPath, strings.Join(test.Args, " "), runErr, output)
	}
	if test.Expect != "" && !strings.Contains(output, test.Expect) {
		return output, fmt.Errorf("%w: output of %s does not contain %q:\n%s", ErrTestFailed, binPath, test.Expect, output)
	}
	return output, nil
}

// IsInstalled reports whether path is a regular file with an executable bit.
func IsInstalled(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0111 != 0
}
