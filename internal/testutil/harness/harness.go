// Package harness runs the tracegraph CLI in-process for end-to-end tests.
package harness

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/specialistvlad/tracegraph/internal/cli"
	"github.com/specialistvlad/tracegraph/internal/testutil"
)

// DirPlaceholder in an argument is replaced with the test's file directory.
const DirPlaceholder = "$DIR"

// Result holds the outcome of one CLI run.
type Result struct {
	Dir       string
	Stdout    string
	LogOutput string
	Err       error
}

// RunCLI writes files into a temporary directory and runs the CLI with args,
// logging at debug level so tests can assert on log lines.
func RunCLI(t *testing.T, files map[string]string, args ...string) *Result {
	t.Helper()
	return RunCLIWithContext(context.Background(), t, files, args...)
}

// RunCLIWithContext is RunCLI with a caller-provided context.
func RunCLIWithContext(ctx context.Context, t *testing.T, files map[string]string, args ...string) *Result {
	t.Helper()

	dir := testutil.WriteFiles(t, files)
	expanded := make([]string, 0, len(args)+2)
	expanded = append(expanded, "--log-level", "debug")
	for _, a := range args {
		expanded = append(expanded, strings.ReplaceAll(a, DirPlaceholder, dir))
	}

	stdout := &testutil.SafeBuffer{}
	logs := &testutil.SafeBuffer{}
	err := cli.Execute(ctx, stdout, logs, expanded)

	t.Cleanup(func() {
		if os.Getenv("TRACEGRAPH_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})

	return &Result{Dir: dir, Stdout: stdout.String(), LogOutput: logs.String(), Err: err}
}
