package app

import (
	"context"
	"os"
	"testing"

	"github.com/specialistvlad/tracegraph/internal/graphstore"
	"github.com/specialistvlad/tracegraph/internal/testutil"
)

// setupAppTest creates a new app instance for system testing. It returns the
// app, its output buffer and its log buffer.
func setupAppTest(t *testing.T, cfg Config) (*App, *testutil.SafeBuffer, *testutil.SafeBuffer) {
	t.Helper()

	outBuffer := &testutil.SafeBuffer{}
	logBuffer := &testutil.SafeBuffer{}
	cfg.LogLevel = "debug"
	testApp, err := NewApp(context.Background(), outBuffer, logBuffer, &cfg)
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}

	t.Cleanup(func() {
		_ = testApp.Close(context.Background())
		if os.Getenv("TRACEGRAPH_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, outBuffer, logBuffer
}

func graphstoreConfig(backend, path string) graphstore.Config {
	return graphstore.Config{Backend: backend, Path: path}
}
