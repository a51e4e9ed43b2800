package app

import (
	"os"
	"testing"

	"github.com/vk/netgraph/internal/registry"
	"github.com/vk/netgraph/internal/testutil"
)

// SetupAppTest creates a new app instance for system testing. It returns
// the app together with the buffers capturing its output and its logs.
func SetupAppTest(t *testing.T, cfg Config, modules ...registry.Module) (*App, *testutil.SafeBuffer, *testutil.SafeBuffer) {
	t.Helper()

	cfg.LogLevel = "debug"
	appConfig, err := NewConfig(cfg)
	if err != nil {
		t.Fatalf("invalid test config: %v", err)
	}

	outBuffer := &testutil.SafeBuffer{}
	logBuffer := &testutil.SafeBuffer{}
	testApp := NewApp(outBuffer, logBuffer, appConfig, modules...)

	t.Cleanup(func() {
		_ = testApp.Close()
		if os.Getenv("NETGRAPH_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, outBuffer, logBuffer
}
