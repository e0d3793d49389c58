package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

// resetGlobals clears command flag state and every environment variable the
// tests rely on.
func resetGlobals(t *testing.T) {
	t.Helper()

	cfgFile = ""
	verbose = false
	endpointFlags.tenant, endpointFlags.agent, endpointFlags.cluster = "", "", ""
	endpointFlags.island = false
	endpointFlags.format = "text"

	probeFlags.tenant, probeFlags.agent, probeFlags.token = "", "", ""
	probeFlags.name = "a365.probe"
	probeFlags.count = 1
	probeFlags.timeout = 0
	probeFlags.dryRun = false
	probeFlags.format = "text"

	serveFlags.tenant, serveFlags.agent, serveFlags.token = "", "", ""
	serveFlags.name = "a365.probe"
	serveFlags.listen = "127.0.0.1:0"
	serveFlags.interval = 20 * time.Millisecond

	for _, key := range []string{
		"A365_OBSERVABILITY_DOMAIN_OVERRIDE",
		"A365_CLUSTER_CATEGORY",
		"A365_DELIVERY_MAX_RETRIES",
		tokenEnv,
	} {
		unsetEnv(t, key)
	}
	t.Setenv("A365_TELEMETRY_LOGGING_LEVEL", "error")
}

// unsetEnv removes key for the duration of the test. A variable that is set
// but empty still overrides configuration.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset %s: %v", key, err)
	}
}

// testCommand returns a command whose output is captured in the buffer.
func testCommand() (*cobra.Command, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	return cmd, buf
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "a365.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}
