package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWithConfig(t, filepath.Join(t.TempDir(), "none.yaml"), args...)
}

func executeWithConfig(t *testing.T, path string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--config", path))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	out, err := execute(t, "run", "-n", "64", "--repeat", "2")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Target Device: GUDA"))
	assert.Contains(t, out, "Average Scalar execution time on CPU (2 runs)")
	assert.Contains(t, out, "[0] (2,4) * (4,6) = (-16,28)")
	assert.Contains(t, out, "[63] (65,67) * (67,69) = (-268,8974)")
	assert.Contains(t, out, "Complex multiplication successfully run on the device")
}

func TestRunCommandRejectsBadSize(t *testing.T) {
	out, err := execute(t, "run", "-n", "-1")
	assert.Error(t, err)
	assert.Contains(t, out, "Failure")
}

func TestDevicesCommand(t *testing.T) {
	out, err := execute(t, "devices", "--vendor", "GUDA")
	require.NoError(t, err)
	assert.Contains(t, out, "GUDA CPU")
	assert.Contains(t, out, "selected: GUDA")
}

func TestBadConfigPrintsFailure(t *testing.T) {
	tests := []struct {
		name, body string
	}{
		{"malformed", "elements: [1, 2"},
		{"invalid", "elements: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "complexmul.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0644))

			out, err := executeWithConfig(t, path, "run")
			assert.Error(t, err)
			assert.Contains(t, out, "Failure")
			assert.NotContains(t, out, "Target Device")
		})
	}
}
