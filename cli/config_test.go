package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func validRunConfig(t *testing.T) *RunConfig {
	t.Helper()

	dir := t.TempDir()
	appPath := filepath.Join(dir, "app-debug.apk")
	testPackagePath := filepath.Join(dir, "test_bundle.zip")
	require.NoError(t, os.WriteFile(appPath, []byte("apk"), 0644))
	require.NoError(t, os.WriteFile(testPackagePath, []byte("zip"), 0644))

	return &RunConfig{
		AppPath:         appPath,
		TestPackagePath: testPackagePath,
		ProjectArn:      "arn:aws:devicefarm:us-west-2:123456789012:project:5e01ce15",
		TestSpecArn:     "arn:aws:devicefarm:us-west-2:123456789012:upload:5e01ce15/spec",
		DevicePoolArn:   "arn:aws:devicefarm:us-west-2:123456789012:devicepool:5e01ce15/pool",
		NamePrefix:      defaultNamePrefix,
		Region:          "us-west-2",
	}
}

func TestRunConfig_Validate(t *testing.T) {
	cfg := validRunConfig(t)
	require.NoError(t, cfg.Validate())
}

func TestRunConfig_ValidateRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RunConfig)
	}{
		{
			name:   "missing app path",
			mutate: func(c *RunConfig) { c.AppPath = "" },
		},
		{
			name:   "app file does not exist",
			mutate: func(c *RunConfig) { c.AppPath = filepath.Join(t.TempDir(), "missing.apk") },
		},
		{
			name:   "missing project arn",
			mutate: func(c *RunConfig) { c.ProjectArn = "" },
		},
		{
			name:   "device pool arn is not an arn",
			mutate: func(c *RunConfig) { c.DevicePoolArn = "not-an-arn" },
		},
		{
			name:   "missing name prefix",
			mutate: func(c *RunConfig) { c.NamePrefix = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validRunConfig(t)
			tt.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
