package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtured.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
port     = 4100
data_dir = "./fixtures"
`), 0o644))

	fc, err := readConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4100, fc.Port)
	assert.Equal(t, "./fixtures", fc.DataDir)
}

func TestReadConfigFile_PartialAndEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtured.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`port = 8080`), 0o644))

	fc, err := readConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, fc.Port)
	assert.Empty(t, fc.DataDir)

	empty := filepath.Join(t.TempDir(), "empty.hcl")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	fc, err = readConfigFile(empty)
	require.NoError(t, err)
	assert.Zero(t, fc.Port)
}

func TestReadConfigFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtured.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`port = `), 0o644))

	_, err := readConfigFile(path)
	require.Error(t, err)
}

func TestReadConfigFile_Missing(t *testing.T) {
	_, err := readConfigFile(filepath.Join(t.TempDir(), "absent.hcl"))
	require.Error(t, err)
}

func TestResolveConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtured.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
port     = 4100
data_dir = "./fixtures"
`), 0o644))

	t.Cleanup(func() {
		port, dataDir, configPath = 3000, "./data", ""
	})
	port, dataDir, configPath = 3000, "./data", path

	cfg, err := resolveConfig(rootCmd)
	require.NoError(t, err)
	assert.Equal(t, Config{Port: 4100, DataDir: "./fixtures"}, cfg)
}
