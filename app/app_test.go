package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func etcPath(t *testing.T) string {
	t.Helper()

	root, err := filepath.Abs("..")
	require.NoError(t, err)

	return filepath.Join(root, "etc") + string(filepath.Separator)
}

func run(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)

	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		dumpJSON = false
	})

	require.NoError(t, rootCmd.Execute())

	return out.String()
}

func TestConfigCommand(t *testing.T) {
	out := run(t, "config", "--config-path", etcPath(t))
	assert.Contains(t, out, "MaxOverdueBooks = 3")
	assert.NotContains(t, out, `Password = "library"`)

	out = run(t, "config", "--config-path", etcPath(t), "--json")
	assert.Contains(t, out, `"MaxOverdueBooks": 3`)
}

func TestRecomputeOverdueCommand(t *testing.T) {
	dir := t.TempDir()
	toml := `Title = "t"
[DB]
GormEngine = "sqlite"
Name = "` + filepath.ToSlash(filepath.Join(dir, "library.db")) + `"
MaxOpenConns = 1
[Webserver]
Port = 5000
URL = "http://localhost:5000"
[Log]
LogLevel = "error"
AppName = "library"
ServiceName = "library-test"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.toml"), []byte(toml), 0o600))

	out := run(t, "recompute-overdue", "--config-path", dir+string(filepath.Separator))
	assert.Contains(t, out, "users: 0, changed: 0, over limit: 0")
}

func TestConfigCommandMissingFile(t *testing.T) {
	rootCmd.SetArgs([]string{"config", "--config-path", t.TempDir() + string(filepath.Separator)})
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SilenceUsage = false
		rootCmd.SilenceErrors = false
	})

	require.Error(t, rootCmd.Execute())
}
