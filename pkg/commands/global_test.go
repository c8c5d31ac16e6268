package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// runWithConfig runs a command carrying the store and global flags and
// returns the values its action saw.
func runWithConfig(t *testing.T, yaml string, args ...string) map[string]string {
	t.Helper()

	file := filepath.Join(t.TempDir(), "dadas.yaml")
	require.NoError(t, os.WriteFile(file, []byte(yaml), 0o600))

	seen := map[string]string{}
	app := cli.NewApp()
	app.Commands = []*cli.Command{{
		Name:   "probe",
		Flags:  append(storeFlags(), GlobalFlags()...),
		Before: Before,
		Action: func(c *cli.Context) error {
			for _, name := range []string{"store", "sql-dialect", "sql-dsn", "pocketbase-url", "log-level", "request-timeout"} {
				seen[name] = c.String(name)
			}
			seen["request-timeout"] = c.Duration("request-timeout").String()
			return nil
		},
	}}

	require.NoError(t, app.Run(append([]string{"dadas", "probe", "--config", file}, args...)))
	return seen
}

func TestConfigFile(t *testing.T) {
	seen := runWithConfig(t, `
store: pocketbase
pocketbase:
  url: https://pb.example.go.id
request-timeout: 3s
unknown-key: ignored
`)

	assert.Equal(t, "pocketbase", seen["store"])
	assert.Equal(t, "https://pb.example.go.id", seen["pocketbase-url"])
	assert.Equal(t, "3s", seen["request-timeout"])
	assert.Equal(t, "sqlite", seen["sql-dialect"], "defaults stay when the file is silent")
}

func TestConfigFile_CommandLineWins(t *testing.T) {
	seen := runWithConfig(t, "sql-dialect: mysql\nlog-level: debug\n", "--sql-dialect", "sqlite")

	assert.Equal(t, "sqlite", seen["sql-dialect"])
	assert.Equal(t, "debug", seen["log-level"])
}

func TestConfigFile_EnvironmentWins(t *testing.T) {
	t.Setenv("DADAS_SQL_DSN", "from-env")
	seen := runWithConfig(t, "sql-dsn: from-file\n")

	assert.Equal(t, "from-env", seen["sql-dsn"])
}

func TestConfigFile_BadValue(t *testing.T) {
	file := filepath.Join(t.TempDir(), "dadas.yaml")
	require.NoError(t, os.WriteFile(file, []byte("request-timeout: soon\n"), 0o600))

	app := cli.NewApp()
	app.Commands = []*cli.Command{{
		Name:   "probe",
		Flags:  append(storeFlags(), GlobalFlags()...),
		Before: Before,
		Action: func(c *cli.Context) error { return nil },
	}}

	assert.Error(t, app.Run([]string{"dadas", "probe", "--config", file}))
}

func TestGetCommands(t *testing.T) {
	var names []string
	for _, cmd := range GetCommands() {
		names = append(names, cmd.Name)
		if cmd.Name != "version" {
			assert.NotNil(t, cmd.Before, cmd.Name)
			assert.NotNil(t, cmd.Action, cmd.Name)
		}
	}
	assert.Equal(t, []string{"api-server", "export", "version"}, names)
}
