package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cfgFile, logLevel, journalDBPath = "", "", "./gbce.sqlite"

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestYieldAndPE(t *testing.T) {
	out, err := execute(t, "", "yield", "gin", "500")
	require.NoError(t, err)
	assert.Equal(t, "0.004\n", out)

	out, err = execute(t, "", "pe", "POP", "80")
	require.NoError(t, err)
	assert.Equal(t, "10\n", out)

	_, err = execute(t, "", "pe", "TEA", "80")
	assert.Error(t, err)

	_, err = execute(t, "", "yield", "XXX", "1")
	assert.Error(t, err)

	_, err = execute(t, "", "yield", "POP", "cheap")
	assert.Error(t, err)
}

func TestInstruments(t *testing.T) {
	out, err := execute(t, "", "instruments")
	require.NoError(t, err)
	assert.Contains(t, out, "SYMBOL")
	assert.Contains(t, out, "GIN")
	assert.Contains(t, out, "2%")
	assert.Equal(t, 6, strings.Count(out, "\n"))
}

func TestConfigInitValidateAndShellWithJournal(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "gbce.yaml")

	_, err := execute(t, "", "config", "init", "--output", cfgPath)
	require.NoError(t, err)

	dbPath := filepath.Join(dir, "gbce.sqlite")
	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	data = bytes.Replace(data, []byte("type: none"), []byte("type: sqlite\n    db_path: "+dbPath), 1)
	require.NoError(t, os.WriteFile(cfgPath, data, 0644))

	out, err := execute(t, "", "config", "validate", "--file", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Journal: sqlite")
	assert.Contains(t, out, "Window: 15m0s")

	out, err = execute(t, "3 gin 10 buy 30\n3 pop 5 sell 12\n4 gin\n0\n", "shell", "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "done!"))
	assert.Contains(t, out, "result: 30\n")

	out, err = execute(t, "", "journal", "list", "gin", "--db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "** Trade:"))
	assert.Contains(t, out, ":SYMBOL: GIN")

	out, err = execute(t, "", "journal", "day", time.Now().Format("2006-01-02"), "--db", dbPath)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "** Trade:"))

	_, err = execute(t, "", "journal", "trade", "missing", "--db", dbPath)
	assert.Error(t, err)
}

func TestDayBounds(t *testing.T) {
	start, end, err := dayBounds(time.UTC, "2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 24*time.Hour, end.Sub(start))

	_, _, err = dayBounds(time.UTC, "15/01/2024")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "gbce version 1.0.0\n", out)
}
