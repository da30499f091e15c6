package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useDataDir(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()

	oldDefaultPaths := defaultPaths
	t.Cleanup(func() {
		defaultPaths = oldDefaultPaths
	})

	defaultPaths = &Paths{
		HomeDir:     tmpDir,
		DataDir:     tmpDir,
		JournalFile: filepath.Join(tmpDir, "journal.db"),
		ConfigFile:  filepath.Join(tmpDir, ".linpredict.yaml"),
	}
	return tmpDir
}

func listLogFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var logFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && isLogFile(entry.Name()) {
			logFiles = append(logFiles, entry.Name())
		}
	}
	return logFiles
}

func TestSessionLogFile(t *testing.T) {
	dir := useDataDir(t)

	name := SessionLogFile(time.Unix(1700000000, 0))

	assert.Equal(t, filepath.Join(dir, "linpredict.1700000000.zst"), name)
	assert.True(t, isLogFile(filepath.Base(name)))
}

func TestPathAccessors(t *testing.T) {
	dir := useDataDir(t)

	assert.Equal(t, dir, HomeDir())
	assert.Equal(t, dir, DataDir())
	assert.Equal(t, filepath.Join(dir, "journal.db"), JournalFile())
	assert.Equal(t, filepath.Join(dir, ".linpredict.yaml"), ConfigFile())
}

func TestRotateLogFiles(t *testing.T) {
	t.Run("Keeps most recent 10 log files", func(t *testing.T) {
		dir := useDataDir(t)

		now := time.Now()
		for i := 1; i <= 15; i++ {
			logFile := filepath.Join(dir, fmt.Sprintf("linpredict.%d.zst", i))

			// newest = lowest number
			modTime := now.Add(-time.Duration(i) * time.Minute)
			require.NoError(t, os.WriteFile(logFile, []byte("log"), 0644))
			require.NoError(t, os.Chtimes(logFile, modTime, modTime))
		}

		require.NoError(t, RotateLogFiles())

		logFiles := listLogFiles(t, dir)
		assert.Len(t, logFiles, 10)
		for i := 1; i <= 10; i++ {
			assert.Contains(t, logFiles, fmt.Sprintf("linpredict.%d.zst", i))
		}
	})

	t.Run("Keeps all files when <= 10", func(t *testing.T) {
		dir := useDataDir(t)

		for i := 1; i <= 5; i++ {
			require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf("linpredict.%d.zst", i)), []byte("log"), 0644))
		}

		require.NoError(t, RotateLogFiles())
		assert.Len(t, listLogFiles(t, dir), 5)
	})

	t.Run("Preserves unrelated files", func(t *testing.T) {
		dir := useDataDir(t)

		for i := 1; i <= 12; i++ {
			require.NoError(t, os.WriteFile(filepath.Join(dir, fmt.Sprintf("linpredict.%d.zst", i)), []byte("log"), 0644))
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, "journal.db"), []byte("db"), 0644))
		require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0755))

		require.NoError(t, RotateLogFiles())

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		var others []string
		for _, entry := range entries {
			if !strings.HasPrefix(entry.Name(), logPrefix) {
				others = append(others, entry.Name())
			}
		}

		assert.Len(t, listLogFiles(t, dir), 10)
		assert.ElementsMatch(t, []string{"journal.db", "subdir"}, others)
	})
}
