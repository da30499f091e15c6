package core

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	logPrefix   = "linpredict."
	logSuffix   = ".zst"
	maxLogFiles = 10
)

type Paths struct {
	HomeDir     string
	DataDir     string
	JournalFile string
	ConfigFile  string
}

var defaultPaths *Paths

func ensureDefaultPaths() {
	if defaultPaths == nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			panic(err)
		}

		dataDir := filepath.Join(homeDir, ".local", "share", "linpredict")
		defaultPaths = &Paths{
			HomeDir:     homeDir,
			DataDir:     dataDir,
			JournalFile: filepath.Join(dataDir, "journal.db"),
			ConfigFile:  filepath.Join(homeDir, ".linpredict.yaml"),
		}

		err = os.MkdirAll(defaultPaths.DataDir, 0755)
		if err != nil {
			panic(err)
		}
	}
}

func HomeDir() string {
	ensureDefaultPaths()
	return defaultPaths.HomeDir
}

func DataDir() string {
	ensureDefaultPaths()
	return defaultPaths.DataDir
}

func JournalFile() string {
	ensureDefaultPaths()
	return defaultPaths.JournalFile
}

func ConfigFile() string {
	ensureDefaultPaths()
	return defaultPaths.ConfigFile
}

// SessionLogFile names the compressed log for a session started at t.
func SessionLogFile(t time.Time) string {
	ensureDefaultPaths()
	return filepath.Join(defaultPaths.DataDir, fmt.Sprintf("%s%d%s", logPrefix, t.Unix(), logSuffix))
}

func isLogFile(name string) bool {
	return strings.HasPrefix(name, logPrefix) && strings.HasSuffix(name, logSuffix)
}

// RotateLogFiles removes all but the most recent session logs, by
// modification time.
func RotateLogFiles() error {
	ensureDefaultPaths()

	entries, err := os.ReadDir(defaultPaths.DataDir)
	if err != nil {
		return err
	}

	var logFiles []logFileInfo
	for _, entry := range entries {
		if entry.IsDir() || !isLogFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		logFiles = append(logFiles, logFileInfo{
			path:    filepath.Join(defaultPaths.DataDir, entry.Name()),
			modTime: info.ModTime(),
		})
	}

	if len(logFiles) <= maxLogFiles {
		return nil
	}

	// newest first
	sort.Slice(logFiles, func(i, j int) bool {
		return logFiles[i].modTime.After(logFiles[j].modTime)
	})

	for _, f := range logFiles[maxLogFiles:] {
		if err := os.Remove(f.path); err != nil {
			return err
		}
	}

	return nil
}

type logFileInfo struct {
	path    string
	modTime time.Time
}
