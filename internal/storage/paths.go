// Package storage keeps perft results in a BadgerDB cache so repeated
// counts of the same position and depth are served without a tree walk.
// The cache and the shell history live under one per-user data directory.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	appName     = "chesscore"
	cacheSubdir = "perft-cache"
	historyName = "shell_history"
)

// userBase is the per-OS root for application data: Application Support
// on macOS, %APPDATA% on Windows and $XDG_DATA_HOME (or ~/.local/share)
// elsewhere.
func userBase() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support"), nil
	case "windows":
		if dir := os.Getenv("APPDATA"); dir != "" {
			return dir, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "AppData", "Roaming"), nil
	default:
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return dir, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share"), nil
	}
}

func ensureDir(parts ...string) (string, error) {
	dir := filepath.Join(parts...)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// GetDataDir returns the chesscore directory under the user data root,
// creating it when missing.
func GetDataDir() (string, error) {
	base, err := userBase()
	if err != nil {
		return "", err
	}
	return ensureDir(base, appName)
}

// GetDatabaseDir returns the directory Open uses when no path is given.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return ensureDir(dataDir, cacheSubdir)
}

// HistoryFile returns where the interactive shell keeps its line history.
func HistoryFile() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, historyName), nil
}
