package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolveRuntimePath turns a configured directory into an absolute one.
// Absolute paths pass through; relative and empty paths (empty falls back to
// fallbackSubdir) are anchored at the binary's directory so the server finds
// its data regardless of where it was started from.
func ResolveRuntimePath(raw, fallbackSubdir string) string {
	target := strings.TrimSpace(raw)
	if target == "" {
		target = strings.TrimSpace(fallbackSubdir)
	}
	if target == "" {
		return runtimeRoot()
	}
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Join(runtimeRoot(), target)
}

// runtimeRoot is the binary's directory, or the working directory when the
// binary's path cannot be resolved.
func runtimeRoot() string {
	exe, err := os.Executable()
	if err != nil || strings.TrimSpace(exe) == "" {
		if wd, wdErr := os.Getwd(); wdErr == nil && wd != "" {
			return wd
		}
		return "."
	}
	if resolved, rErr := filepath.EvalSymlinks(exe); rErr == nil && resolved != "" {
		exe = resolved
	}
	return filepath.Dir(exe)
}
