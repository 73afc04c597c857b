package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// generateTimestampedFileName generates a filename with timestamp suffix
func generateTimestampedFileName(command, extension string) string {
	timestamp := time.Now().Format("20060102_150405")
	return fmt.Sprintf("%s_%s.%s", command, timestamp, extension)
}

// resolveOutputDirectory returns the report directory, a tool-specific
// hidden directory under the current working directory so reviews never
// land next to the analyzed sources.
func resolveOutputDirectory() string {
	cwd, err := os.Getwd()
	if err != nil {
		return filepath.Join(".redraft", "reviews")
	}
	return filepath.Join(cwd, ".redraft", "reviews")
}

// generateOutputFilePath combines filename generation and directory
// resolution, creating the directory when needed.
func generateOutputFilePath(command, extension string) (string, error) {
	filename := generateTimestampedFileName(command, extension)
	outputDir := resolveOutputDirectory()

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}
	return filepath.Join(outputDir, filename), nil
}

// isInteractiveEnvironment returns true if the environment appears to be
// an interactive TTY session (and not CI), used to decide auto-open behavior.
func isInteractiveEnvironment() bool {
	if os.Getenv("CI") != "" {
		return false
	}
	// Best-effort TTY detection without external deps
	if fi, err := os.Stderr.Stat(); err == nil {
		return (fi.Mode() & os.ModeCharDevice) != 0
	}
	return false
}
