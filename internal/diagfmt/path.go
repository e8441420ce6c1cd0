package diagfmt

import (
	"os"
	"path/filepath"

	"bril/internal/ir"
)

func formatPath(file string, mode PathMode, baseDir string) string {
	if file == "" {
		return file
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(file); err == nil {
			return abs
		}
	case PathModeRelative:
		base := baseDir
		if base == "" {
			wd, err := os.Getwd()
			if err != nil {
				return file
			}
			base = wd
		}
		abs, err := filepath.Abs(file)
		if err != nil {
			return file
		}
		if rel, err := filepath.Rel(base, abs); err == nil {
			return rel
		}
	case PathModeBasename:
		return filepath.Base(file)
	}
	return file
}

// formatLoc renders loc as path[:line[:col]] with the path rewritten per mode.
func formatLoc(loc ir.Location, mode PathMode, baseDir string) string {
	loc.File = formatPath(loc.File, mode, baseDir)
	return loc.String()
}
