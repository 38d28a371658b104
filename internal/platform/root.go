package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// EnvHome overrides the data directory.
const EnvHome = "FAITOUT_HOME"

// DefaultDataDir returns FAITOUT_HOME when set, otherwise the directory of
// the running executable, falling back to the working directory.
func DefaultDataDir() string {
	if home := os.Getenv(EnvHome); home != "" {
		return home
	}
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

// IsDevRun reports whether the process was started by `go run` or is a
// test binary.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}

	// go run builds into the system temp dir.
	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(os.TempDir())) {
		return true
	}
	return strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe")
}

// ResolveDataPath determines the directory actually used. With forceTemp
// the path is re-rooted into a namespaced temp directory so dev runs
// never touch real data. Paths already inside the temp dir are kept.
func ResolveDataPath(userPath string, forceTemp bool) string {
	if !forceTemp {
		if userPath == "" {
			return "."
		}
		return userPath
	}

	clean := filepath.Clean(userPath)
	if userPath != "" {
		rel, err := filepath.Rel(os.TempDir(), clean)
		if err == nil && !strings.HasPrefix(rel, "..") && filepath.IsAbs(clean) {
			return clean
		}
	}

	base := filepath.Join(os.TempDir(), "faitout-dev")
	name := filepath.Base(clean)
	if userPath == "" || name == "." || name == string(os.PathSeparator) {
		name = "default"
	}
	return filepath.Join(base, name)
}

// resolveDataDir applies the precedence rules: explicit option, then
// FAITOUT_HOME, then beside the executable. The dev sandbox applies only
// to the executable location unless forced; read-only runs always use the
// real path.
func resolveDataDir(o *options) (path string, sandboxed bool) {
	explicit := o.dataDir != "" || os.Getenv(EnvHome) != ""
	dir := o.dataDir
	if dir == "" {
		dir = DefaultDataDir()
	}

	useTemp := o.forceTemp || (!explicit && o.devSafety && !o.readOnly && IsDevRun())
	return ResolveDataPath(dir, useTemp), useTemp
}
