package tools

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/renato0307/idevman/internal/domain"
	"github.com/renato0307/idevman/internal/logging"
	"github.com/renato0307/idevman/internal/ports"
)

// DirResolver resolves tools inside a single install directory.
// Existence is checked on every call since tools can be installed or removed at any time.
type DirResolver struct {
	dir        string
	goos       string
	searchPath bool
}

// Compile-time interface verification
var _ ports.ToolResolver = (*DirResolver)(nil)

// NewDirResolver creates a resolver for dir. When searchPath is set, tools missing
// from dir are looked up on $PATH.
func NewDirResolver(dir string, searchPath bool) *DirResolver {
	return &DirResolver{
		dir:        dir,
		goos:       runtime.GOOS,
		searchPath: searchPath,
	}
}

// Dir returns the install directory
func (r *DirResolver) Dir() string {
	return r.dir
}

// Resolve returns the expected path for name if it exists on disk right now
func (r *DirResolver) Resolve(name string) (domain.ToolDescriptor, bool) {
	binary := r.binaryName(name)
	path := filepath.Join(r.dir, binary)

	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return domain.ToolDescriptor{Name: name, Path: path}, true
	}

	if r.searchPath {
		if found, err := exec.LookPath(binary); err == nil {
			logging.Logger.Debug("Tool resolved from PATH", "tool", name, "path", found)
			return domain.ToolDescriptor{Name: name, Path: found}, true
		}
	}

	logging.Logger.Debug("Tool not installed", "tool", name, "expected_path", path)
	return domain.ToolDescriptor{}, false
}

// Availability reports which of the given tools can be resolved
func (r *DirResolver) Availability(names ...string) map[string]bool {
	result := make(map[string]bool, len(names))
	for _, name := range names {
		_, ok := r.Resolve(name)
		result[name] = ok
	}
	return result
}

// binaryName appends .exe on windows unless already present
func (r *DirResolver) binaryName(name string) string {
	if r.goos == "windows" && !strings.HasSuffix(strings.ToLower(name), ".exe") {
		return name + ".exe"
	}
	return name
}
