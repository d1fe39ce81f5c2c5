package utils

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
)

// PathResolver finds dictionary files given relative to one of the places
// a user is likely to mean.
type PathResolver struct {
	executableDir string
	configDir     string
}

// NewPathResolver creates a resolver for the given config directory. The
// executable directory is optional: it is skipped when it cannot be found.
func NewPathResolver(configDir string) *PathResolver {
	execDir, err := GetExecutableDir()
	if err != nil {
		log.Debugf("Executable directory unavailable: %v", err)
	}
	return &PathResolver{executableDir: execDir, configDir: configDir}
}

// DictPath resolves a dictionary file or directory. Absolute paths are
// used as given; relative ones are tried against the working directory,
// the config directory and the executable directory, in that order.
func (pr *PathResolver) DictPath(userPath string) (string, error) {
	candidates := pr.candidates(userPath)
	for _, path := range candidates {
		if FileExists(path) {
			log.Debugf("Found dictionary at %s", path)
			return path, nil
		}
		log.Debugf("Dictionary candidate not found: %s", path)
	}
	return "", errors.Wrapf(os.ErrNotExist, "dictionary %q not found (tried %v)", userPath, candidates)
}

func (pr *PathResolver) candidates(userPath string) []string {
	if filepath.IsAbs(userPath) {
		return []string{userPath}
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, userPath))
	}
	for _, base := range []string{pr.configDir, pr.executableDir} {
		if base != "" {
			candidates = append(candidates, filepath.Join(base, userPath))
		}
	}
	return candidates
}
