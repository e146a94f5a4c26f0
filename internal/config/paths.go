// ABOUTME: Standard filesystem paths for org-xlatex configuration
// ABOUTME: Resolves ~/.config/org-xlatex/ for global and .org-xlatex.yaml for project-local

package config

import (
	"os"
	"path/filepath"
)

const (
	globalDirName   = "org-xlatex"
	projectFileName = ".org-xlatex.yaml"
)

// GlobalDir returns the user-global config directory
// (~/.config/org-xlatex/ or $XDG_CONFIG_HOME/org-xlatex/).
func GlobalDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", globalDirName)
	}
	return filepath.Join(base, globalDirName)
}

// GlobalConfigFile returns the path to the global config file.
func GlobalConfigFile() string {
	return filepath.Join(GlobalDir(), "config.yaml")
}

// ProjectConfigFile returns the path to the project-local config file.
func ProjectConfigFile(projectRoot string) string {
	return filepath.Join(projectRoot, projectFileName)
}
