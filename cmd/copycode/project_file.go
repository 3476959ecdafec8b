package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/agusx1211/copycode/internal/ignore"
)

const defaultProfile = "default"

type projectProfile struct {
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// projectFile is the .copycode file kept at the top of a project. Top-level
// rules always apply; the selected profile's rules are appended.
type projectFile struct {
	Include  []string                  `yaml:"include"`
	Exclude  []string                  `yaml:"exclude"`
	Profiles map[string]projectProfile `yaml:"profiles"`
}

type projectRules struct {
	include []string
	exclude []string
	profile string
}

// loadProjectRules reads the .copycode file in dir. A missing file yields no
// rules. An unknown profile falls back to "default"; asking for a profile
// that cannot be satisfied at all is an error.
func loadProjectRules(dir, profile string) (projectRules, error) {
	path := filepath.Join(dir, ignore.ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if profile != "" && profile != defaultProfile {
				return projectRules{}, fmt.Errorf("profile %q requested but %s does not exist", profile, path)
			}
			return projectRules{}, nil
		}
		return projectRules{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg projectFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return projectRules{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	rules := projectRules{
		include: append([]string{}, cfg.Include...),
		exclude: append([]string{}, cfg.Exclude...),
	}
	if profile == "" {
		profile = defaultProfile
	}
	prof, ok := cfg.Profiles[profile]
	switch {
	case ok:
		rules.profile = profile
	case profile != defaultProfile && len(cfg.Profiles) > 0:
		if prof, ok = cfg.Profiles[defaultProfile]; !ok {
			return projectRules{}, fmt.Errorf("profile %q not found in %s and no default profile is defined", profile, path)
		}
		rules.profile = defaultProfile
	case profile != defaultProfile:
		return projectRules{}, fmt.Errorf("profile %q requested but %s defines no profiles", profile, path)
	}
	rules.include = append(rules.include, prof.Include...)
	rules.exclude = append(rules.exclude, prof.Exclude...)
	return rules, nil
}
