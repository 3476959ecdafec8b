package main

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/agusx1211/copycode/internal/ignore"
)

type outputMode string

const (
	outputPrint   outputMode = "print"
	outputCopy    outputMode = "copy"
	outputSSHCopy outputMode = "ssh-copy"
)

func parseOutputMode(raw string) (outputMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "print", "stdout":
		return outputPrint, nil
	case "copy", "clipboard":
		return outputCopy, nil
	case "ssh-copy", "sshcopy", "ssh", "osc52":
		return outputSSHCopy, nil
	default:
		return "", fmt.Errorf("invalid output mode %q (expected print, copy, or ssh-copy)", raw)
	}
}

// selectOutputMode applies the explicit flags over fallback. At most one flag
// may be set.
func selectOutputMode(fallback outputMode, printFlag, copyFlag, sshFlag bool) (outputMode, error) {
	var chosen []outputMode
	if printFlag {
		chosen = append(chosen, outputPrint)
	}
	if copyFlag {
		chosen = append(chosen, outputCopy)
	}
	if sshFlag {
		chosen = append(chosen, outputSSHCopy)
	}
	switch len(chosen) {
	case 0:
		if fallback == "" {
			return outputPrint, nil
		}
		return fallback, nil
	case 1:
		return chosen[0], nil
	default:
		return "", errors.New("only one of --print, --copy, or --ssh-copy may be set")
	}
}

type homeSettings struct {
	Output string `yaml:"output"`
}

func homeSettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ignore.ConfigFileName), nil
}

// readDefaultOutput returns the output mode stored in path, or "" when the
// file or the key is absent.
func readDefaultOutput(path string) (outputMode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return "", nil
	}
	var settings homeSettings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if settings.Output == "" {
		return "", nil
	}
	mode, err := parseOutputMode(settings.Output)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return mode, nil
}

// writeDefaultOutput stores mode under the "output" key of path. Other keys,
// their order and comments are preserved, as is the file's permission.
func writeDefaultOutput(path string, mode outputMode) error {
	var doc yaml.Node
	perm := fs.FileMode(0o644)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if len(bytes.TrimSpace(data)) > 0 {
			if err := yaml.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("failed to parse %s: %w", path, err)
			}
		}
		if info, err := os.Stat(path); err == nil {
			perm = info.Mode().Perm()
		}
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}

	if doc.Kind == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return fmt.Errorf("failed to update %s: top level is not a mapping", path)
	}
	setMappingValue(mapping, "output", string(mode))

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return os.WriteFile(path, out, perm)
}

func setMappingValue(mapping *yaml.Node, key, value string) {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			mapping.Content[i+1] = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
			return
		}
	}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value},
	)
}
