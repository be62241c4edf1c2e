package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadScene loads a scene and reports where it came from.
// Search order: customPath -> ~/.termsprite/scene.yaml -> ./configs/scene.yaml -> embedded default
//
// A custom path that cannot be read or parsed is an error; the implicit
// locations are skipped when missing or broken.
func LoadScene(customPath string) (Scene, string, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Scene{}, "", fmt.Errorf("config: failed to read scene %s: %w", customPath, err)
		}
		s, err := ParseScene(data)
		if err != nil {
			return Scene{}, "", fmt.Errorf("config: scene %s: %w", customPath, err)
		}
		return s, customPath, nil
	}

	for _, path := range []string{userConfigPath("scene.yaml"), filepath.Join("configs", "scene.yaml")} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if s, err := ParseScene(data); err == nil {
			return s, path, nil
		}
	}

	s, err := ParseScene(defaultSceneYAML)
	if err != nil {
		return DefaultScene(), "builtin", nil // Fallback to hardcoded if embed fails
	}
	return s, "embedded", nil
}

// ParseScene decodes YAML, fills defaults and validates the result.
func ParseScene(data []byte) (Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scene{}, fmt.Errorf("config: failed to parse scene: %w", err)
	}
	s = s.withDefaults()
	if err := s.Validate(); err != nil {
		return Scene{}, err
	}
	return s, nil
}

// Dir returns ~/.termsprite, or empty if home is unavailable.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".termsprite")
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, filename)
}
