package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/SaxonF/supawatch/internal/adapter"
)

// maxUpwardSearchLevels limits how far up the directory tree to search for
// config files.
const maxUpwardSearchLevels = 10

var configNames = []string{"supawatch.yaml", "supawatch.yml"}

func configIn(dir string) string {
	for _, name := range configNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// findProjectRoot searches upward from startDir for a supawatch config file.
// Returns startDir if none is found within maxUpwardSearchLevels.
func findProjectRoot(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if configIn(dir) != "" {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return startDir
}

// resolveRelativeTo resolves a path against baseDir unless it is empty,
// absolute, or the :memory: sentinel.
func resolveRelativeTo(path, baseDir string) string {
	if path == "" || path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// Load reads configuration from file, environment variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// cfgFile, when non-empty, names an explicit config file; otherwise
// supawatch.yaml is searched upward from the working directory.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"project":     DefaultProjectID,
		"state_path":  DefaultStateFile,
		"specs_dir":   DefaultSpecsDir,
		"verbose":     false,
		"output":      DefaultOutput,
		"server.port": DefaultPort,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	projectRoot, _ := os.Getwd()
	if projectRoot == "" {
		projectRoot = "."
	}
	if cfgFile == "" {
		projectRoot = findProjectRoot(projectRoot)
		cfgFile = configIn(projectRoot)
	} else if abs, err := filepath.Abs(cfgFile); err == nil {
		projectRoot = filepath.Dir(abs)
	}

	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// SUPAWATCH_STATE_PATH -> state_path, SUPAWATCH_SERVER__PORT -> server.port
	if err := k.Load(env.Provider("SUPAWATCH_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "SUPAWATCH_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.StatePath = resolveRelativeTo(cfg.StatePath, projectRoot)
	cfg.SpecsDir = resolveRelativeTo(cfg.SpecsDir, projectRoot)
	if cfg.Target != nil && cfg.Target.Type != adapter.TypePostgres {
		cfg.Target.Database = resolveRelativeTo(cfg.Target.Database, projectRoot)
	}
	return cfg, nil
}
