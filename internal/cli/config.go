package cli

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/seqsee/internal/server"
	"github.com/matzehuels/seqsee/pkg/errors"
)

const configFileName = "config.toml"

// Config is the optional TOML config file. Command-line flags override it.
//
//	[render]
//	formats = ["html", "svg"]
//	no_grid = false
//
//	[cache]
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
type Config struct {
	Render RenderConfig  `toml:"render"`
	Cache  CacheConfig   `toml:"cache"`
	Server server.Config `toml:"server"`
}

// RenderConfig holds defaults for render and layout.
type RenderConfig struct {
	Formats  []string `toml:"formats"`
	NoGrid   bool     `toml:"no_grid"`
	NoLabels bool     `toml:"no_labels"`
	Workers  int      `toml:"workers"`
}

// CacheConfig selects the CLI cache. Without a backend the per-user file
// cache is used.
type CacheConfig struct {
	Disabled bool   `toml:"disabled"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	MongoURI string `toml:"mongo_uri"`
}

// loadConfig reads the config file at path. With an empty path the default
// location is tried and a missing file yields an empty config; a missing
// explicit path is an error. Unknown keys are rejected.
func loadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return &Config{}, nil
		}
		path = filepath.Join(dir, configFileName)
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		if explicit {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s does not exist", path)
		}
		return &Config{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "config file %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidInput, "config file %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return &cfg, nil
}
