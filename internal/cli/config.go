package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
)

// defaultConfigFile is read from the working directory when --config is not
// given. A missing default file is not an error.
const defaultConfigFile = "msaflow.toml"

// fileConfig mirrors msaflow.toml:
//
//	[run]
//	iterations = 500
//	output = "./results"
//	formats = ["text", "svg"]
//
//	[serve]
//	addr = ":9090"
//	mongo_uri = "mongodb://localhost:27017"
//	redis_addr = "localhost:6379"
type fileConfig struct {
	Run struct {
		Iterations int      `toml:"iterations"`
		Output     string   `toml:"output"`
		Formats    []string `toml:"formats"`
		Trace      bool     `toml:"trace"`
		Detailed   bool     `toml:"detailed"`
		NoCache    bool     `toml:"no_cache"`
	} `toml:"run"`

	Serve struct {
		Addr          string `toml:"addr"`
		MongoURI      string `toml:"mongo_uri"`
		MongoDatabase string `toml:"mongo_database"`
		RedisAddr     string `toml:"redis_addr"`
		RedisPassword string `toml:"redis_password"`
		RedisDB       int    `toml:"redis_db"`
		NoCache       bool   `toml:"no_cache"`
	} `toml:"serve"`
}

// loadConfig reads path, or defaultConfigFile when path is empty. Unknown
// keys are rejected so typos do not silently fall back to defaults.
func loadConfig(path string) (*fileConfig, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	var cfg fileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return &cfg, nil
}

// Helpers that copy a config value into a flag target unless the flag was
// set on the command line, so flags always win.

func overrideString(flags *pflag.FlagSet, name string, dst *string, v string) {
	if v != "" && !flags.Changed(name) {
		*dst = v
	}
}

func overrideInt(flags *pflag.FlagSet, name string, dst *int, v int) {
	if v != 0 && !flags.Changed(name) {
		*dst = v
	}
}

func overrideBool(flags *pflag.FlagSet, name string, dst *bool, v bool) {
	if v && !flags.Changed(name) {
		*dst = v
	}
}
