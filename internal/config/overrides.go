package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides (TASKLINE_DATA_DIR, ...).
const EnvPrefix = "TASKLINE"

// overrideKeys maps viper keys to the command-line flag that may set them.
var overrideKeys = map[string]string{
	"data_dir":        "data-dir",
	"storage.backend": "backend",
	"scripts.dir":     "scripts-dir",
	"logging.level":   "log-level",
	"logging.file":    "log-file",
}

// NewOverrides returns a viper instance that reads TASKLINE_* variables and,
// when flags is non-nil, any of the known flags the user changed.
func NewOverrides(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags == nil {
		return v, nil
	}
	for key, flag := range overrideKeys {
		f := flags.Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}
	return v, nil
}

// ApplyOverrides copies every override that is explicitly set onto c.
// Flags win over environment variables, which win over the file.
func (c *Config) ApplyOverrides(v *viper.Viper) {
	if v == nil {
		return
	}
	if v.IsSet("data_dir") {
		c.DataDir = v.GetString("data_dir")
	}
	if v.IsSet("storage.backend") {
		c.Storage.Backend = v.GetString("storage.backend")
	}
	if v.IsSet("scripts.dir") {
		c.Scripts.Dir = v.GetString("scripts.dir")
	}
	if v.IsSet("logging.level") {
		c.Logging.Level = v.GetString("logging.level")
	}
	if v.IsSet("logging.file") {
		c.Logging.File = v.GetString("logging.file")
	}
}
