// Package config is used to load the configuration file
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type ghidra struct {
	Dir  string `json:"dir"`
	Tool string `json:"tool"`
}

type decompile struct {
	Output string `json:"output"`
	Keep   bool   `json:"keep"`
	Theme  string `json:"theme"`
}

// Config is the configuration struct
type Config struct {
	Target    string    `json:"target"`
	Ghidra    ghidra    `json:"ghidra"`
	Decompile decompile `json:"decompile"`
}

func (c *Config) verify() error {
	if c.Ghidra.Dir == "" {
		return fmt.Errorf("config: ghidra.dir must point at a Ghidra install (set it in the config file or via GDECOMP_GHIDRA_DIR)")
	}
	if strings.HasPrefix(c.Ghidra.Dir, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("config: failed to get user home directory: %v", err)
		}
		c.Ghidra.Dir = filepath.Join(home, strings.TrimPrefix(c.Ghidra.Dir, "~"))
	}
	if fi, err := os.Stat(c.Ghidra.Dir); err != nil || !fi.IsDir() {
		return fmt.Errorf("config: ghidra.dir %s is not a directory", c.Ghidra.Dir)
	}
	if c.Ghidra.Tool == "" {
		c.Ghidra.Tool = "ghidrecomp"
	}
	if c.Decompile.Theme == "" {
		c.Decompile.Theme = "github-dark"
	}

	return nil
}

// LoadConfig loads the configuration file
func LoadConfig() (*Config, error) {
	var c *Config

	if err := viper.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %v", err)
	}

	if err := c.verify(); err != nil {
		return nil, err
	}

	return c, nil
}
