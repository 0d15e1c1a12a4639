package main

import (
	"bytes"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// RomRegion describes one read-only region to map in before a run, loaded
// from a flat binary file.
type RomRegion struct {
	File string `mapstructure:"file"`
	Lo   uint16 `mapstructure:"lo"`
	Hi   uint16 `mapstructure:"hi"`
}

// RunConfig is the optional memory-map/run-profile file "emu502 run" will
// merge on top of its defaults: marshal the defaults, merge them in
// first, then merge the user's file on top.
type RunConfig struct {
	Origin      uint16     `mapstructure:"origin" yaml:"origin"`
	DecimalMode bool       `mapstructure:"decimal_mode" yaml:"decimal_mode"`
	StrictStack bool       `mapstructure:"strict_stack" yaml:"strict_stack"`
	ClockHz     float64    `mapstructure:"clock_hz" yaml:"clock_hz"`
	TimeoutMS   int        `mapstructure:"timeout_ms" yaml:"timeout_ms"`
	Rom         *RomRegion `mapstructure:"rom" yaml:"rom"`
}

// DefaultRunConfig mirrors a bare 64KiB RAM machine with no pacing: the
// configuration a run needs nothing extra to execute a freshly assembled
// program.
func DefaultRunConfig() *RunConfig {
	return &RunConfig{
		Origin:      0x0200,
		DecimalMode: true,
		StrictStack: false,
		ClockHz:     0,
		TimeoutMS:   1000,
		Rom:         nil,
	}
}

// LoadRunConfig reads cfgFile (if non-empty and present) on top of
// DefaultRunConfig, via viper: defaults merged first so viper knows every
// key exists, then the file merged over them.
func LoadRunConfig(cfgFile string) (*RunConfig, error) {
	v := viper.New()
	cfg := DefaultRunConfig()

	def, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	v.SetConfigType("yaml")
	if err := v.MergeConfig(bytes.NewReader(def)); err != nil {
		return nil, err
	}

	if cfgFile != "" {
		if fi, err := os.Stat(cfgFile); err == nil && !fi.IsDir() {
			v.SetConfigFile(cfgFile)
			if err := v.MergeInConfig(); err != nil {
				return nil, err
			}
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
