// Package config handles configuration loading using viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"firestige.xyz/tcpcraft/internal/core"
	"firestige.xyz/tcpcraft/internal/log"
)

// GlobalConfig is the top-level static configuration.
// Maps to the `tcpcraft:` root key in YAML.
type GlobalConfig struct {
	Log   log.Config  `mapstructure:"log"`
	Craft CraftConfig `mapstructure:"craft"`
}

// CraftConfig carries defaults applied to packets whose scenario entry or
// CLI invocation leaves a field out.
type CraftConfig struct {
	Family        string `mapstructure:"family"`         // ipv4 | ipv6
	DefaultWindow int32  `mapstructure:"default_window"` // applied when a scenario entry omits the window
	Output        string `mapstructure:"output"`         // hex | bin
}

type configRoot struct {
	TCPCraft GlobalConfig `mapstructure:"tcpcraft"`
}

// Default returns the configuration used when no config file is given.
func Default() *GlobalConfig {
	return &GlobalConfig{
		Log: log.Config{Level: "info"},
		Craft: CraftConfig{
			Family:        "ipv4",
			DefaultWindow: 65535,
			Output:        "hex",
		},
	}
}

// Load loads configuration from file. The YAML file uses `tcpcraft:` as root
// key; env vars override via the key replacer (e.g. key "tcpcraft.log.level"
// → env "TCPCRAFT_LOG_LEVEL").
func Load(path string) (*GlobalConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg := root.TCPCraft

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets default values. All keys use the "tcpcraft." prefix to
// match the YAML root wrapper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("tcpcraft.log.level", "info")
	v.SetDefault("tcpcraft.craft.family", "ipv4")
	v.SetDefault("tcpcraft.craft.default_window", 65535)
	v.SetDefault("tcpcraft.craft.output", "hex")
}

// Validate rejects values the rest of the tool cannot act on.
func (cfg *GlobalConfig) Validate() error {
	if _, err := ParseFamily(cfg.Craft.Family); err != nil {
		return err
	}
	switch cfg.Craft.Output {
	case "hex", "bin":
	default:
		return fmt.Errorf("%w: output must be hex or bin, got %q", core.ErrConfigInvalid, cfg.Craft.Output)
	}
	if cfg.Craft.DefaultWindow < -1 || cfg.Craft.DefaultWindow > 65535 {
		return fmt.Errorf("%w: default_window out of range: %d", core.ErrConfigInvalid, cfg.Craft.DefaultWindow)
	}
	return nil
}

// ParseFamily maps a family name to its core enum.
func ParseFamily(s string) (core.Family, error) {
	switch strings.ToLower(s) {
	case "", "ipv4", "v4", "4":
		return core.FamilyIPv4, nil
	case "ipv6", "v6", "6":
		return core.FamilyIPv6, nil
	}
	return 0, fmt.Errorf("%w: unknown address family %q", core.ErrConfigInvalid, s)
}

// ParseDirection maps a direction name to its core enum.
func ParseDirection(s string) (core.Direction, error) {
	switch strings.ToLower(s) {
	case "", "inbound", "in":
		return core.DirectionInbound, nil
	case "outbound", "out":
		return core.DirectionOutbound, nil
	}
	return 0, fmt.Errorf("%w: unknown direction %q", core.ErrConfigInvalid, s)
}

// ParseECN maps an ECN codepoint name to its core enum.
func ParseECN(s string) (core.ECN, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return core.ECNNone, nil
	case "ect1":
		return core.ECNECT1, nil
	case "ect0":
		return core.ECNECT0, nil
	case "ce":
		return core.ECNCE, nil
	}
	return 0, fmt.Errorf("%w: unknown ECN codepoint %q", core.ErrConfigInvalid, s)
}
