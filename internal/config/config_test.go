package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/tcpcraft/internal/core"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeTempConfig(t, `
tcpcraft:
  log:
    level: debug
  craft:
    family: ipv6
    default_window: 1024
    output: bin
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "ipv6", cfg.Craft.Family)
	assert.Equal(t, int32(1024), cfg.Craft.DefaultWindow)
	assert.Equal(t, "bin", cfg.Craft.Output)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeTempConfig(t, "tcpcraft: {}\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "ipv4", cfg.Craft.Family)
	assert.Equal(t, int32(65535), cfg.Craft.DefaultWindow)
	assert.Equal(t, "hex", cfg.Craft.Output)
}

func TestLoadConfigInvalidOutput(t *testing.T) {
	path := writeTempConfig(t, `
tcpcraft:
  craft:
    output: pcap
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrConfigInvalid)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.Error(t, err)
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestParseFamily(t *testing.T) {
	f, err := ParseFamily("ipv4")
	require.NoError(t, err)
	assert.Equal(t, core.FamilyIPv4, f)

	f, err = ParseFamily("v6")
	require.NoError(t, err)
	assert.Equal(t, core.FamilyIPv6, f)

	_, err = ParseFamily("ipx")
	assert.ErrorIs(t, err, core.ErrConfigInvalid)
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("outbound")
	require.NoError(t, err)
	assert.Equal(t, core.DirectionOutbound, d)

	d, err = ParseDirection("")
	require.NoError(t, err)
	assert.Equal(t, core.DirectionInbound, d)

	_, err = ParseDirection("sideways")
	assert.ErrorIs(t, err, core.ErrConfigInvalid)
}

func TestParseECN(t *testing.T) {
	e, err := ParseECN("ce")
	require.NoError(t, err)
	assert.Equal(t, core.ECNCE, e)

	e, err = ParseECN("")
	require.NoError(t, err)
	assert.Equal(t, core.ECNNone, e)

	_, err = ParseECN("ect2")
	assert.ErrorIs(t, err, core.ErrConfigInvalid)
}
