package config

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"firestige.xyz/tcpcraft/internal/core"
	"firestige.xyz/tcpcraft/internal/core/encoder"
)

// Scenario is a YAML file describing a list of packets to craft. It is a
// thin harness input, not a test-script language: each entry maps one-to-one
// onto a PacketSpec.
type Scenario struct {
	Packets []PacketEntry `yaml:"packets"`
}

// PacketEntry is one symbolic packet description.
type PacketEntry struct {
	Family     string `yaml:"family"`
	Direction  string `yaml:"direction"`
	ECN        string `yaml:"ecn"`
	Flags      string `yaml:"flags"`
	Seq        uint32 `yaml:"seq"`
	Ack        uint32 `yaml:"ack"`
	PayloadLen uint16 `yaml:"payload_len"`

	// Window left out means "unspecified" (-1), legal only outbound.
	Window *int32 `yaml:"window"`

	UDPSrcPort uint16 `yaml:"udp_src_port"`
	UDPDstPort uint16 `yaml:"udp_dst_port"`

	IgnoreTSVal   bool `yaml:"ignore_ts_val"`
	AbsoluteTSEcr bool `yaml:"abs_ts_ecr"`
	AbsoluteSeq   bool `yaml:"abs_seq"`
	IgnoreSeq     bool `yaml:"ignore_seq"`

	// Options left out means "don't care"; an empty list means "compare and
	// expect no options". Each entry is a kind-tagged map, e.g.
	// {kind: mss, mss: 1460} or {kind: raw, data: "0204ffff"}.
	Options []map[string]interface{} `yaml:"options"`
}

// optionSpec is the decoded form of one option map.
type optionSpec struct {
	Kind   string `mapstructure:"kind"`
	MSS    uint16 `mapstructure:"mss"`
	Shift  uint8  `mapstructure:"shift"`
	Val    uint32 `mapstructure:"val"`
	Ecr    uint32 `mapstructure:"ecr"`
	Cookie string `mapstructure:"cookie"` // hex, for kind "fastopen"
	Data   string `mapstructure:"data"`   // hex, for kind "raw"
}

// LoadScenario reads and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file %s: %w", path, err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario file %s: %w", path, err)
	}
	return &sc, nil
}

// Spec converts the entry into a PacketSpec, resolving enums and building the
// option blob.
func (e *PacketEntry) Spec() (core.PacketSpec, error) {
	family, err := ParseFamily(e.Family)
	if err != nil {
		return core.PacketSpec{}, err
	}
	direction, err := ParseDirection(e.Direction)
	if err != nil {
		return core.PacketSpec{}, err
	}
	ecn, err := ParseECN(e.ECN)
	if err != nil {
		return core.PacketSpec{}, err
	}

	window := int32(-1)
	if e.Window != nil {
		window = *e.Window
	}

	options, err := buildOptions(e.Options)
	if err != nil {
		return core.PacketSpec{}, err
	}

	return core.PacketSpec{
		Family:        family,
		Direction:     direction,
		ECN:           ecn,
		Flags:         e.Flags,
		StartSeq:      e.Seq,
		AckSeq:        e.Ack,
		PayloadLen:    e.PayloadLen,
		Window:        window,
		Options:       options,
		IgnoreTSVal:   e.IgnoreTSVal,
		AbsoluteTSEcr: e.AbsoluteTSEcr,
		AbsoluteSeq:   e.AbsoluteSeq,
		IgnoreSeq:     e.IgnoreSeq,
		UDPSrcPort:    e.UDPSrcPort,
		UDPDstPort:    e.UDPDstPort,
	}, nil
}

// buildOptions assembles the option blob from kind-tagged maps. A nil list
// returns nil ("don't care"); an empty list returns an empty blob.
func buildOptions(specs []map[string]interface{}) (*core.Options, error) {
	if specs == nil {
		return nil, nil
	}

	b := encoder.NewOptionsBuilder()
	for i, m := range specs {
		var spec optionSpec
		if err := mapstructure.Decode(m, &spec); err != nil {
			return nil, fmt.Errorf("%w: option %d: %v", core.ErrConfigInvalid, i, err)
		}
		switch spec.Kind {
		case "nop":
			b.NOP()
		case "mss":
			b.MSS(spec.MSS)
		case "wscale":
			b.WindowScale(spec.Shift)
		case "sack-permitted":
			b.SACKPermitted()
		case "timestamps":
			b.Timestamps(spec.Val, spec.Ecr)
		case "fastopen":
			cookie, err := hex.DecodeString(spec.Cookie)
			if err != nil {
				return nil, fmt.Errorf("%w: option %d: bad hex cookie: %v", core.ErrConfigInvalid, i, err)
			}
			b.FastOpen(cookie)
		case "raw":
			raw, err := hex.DecodeString(spec.Data)
			if err != nil {
				return nil, fmt.Errorf("%w: option %d: bad hex data: %v", core.ErrConfigInvalid, i, err)
			}
			b.Raw(raw)
		default:
			return nil, fmt.Errorf("%w: option %d: unknown kind %q", core.ErrConfigInvalid, i, spec.Kind)
		}
	}
	return b.Build()
}
