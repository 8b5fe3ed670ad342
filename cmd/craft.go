package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/spf13/cobra"

	"firestige.xyz/tcpcraft/internal/config"
	"firestige.xyz/tcpcraft/internal/core"
	"firestige.xyz/tcpcraft/internal/core/encoder"
	"firestige.xyz/tcpcraft/internal/log"
)

var craftCmd = &cobra.Command{
	Use:   "craft",
	Short: "Craft TCP segment wire images",
	Long: `Craft one packet from command-line flags, or a batch from a scenario
YAML file. Hex dumps go to stdout; with "output: bin" in the config the
raw bytes are written instead (use --out to redirect to a file).

Examples:
  tcpcraft craft --flags S --seq 100 --window 65535
  tcpcraft craft --flags . --ecn ce --udp-dst 4789
  tcpcraft craft -f scenario.yaml --out packets.bin`,
	Run: func(cmd *cobra.Command, args []string) {
		runCraftCommand(cmd)
	},
}

var (
	craftScenarioFile string
	craftOutFile      string

	craftFamily     string
	craftDirection  string
	craftECN        string
	craftFlags      string
	craftSeq        uint32
	craftAck        uint32
	craftPayloadLen uint16
	craftWindow     int32
	craftOptionsHex string
	craftUDPSrc     uint16
	craftUDPDst     uint16

	craftIgnoreTSVal bool
	craftAbsTSEcr    bool
	craftAbsSeq      bool
	craftIgnoreSeq   bool
)

func init() {
	addCraftFlags(craftCmd)
	craftCmd.Flags().StringVarP(&craftOutFile, "out", "o", "",
		"output file (default stdout)")
}

// addCraftFlags registers the packet-description flags. The check command
// shares them so a failing craft invocation can be re-run verbatim under
// check.
func addCraftFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&craftScenarioFile, "file", "f", "",
		"scenario YAML file (overrides the single-packet flags)")

	cmd.Flags().StringVar(&craftFamily, "family", "", "address family: ipv4 or ipv6")
	cmd.Flags().StringVar(&craftDirection, "dir", "inbound", "direction: inbound or outbound")
	cmd.Flags().StringVar(&craftECN, "ecn", "none", "IP ECN codepoint: none, ect0, ect1 or ce")
	cmd.Flags().StringVar(&craftFlags, "flags", "", "symbolic TCP flag string, e.g. S, ., FP. or 3")
	cmd.Flags().Uint32Var(&craftSeq, "seq", 0, "start sequence number")
	cmd.Flags().Uint32Var(&craftAck, "ack", 0, "acknowledgment number")
	cmd.Flags().Uint16Var(&craftPayloadLen, "payload-len", 0, "TCP payload length in bytes")
	cmd.Flags().Int32Var(&craftWindow, "window", -2, "receive window; -1 = unspecified (outbound only)")
	cmd.Flags().StringVar(&craftOptionsHex, "options", "", "TCP option bytes as hex (omit for don't-care)")
	cmd.Flags().Uint16Var(&craftUDPSrc, "udp-src", 0, "UDP encapsulation source port (0 = none)")
	cmd.Flags().Uint16Var(&craftUDPDst, "udp-dst", 0, "UDP encapsulation destination port (0 = none)")

	cmd.Flags().BoolVar(&craftIgnoreTSVal, "ignore-ts-val", false, "verifier hint: ignore timestamp val")
	cmd.Flags().BoolVar(&craftAbsTSEcr, "abs-ts-ecr", false, "verifier hint: timestamp ecr is absolute")
	cmd.Flags().BoolVar(&craftAbsSeq, "abs-seq", false, "verifier hint: sequence numbers are absolute")
	cmd.Flags().BoolVar(&craftIgnoreSeq, "ignore-seq", false, "verifier hint: ignore sequence numbers")
}

func runCraftCommand(cmd *cobra.Command) {
	cfg, err := loadConfig()
	if err != nil {
		exitWithError("failed to load config", err)
	}

	specs, err := collectSpecs(cmd, cfg)
	if err != nil {
		exitWithError("failed to build packet spec", err)
	}

	out := io.Writer(os.Stdout)
	if craftOutFile != "" {
		f, err := os.Create(craftOutFile)
		if err != nil {
			exitWithError("failed to create output file", err)
		}
		defer f.Close()
		out = f
	}

	logger := log.GetLogger()
	for i, spec := range specs {
		pkt, err := encoder.New(spec)
		if err != nil {
			exitWithError(fmt.Sprintf("packet %d", i), err)
		}
		logger.WithFields(map[string]interface{}{
			"index":     i,
			"len":       pkt.TotalLen,
			"direction": pkt.Direction.String(),
			"aux":       fmt.Sprintf("%#x", uint16(pkt.Aux)),
		}).Info("packet crafted")
		if logger.IsDebugEnabled() {
			logger.Debug(summarize(pkt))
		}
		if err := writePacket(out, pkt, cfg.Craft.Output); err != nil {
			exitWithError("failed to write packet", err)
		}
	}
}

// collectSpecs builds the list of packet specs from the scenario file or the
// single-packet flags.
func collectSpecs(cmd *cobra.Command, cfg *config.GlobalConfig) ([]core.PacketSpec, error) {
	if craftScenarioFile != "" {
		sc, err := config.LoadScenario(craftScenarioFile)
		if err != nil {
			return nil, err
		}
		specs := make([]core.PacketSpec, 0, len(sc.Packets))
		for i, entry := range sc.Packets {
			spec, err := entry.Spec()
			if err != nil {
				return nil, fmt.Errorf("packet %d: %w", i, err)
			}
			specs = append(specs, spec)
		}
		return specs, nil
	}

	spec, err := specFromFlags(cmd, cfg)
	if err != nil {
		return nil, err
	}
	return []core.PacketSpec{spec}, nil
}

// specFromFlags assembles one PacketSpec from the craft command flags,
// falling back to craft defaults from the configuration.
func specFromFlags(cmd *cobra.Command, cfg *config.GlobalConfig) (core.PacketSpec, error) {
	familyName := craftFamily
	if familyName == "" {
		familyName = cfg.Craft.Family
	}
	family, err := config.ParseFamily(familyName)
	if err != nil {
		return core.PacketSpec{}, err
	}
	direction, err := config.ParseDirection(craftDirection)
	if err != nil {
		return core.PacketSpec{}, err
	}
	ecn, err := config.ParseECN(craftECN)
	if err != nil {
		return core.PacketSpec{}, err
	}

	window := craftWindow
	if window == -2 { // flag left at its "unset" default
		window = cfg.Craft.DefaultWindow
	}

	var options *core.Options
	if cmd.Flags().Changed("options") {
		raw, err := hex.DecodeString(craftOptionsHex)
		if err != nil {
			return core.PacketSpec{}, fmt.Errorf("bad options hex: %w", err)
		}
		options = core.NewOptions(raw)
	}

	return core.PacketSpec{
		Family:        family,
		Direction:     direction,
		ECN:           ecn,
		Flags:         craftFlags,
		StartSeq:      craftSeq,
		AckSeq:        craftAck,
		PayloadLen:    craftPayloadLen,
		Window:        window,
		Options:       options,
		IgnoreTSVal:   craftIgnoreTSVal,
		AbsoluteTSEcr: craftAbsTSEcr,
		AbsoluteSeq:   craftAbsSeq,
		IgnoreSeq:     craftIgnoreSeq,
		UDPSrcPort:    craftUDPSrc,
		UDPDstPort:    craftUDPDst,
	}, nil
}

// writePacket emits one wire image in the configured output format.
func writePacket(w io.Writer, pkt *core.Packet, format string) error {
	if format == "bin" {
		_, err := w.Write(pkt.Buf)
		return err
	}
	_, err := fmt.Fprint(w, hex.Dump(pkt.Buf))
	return err
}

// summarize renders a decoded view of the wire image via gopacket.
func summarize(pkt *core.Packet) string {
	first := layers.LayerTypeIPv4
	if len(pkt.Buf) > 0 && pkt.Buf[0]>>4 == 6 {
		first = layers.LayerTypeIPv6
	}
	return gopacket.NewPacket(pkt.Buf, first, gopacket.Default).String()
}
