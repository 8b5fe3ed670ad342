package cmd

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"firestige.xyz/tcpcraft/internal/core/decoder"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Decode a wire-image file and print its header fields",
	Long: `Inspect reads a wire image (raw bytes, or hex with --hex), decodes
the IP / optional UDP / TCP layers and prints the header fields. This is
an offline decode; no traffic is captured or sent.

Examples:
  tcpcraft inspect packet.bin
  tcpcraft inspect --hex packet.hex`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runInspectCommand(args[0])
	},
}

var inspectHex bool

func init() {
	inspectCmd.Flags().BoolVar(&inspectHex, "hex", false, "input file holds hex text instead of raw bytes")
}

func runInspectCommand(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		exitWithError("failed to read input file", err)
	}
	if inspectHex {
		cleaned := strings.Map(func(r rune) rune {
			if r == ' ' || r == '\n' || r == '\t' || r == '\r' {
				return -1
			}
			return r
		}, string(data))
		data, err = hex.DecodeString(cleaned)
		if err != nil {
			exitWithError("failed to decode hex input", err)
		}
	}

	s, err := decoder.Decode(data)
	if err != nil {
		exitWithError("failed to decode packet", err)
	}

	printSummary(s)
}

func printSummary(s *decoder.Summary) {
	fmt.Printf("IP:  version=%d ecn=%s proto=%d total_len=%d ttl=%d\n",
		s.IP.Version, s.IP.ECN, s.IP.Protocol, s.IP.TotalLen, s.IP.TTL)
	if s.Encapsulated() {
		fmt.Printf("UDP: src=%d dst=%d len=%d\n", s.UDP.SrcPort, s.UDP.DstPort, s.UDP.Length)
	}
	fmt.Printf("TCP: src=%d dst=%d seq=%d ack=%d doff=%d window=%d flags=%s ace=%d\n",
		s.TCP.SrcPort, s.TCP.DstPort, s.TCP.SeqNum, s.TCP.AckNum,
		s.TCP.DataOffset, s.TCP.Window, tcpFlagString(s), s.TCP.ACE())
	if len(s.Options) > 0 {
		fmt.Printf("OPT: %x\n", s.Options)
	}
	fmt.Printf("LEN: options=%d payload=%d\n", len(s.Options), len(s.Payload))
}

func tcpFlagString(s *decoder.Summary) string {
	var b strings.Builder
	for _, f := range []struct {
		set  bool
		name string
	}{
		{s.TCP.FIN, "F"},
		{s.TCP.SYN, "S"},
		{s.TCP.RST, "R"},
		{s.TCP.PSH, "P"},
		{s.TCP.ACK, "."},
		{s.TCP.ECE, "E"},
		{s.TCP.CWR, "W"},
		{s.TCP.AE, "A"},
	} {
		if f.set {
			b.WriteString(f.name)
		}
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}
