// Package core defines core types with zero external dependencies.
package core

import "net/netip"

// Family selects the IP address family of a crafted packet.
type Family uint8

const (
	FamilyIPv4 Family = 4
	FamilyIPv6 Family = 6
)

func (f Family) String() string {
	switch f {
	case FamilyIPv4:
		return "ipv4"
	case FamilyIPv6:
		return "ipv6"
	}
	return "unknown"
}

// Direction tells the downstream injector/verifier which way a packet travels:
// inbound packets are injected toward the system under test, outbound packets
// are expected to be emitted by it.
type Direction uint8

const (
	DirectionInbound Direction = iota
	DirectionOutbound
)

func (d Direction) String() string {
	switch d {
	case DirectionInbound:
		return "inbound"
	case DirectionOutbound:
		return "outbound"
	}
	return "unknown"
}

// ECN is the 2-bit IP-level ECN codepoint (RFC 3168) carried in the IPv4 TOS
// byte or the IPv6 traffic class.
type ECN uint8

const (
	ECNNone ECN = 0 // not ECN-capable
	ECNECT1 ECN = 1 // ECT(1)
	ECNECT0 ECN = 2 // ECT(0)
	ECNCE   ECN = 3 // congestion experienced
)

func (e ECN) String() string {
	switch e {
	case ECNNone:
		return "none"
	case ECNECT1:
		return "ect1"
	case ECNECT0:
		return "ect0"
	case ECNCE:
		return "ce"
	}
	return "unknown"
}

// IP protocol numbers shared by the encoder and decoder.
const (
	ProtocolTCP = 6
	ProtocolUDP = 17
)

// AuxFlags are out-of-band hints attached to a crafted packet. They are never
// part of the wire image; a downstream comparison engine reads them to decide
// which header fields are authoritative and which are "don't care".
type AuxFlags uint16

const (
	// AuxUDPEncapsulated marks a TCP segment wrapped in a UDP datagram.
	AuxUDPEncapsulated AuxFlags = 1 << iota
	// AuxWindowNoCheck tells the verifier not to compare the window field.
	AuxWindowNoCheck
	// AuxOptionsNoCheck tells the verifier not to compare TCP option bytes.
	AuxOptionsNoCheck
	// AuxIgnoreTSVal tells the verifier to ignore the TS val of a TCP timestamp.
	AuxIgnoreTSVal
	// AuxAbsoluteTSEcr marks the TS ecr as absolute rather than relative.
	AuxAbsoluteTSEcr
	// AuxAbsoluteSeq marks sequence numbers as absolute rather than relative.
	AuxAbsoluteSeq
	// AuxIgnoreSeq tells the verifier to ignore sequence numbers entirely.
	AuxIgnoreSeq
)

// Options is an opaque, caller-supplied TCP option blob. The length must be a
// multiple of 4 so the TCP header stays word-aligned. The encoder copies the
// bytes; it never aliases caller memory.
type Options struct {
	Data []byte
}

// NewOptions copies data into a fresh Options value.
func NewOptions(data []byte) *Options {
	return &Options{Data: append([]byte(nil), data...)}
}

// Len returns the option blob length in bytes.
func (o *Options) Len() int {
	if o == nil {
		return 0
	}
	return len(o.Data)
}

// PacketSpec is the symbolic description of one TCP segment. It is consumed
// by a single encoder call and never retained.
type PacketSpec struct {
	Family    Family
	Direction Direction
	ECN       ECN

	// Flags is the symbolic control-bit string, e.g. "S", ".", "FP." or "3".
	// See encoder.ValidateFlags for the grammar.
	Flags string

	StartSeq   uint32
	AckSeq     uint32
	PayloadLen uint16

	// Window is the receive window; -1 means "unspecified" and is only legal
	// for outbound packets.
	Window int32

	// Options is the TCP option blob; nil means "don't care" and raises
	// AuxOptionsNoCheck on the result.
	Options *Options

	// Comparison hints; they only set AuxFlags bits, never header bytes.
	IgnoreTSVal   bool
	AbsoluteTSEcr bool
	AbsoluteSeq   bool
	IgnoreSeq     bool

	// UDP encapsulation ports; encapsulation triggers when either is nonzero.
	UDPSrcPort uint16
	UDPDstPort uint16
}

// Encapsulate reports whether the segment is wrapped in a UDP datagram.
func (s *PacketSpec) Encapsulate() bool {
	return s.UDPSrcPort > 0 || s.UDPDstPort > 0
}

// IPHeader is the decoded view of an IP header (IPv4/IPv6).
type IPHeader struct {
	Version  uint8
	ECN      ECN
	Protocol uint8 // TCP=6, UDP=17
	TTL      uint8
	TotalLen uint16
	SrcIP    netip.Addr
	DstIP    netip.Addr
}

// UDPHeader is the decoded view of a UDP header.
type UDPHeader struct {
	SrcPort uint16
	DstPort uint16
	Length  uint16
}

// TCPHeader is the decoded view of a TCP header, including the AE bit used by
// Accurate ECN.
type TCPHeader struct {
	SrcPort    uint16
	DstPort    uint16
	SeqNum     uint32
	AckNum     uint32
	DataOffset uint8 // header length in 32-bit words
	Window     uint16

	FIN, SYN, RST, PSH, ACK, URG bool
	ECE, CWR, AE                 bool
}

// ACE returns the 3-bit Accurate-ECN codepoint carried in the ECE/CWR/AE bits.
func (h *TCPHeader) ACE() uint8 {
	var ace uint8
	if h.ECE {
		ace |= 1
	}
	if h.CWR {
		ace |= 2
	}
	if h.AE {
		ace |= 4
	}
	return ace
}
