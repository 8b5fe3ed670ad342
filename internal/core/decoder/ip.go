package decoder

import (
	"encoding/binary"
	"net/netip"

	"firestige.xyz/tcpcraft/internal/core"
)

const (
	ipv4HeaderMinLen = 20
	ipv6HeaderLen    = 40
)

// decodeIP decodes an IP header (IPv4 or IPv6).
// Returns the header and the remaining bytes.
func decodeIP(data []byte) (core.IPHeader, []byte, error) {
	if len(data) < 1 {
		return core.IPHeader{}, nil, core.ErrPacketTooShort
	}

	// IP version is the top 4 bits of the first byte
	switch data[0] >> 4 {
	case 4:
		return decodeIPv4(data)
	case 6:
		return decodeIPv6(data)
	default:
		return core.IPHeader{}, nil, core.ErrUnsupportedProto
	}
}

// decodeIPv4 decodes an IPv4 header.
func decodeIPv4(data []byte) (core.IPHeader, []byte, error) {
	if len(data) < ipv4HeaderMinLen {
		return core.IPHeader{}, nil, core.ErrPacketTooShort
	}

	// IHL (lower 4 bits of the first byte) is in 32-bit words
	headerLen := int(data[0]&0x0F) * 4
	if headerLen < ipv4HeaderMinLen || len(data) < headerLen {
		return core.IPHeader{}, nil, core.ErrPacketTooShort
	}

	ip := core.IPHeader{
		Version: 4,

		// ECN codepoint is the low 2 bits of the TOS byte
		ECN: core.ECN(data[1] & 0x3),
	}

	// Total Length (2 bytes at offset 2)
	ip.TotalLen = binary.BigEndian.Uint16(data[2:4])

	// TTL (1 byte at offset 8)
	ip.TTL = data[8]

	// Protocol (1 byte at offset 9)
	ip.Protocol = data[9]

	// Source and destination addresses (4 bytes each at offsets 12 and 16)
	addr, ok := netip.AddrFromSlice(data[12:16])
	if !ok {
		return ip, nil, core.ErrPacketTooShort
	}
	ip.SrcIP = addr
	addr, ok = netip.AddrFromSlice(data[16:20])
	if !ok {
		return ip, nil, core.ErrPacketTooShort
	}
	ip.DstIP = addr

	return ip, data[headerLen:], nil
}

// decodeIPv6 decodes an IPv6 header. Extension headers are not modeled; the
// encoder never emits them.
func decodeIPv6(data []byte) (core.IPHeader, []byte, error) {
	if len(data) < ipv6HeaderLen {
		return core.IPHeader{}, nil, core.ErrPacketTooShort
	}

	ip := core.IPHeader{
		Version: 6,

		// ECN codepoint is the low 2 bits of the traffic class, which spans
		// the first two bytes
		ECN: core.ECN((data[1] >> 4) & 0x3),
	}

	// Payload Length (2 bytes at offset 4) excludes the fixed header
	ip.TotalLen = ipv6HeaderLen + binary.BigEndian.Uint16(data[4:6])

	// Next Header (1 byte at offset 6)
	ip.Protocol = data[6]

	// Hop Limit (1 byte at offset 7)
	ip.TTL = data[7]

	// Source and destination addresses (16 bytes each at offsets 8 and 24)
	addr, ok := netip.AddrFromSlice(data[8:24])
	if !ok {
		return ip, nil, core.ErrPacketTooShort
	}
	ip.SrcIP = addr
	addr, ok = netip.AddrFromSlice(data[24:40])
	if !ok {
		return ip, nil, core.ErrPacketTooShort
	}
	ip.DstIP = addr

	return ip, data[ipv6HeaderLen:], nil
}
