package encoder

import (
	"encoding/binary"

	"firestige.xyz/tcpcraft/internal/core"
)

// defaultTTL is stamped into the TTL / hop-limit field; the injection layer
// may rewrite it.
const defaultTTL = 255

// writeIPHeader lays down a minimal IPv4 or IPv6 header covering totalLen
// bytes. Source and destination addresses and the IPv4 checksum stay zero;
// they are filled in by the downstream injection layer.
func writeIPHeader(buf []byte, family core.Family, totalLen int, ecn core.ECN, protocol uint8) {
	if family == core.FamilyIPv6 {
		writeIPv6Header(buf, totalLen, ecn, protocol)
		return
	}
	writeIPv4Header(buf, totalLen, ecn, protocol)
}

func writeIPv4Header(buf []byte, totalLen int, ecn core.ECN, protocol uint8) {
	// Version 4, IHL 5 (no IP options)
	buf[0] = 0x45

	// TOS: DSCP zero, ECN codepoint in the low two bits
	buf[1] = byte(ecn) & 0x3

	// Total Length (2 bytes at offset 2). The planner admits exactly 64KiB,
	// which the 16-bit field wraps to 0.
	binary.BigEndian.PutUint16(buf[2:4], uint16(totalLen))

	// Identification, flags and fragment offset stay zero

	// TTL (1 byte at offset 8)
	buf[8] = defaultTTL

	// Protocol (1 byte at offset 9)
	buf[9] = protocol

	// Header checksum and addresses stay zero, filled downstream
}

func writeIPv6Header(buf []byte, totalLen int, ecn core.ECN, protocol uint8) {
	// Version 6; traffic class spans the low nibble of byte 0 and the high
	// nibble of byte 1, with the ECN codepoint in its low two bits.
	buf[0] = 0x60
	buf[1] = (byte(ecn) & 0x3) << 4

	// Payload Length (2 bytes at offset 4) excludes the fixed header
	binary.BigEndian.PutUint16(buf[4:6], uint16(totalLen-ipv6HeaderLen))

	// Next Header (1 byte at offset 6)
	buf[6] = protocol

	// Hop Limit (1 byte at offset 7)
	buf[7] = defaultTTL

	// Addresses stay zero, filled downstream
}

// writeUDPHeader lays down a UDP header whose length field covers the UDP
// header plus everything after it. The checksum stays zero; it is computed by
// a later collaborator.
func writeUDPHeader(buf []byte, srcPort, dstPort uint16, length int) {
	binary.BigEndian.PutUint16(buf[0:2], srcPort)
	binary.BigEndian.PutUint16(buf[2:4], dstPort)
	binary.BigEndian.PutUint16(buf[4:6], uint16(length))
}
