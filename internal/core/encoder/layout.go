package encoder

import (
	"fmt"

	"firestige.xyz/tcpcraft/internal/core"
)

const (
	ipv4HeaderLen   = 20
	ipv6HeaderLen   = 40
	udpHeaderLen    = 8
	tcpHeaderMinLen = core.TCPHeaderMinLen

	// maxTCPHeaderLen is the fixed TCP header plus the 40 option bytes the
	// 4-bit data offset can express.
	maxTCPHeaderLen = 60

	// maxTCPDatagramLen caps the whole datagram.
	maxTCPDatagramLen = 64 * 1024
)

// layout holds every planned byte length of a datagram. It is computed and
// fully validated before any buffer is allocated.
type layout struct {
	ipHeaderLen  int
	udpHeaderLen int // 0 when not encapsulated
	tcpHeaderLen int // fixed header plus options
	payloadLen   int
	totalLen     int
}

func (l layout) encapsulated() bool {
	return l.udpHeaderLen > 0
}

// tcpOffset is the byte offset of the TCP header within the datagram.
func (l layout) tcpOffset() int {
	return l.ipHeaderLen + l.udpHeaderLen
}

// planLayout computes all header lengths and the total datagram size, or
// fails before any allocation. The first failing check short-circuits.
func planLayout(family core.Family, optionLen, payloadLen int, encapsulate bool) (layout, error) {
	if optionLen&0x3 != 0 {
		return layout{}, fmt.Errorf("%w: %d excess bytes", core.ErrOptionsNotPadded, optionLen&0x3)
	}

	l := layout{
		tcpHeaderLen: tcpHeaderMinLen + optionLen,
		payloadLen:   payloadLen,
	}
	switch family {
	case core.FamilyIPv6:
		l.ipHeaderLen = ipv6HeaderLen
	default:
		l.ipHeaderLen = ipv4HeaderLen
	}

	// Given the padding check above, both headers are multiples of 4 by
	// construction; a violation here is a programming error.
	if l.tcpHeaderLen&0x3 != 0 || l.ipHeaderLen&0x3 != 0 {
		panic("encoder: header length not a multiple of 4")
	}

	if l.tcpHeaderLen > maxTCPHeaderLen {
		return layout{}, core.ErrHeaderTooLarge
	}

	l.totalLen = l.ipHeaderLen + l.tcpHeaderLen + l.payloadLen
	if encapsulate {
		l.udpHeaderLen = udpHeaderLen
		l.totalLen += udpHeaderLen
	}
	if l.totalLen > maxTCPDatagramLen {
		return layout{}, core.ErrSegmentTooLarge
	}
	return l, nil
}
