// Package decoder parses wire images back into header structs. It is the
// offline counterpart of the encoder, used by the inspect command and by
// round-trip tests; it never touches the network.
package decoder

import (
	"firestige.xyz/tcpcraft/internal/core"
)

// Summary is the layered view of one decoded datagram.
type Summary struct {
	IP  core.IPHeader
	UDP *core.UDPHeader // nil unless the segment is UDP-encapsulated
	TCP core.TCPHeader

	// Options are the TCP option bytes; Payload is everything after the TCP
	// header. Both alias the input buffer.
	Options []byte
	Payload []byte
}

// Encapsulated reports whether the datagram carried TCP inside UDP.
func (s *Summary) Encapsulated() bool {
	return s.UDP != nil
}

// Decode parses a datagram starting at the IP header. A TCP segment may
// optionally be wrapped in a UDP datagram; anything else fails with an
// unsupported-protocol error.
func Decode(data []byte) (*Summary, error) {
	ip, rest, err := decodeIP(data)
	if err != nil {
		return nil, err
	}

	s := &Summary{IP: ip}

	if ip.Protocol == core.ProtocolUDP {
		udp, inner, err := decodeUDP(rest)
		if err != nil {
			return nil, err
		}
		s.UDP = &udp
		rest = inner
	} else if ip.Protocol != core.ProtocolTCP {
		return nil, core.ErrUnsupportedProto
	}

	tcp, options, payload, err := decodeTCP(rest)
	if err != nil {
		return nil, err
	}
	s.TCP = tcp
	s.Options = options
	s.Payload = payload
	return s, nil
}
