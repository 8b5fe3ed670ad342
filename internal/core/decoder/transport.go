package decoder

import (
	"encoding/binary"

	"firestige.xyz/tcpcraft/internal/core"
)

const (
	udpHeaderLen    = 8
	tcpHeaderMinLen = core.TCPHeaderMinLen
)

// decodeUDP decodes a UDP header.
// Returns the header and the remaining bytes.
func decodeUDP(data []byte) (core.UDPHeader, []byte, error) {
	if len(data) < udpHeaderLen {
		return core.UDPHeader{}, nil, core.ErrPacketTooShort
	}

	udp := core.UDPHeader{
		// Source Port (2 bytes at offset 0)
		SrcPort: binary.BigEndian.Uint16(data[0:2]),

		// Destination Port (2 bytes at offset 2)
		DstPort: binary.BigEndian.Uint16(data[2:4]),

		// Length (2 bytes at offset 4) covers header and data
		Length: binary.BigEndian.Uint16(data[4:6]),
	}

	return udp, data[udpHeaderLen:], nil
}

// decodeTCP decodes a TCP header including the AE bit used by Accurate ECN.
// Returns the header, the option bytes and the payload.
func decodeTCP(data []byte) (core.TCPHeader, []byte, []byte, error) {
	if len(data) < tcpHeaderMinLen {
		return core.TCPHeader{}, nil, nil, core.ErrPacketTooShort
	}

	tcp := core.TCPHeader{
		SrcPort: binary.BigEndian.Uint16(data[0:2]),
		DstPort: binary.BigEndian.Uint16(data[2:4]),
		SeqNum:  binary.BigEndian.Uint32(data[4:8]),
		AckNum:  binary.BigEndian.Uint32(data[8:12]),
		Window:  binary.BigEndian.Uint16(data[14:16]),
	}

	// Data Offset (upper 4 bits of byte 12) is in 32-bit words
	tcp.DataOffset = data[12] >> 4
	headerLen := int(tcp.DataOffset) * 4
	if headerLen < tcpHeaderMinLen || len(data) < headerLen {
		return tcp, nil, nil, core.ErrPacketTooShort
	}

	// AE sits in the low bit of byte 12, the control bits in byte 13
	tcp.AE = data[12]&0x01 != 0
	ctl := data[13]
	tcp.FIN = ctl&0x01 != 0
	tcp.SYN = ctl&0x02 != 0
	tcp.RST = ctl&0x04 != 0
	tcp.PSH = ctl&0x08 != 0
	tcp.ACK = ctl&0x10 != 0
	tcp.URG = ctl&0x20 != 0
	tcp.ECE = ctl&0x40 != 0
	tcp.CWR = ctl&0x80 != 0

	return tcp, data[tcpHeaderMinLen:headerLen], data[headerLen:], nil
}
