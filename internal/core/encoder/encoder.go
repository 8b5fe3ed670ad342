package encoder

import (
	"encoding/binary"

	"firestige.xyz/tcpcraft/internal/core"
)

// TCP control bits in header byte 13.
const (
	ctlFIN = 0x01
	ctlSYN = 0x02
	ctlRST = 0x04
	ctlPSH = 0x08
	ctlACK = 0x10
	ctlECE = 0x40
	ctlCWR = 0x80

	// The AE bit (Accurate ECN) lives in the low bit of byte 12, next to the
	// data offset nibble.
	ctlAE = 0x01
)

// Validate runs the flag-grammar, layout and window checks for spec without
// allocating anything.
func Validate(spec core.PacketSpec) error {
	if err := ValidateFlags(spec.Flags); err != nil {
		return err
	}
	if _, err := planLayout(spec.Family, spec.Options.Len(), int(spec.PayloadLen), spec.Encapsulate()); err != nil {
		return err
	}
	if spec.Window == -1 && spec.Direction == core.DirectionInbound {
		return core.ErrWindowUnspecified
	}
	return nil
}

// New builds the wire image for one symbolic segment description. It runs
// the flag-grammar validator, then the length planner, then the header
// writer; every failure is reported before the buffer is allocated, so no
// partially built Packet ever escapes.
func New(spec core.PacketSpec) (*core.Packet, error) {
	if err := ValidateFlags(spec.Flags); err != nil {
		return nil, err
	}

	lay, err := planLayout(spec.Family, spec.Options.Len(), int(spec.PayloadLen), spec.Encapsulate())
	if err != nil {
		return nil, err
	}

	// Window policy is family-agnostic, so it can be checked ahead of
	// allocation.
	if spec.Window == -1 && spec.Direction == core.DirectionInbound {
		return nil, core.ErrWindowUnspecified
	}

	pkt := &core.Packet{
		Buf:          make([]byte, lay.totalLen),
		Direction:    spec.Direction,
		ECN:          spec.ECN,
		UDPOffset:    -1,
		TCPOffset:    lay.tcpOffset(),
		TCPHeaderLen: lay.tcpHeaderLen,
		TotalLen:     lay.totalLen,
	}

	protocol := uint8(core.ProtocolTCP)
	if lay.encapsulated() {
		protocol = core.ProtocolUDP
		pkt.Aux |= core.AuxUDPEncapsulated
	}
	writeIPHeader(pkt.Buf[:lay.ipHeaderLen], spec.Family, lay.totalLen, spec.ECN, protocol)

	if lay.encapsulated() {
		pkt.UDPOffset = lay.ipHeaderLen
		writeUDPHeader(pkt.Buf[pkt.UDPOffset:pkt.TCPOffset],
			spec.UDPSrcPort, spec.UDPDstPort,
			lay.udpHeaderLen+lay.tcpHeaderLen+lay.payloadLen)
	}

	writeTCPHeader(pkt.Buf[pkt.TCPOffset:pkt.TCPOffset+lay.tcpHeaderLen], &spec, lay, pkt)

	for _, hint := range []struct {
		set  bool
		flag core.AuxFlags
	}{
		{spec.IgnoreTSVal, core.AuxIgnoreTSVal},
		{spec.AbsoluteTSEcr, core.AuxAbsoluteTSEcr},
		{spec.AbsoluteSeq, core.AuxAbsoluteSeq},
		{spec.IgnoreSeq, core.AuxIgnoreSeq},
	} {
		if hint.set {
			pkt.Aux |= hint.flag
		}
	}

	return pkt, nil
}

// writeTCPHeader populates the fixed TCP header fields, derives the control
// bits from the validated flag string and copies option bytes verbatim.
func writeTCPHeader(tcp []byte, spec *core.PacketSpec, lay layout, pkt *core.Packet) {
	// Source and destination ports stay zero; the injection layer rewrites
	// them to the connection under test.

	// Sequence Number (4 bytes at offset 4)
	binary.BigEndian.PutUint32(tcp[4:8], spec.StartSeq)

	// Acknowledgment Number (4 bytes at offset 8)
	binary.BigEndian.PutUint32(tcp[8:12], spec.AckSeq)

	// Data Offset in 32-bit words, sharing byte 12 with the AE bit
	tcp[12] = byte(lay.tcpHeaderLen/4) << 4

	var ctl byte
	if flagSet(spec.Flags, 'F') {
		ctl |= ctlFIN
	}
	if flagSet(spec.Flags, 'S') {
		ctl |= ctlSYN
	}
	if flagSet(spec.Flags, 'R') {
		ctl |= ctlRST
	}
	if flagSet(spec.Flags, 'P') {
		ctl |= ctlPSH
	}
	if flagSet(spec.Flags, '.') {
		ctl |= ctlACK
	}

	// The three ECN-related bits come either from the ACE numeral's binary
	// expansion or from the legacy letters; the validator guarantees the two
	// flavors never coexist.
	if ace := aceValue(spec.Flags); ace != 0 {
		if ace&1 != 0 {
			ctl |= ctlECE
		}
		if ace&2 != 0 {
			ctl |= ctlCWR
		}
		if ace&4 != 0 {
			tcp[12] |= ctlAE
		}
	} else {
		if flagSet(spec.Flags, 'E') {
			ctl |= ctlECE
		}
		if flagSet(spec.Flags, 'W') {
			ctl |= ctlCWR
		}
		if flagSet(spec.Flags, 'A') {
			tcp[12] |= ctlAE
		}
	}
	tcp[13] = ctl

	// Window (2 bytes at offset 14); -1 leaves the field zero and flags the
	// verifier to skip it
	if spec.Window == -1 {
		pkt.Aux |= core.AuxWindowNoCheck
	} else {
		binary.BigEndian.PutUint16(tcp[14:16], uint16(spec.Window))
	}

	// Checksum and urgent pointer stay zero

	if spec.Options == nil {
		pkt.Aux |= core.AuxOptionsNoCheck
	} else if len(spec.Options.Data) > 0 {
		copy(tcp[tcpHeaderMinLen:], spec.Options.Data)
	}
}
