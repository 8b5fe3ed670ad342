package core

// TCPHeaderMinLen is the fixed TCP header size, before options.
const TCPHeaderMinLen = 20

// Packet is a finished wire image plus the out-of-band metadata the
// injector/verifier needs. Buf is sized exactly to the datagram and is never
// reallocated after construction; the header views below are offsets into it.
type Packet struct {
	// Buf holds the complete datagram, IP header first.
	Buf []byte

	Direction Direction
	ECN       ECN
	Aux       AuxFlags

	// Header offsets within Buf. UDPOffset is -1 when not encapsulated.
	IPOffset  int
	UDPOffset int
	TCPOffset int

	// TCPHeaderLen is the full TCP header length including options.
	TCPHeaderLen int

	// TotalLen is the datagram length; always equal to len(Buf).
	TotalLen int
}

// Encapsulated reports whether the segment is wrapped in a UDP datagram.
func (p *Packet) Encapsulated() bool {
	return p.Aux&AuxUDPEncapsulated != 0
}

// IP returns the IP header bytes.
func (p *Packet) IP() []byte {
	end := p.TCPOffset
	if p.Encapsulated() {
		end = p.UDPOffset
	}
	return p.Buf[p.IPOffset:end]
}

// UDP returns the UDP header bytes, or nil when not encapsulated.
func (p *Packet) UDP() []byte {
	if !p.Encapsulated() {
		return nil
	}
	return p.Buf[p.UDPOffset:p.TCPOffset]
}

// TCP returns the TCP header bytes including options.
func (p *Packet) TCP() []byte {
	return p.Buf[p.TCPOffset : p.TCPOffset+p.TCPHeaderLen]
}

// TCPOptions returns the option bytes following the fixed TCP header fields.
func (p *Packet) TCPOptions() []byte {
	return p.Buf[p.TCPOffset+TCPHeaderMinLen : p.TCPOffset+p.TCPHeaderLen]
}

// Payload returns the TCP payload bytes.
func (p *Packet) Payload() []byte {
	return p.Buf[p.TCPOffset+p.TCPHeaderLen:]
}
