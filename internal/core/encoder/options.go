package encoder

import (
	"encoding/binary"
	"fmt"

	"firestige.xyz/tcpcraft/internal/core"
)

// TCP option kinds.
const (
	optKindEOL           = 0
	optKindNOP           = 1
	optKindMSS           = 2
	optKindWindowScale   = 3
	optKindSACKPermitted = 4
	optKindTimestamps    = 8
	optKindFastOpen      = 34

	// maxTCPOptionLen is the option space the 4-bit data offset leaves room for.
	maxTCPOptionLen = maxTCPHeaderLen - tcpHeaderMinLen
)

// OptionsBuilder assembles a TCP option blob. The encoder only accepts blobs
// padded to a multiple of 4, so Build pads the tail with EOL bytes.
type OptionsBuilder struct {
	data []byte
}

// NewOptionsBuilder returns an empty builder.
func NewOptionsBuilder() *OptionsBuilder {
	return &OptionsBuilder{}
}

// NOP appends a one-byte no-operation option, typically used to align the
// following option.
func (b *OptionsBuilder) NOP() *OptionsBuilder {
	b.data = append(b.data, optKindNOP)
	return b
}

// MSS appends a maximum segment size option.
func (b *OptionsBuilder) MSS(mss uint16) *OptionsBuilder {
	var v [2]byte
	binary.BigEndian.PutUint16(v[:], mss)
	b.data = append(b.data, optKindMSS, 4, v[0], v[1])
	return b
}

// WindowScale appends a window scale option with the given shift count.
func (b *OptionsBuilder) WindowScale(shift uint8) *OptionsBuilder {
	b.data = append(b.data, optKindWindowScale, 3, shift)
	return b
}

// SACKPermitted appends a SACK-permitted option.
func (b *OptionsBuilder) SACKPermitted() *OptionsBuilder {
	b.data = append(b.data, optKindSACKPermitted, 2)
	return b
}

// Timestamps appends a timestamps option with the given val and ecr.
func (b *OptionsBuilder) Timestamps(val, ecr uint32) *OptionsBuilder {
	var v [8]byte
	binary.BigEndian.PutUint32(v[0:4], val)
	binary.BigEndian.PutUint32(v[4:8], ecr)
	b.data = append(b.data, optKindTimestamps, 10)
	b.data = append(b.data, v[:]...)
	return b
}

// FastOpen appends a TCP Fast Open option (RFC 7413) carrying the given
// cookie. An empty cookie is a cookie request.
func (b *OptionsBuilder) FastOpen(cookie []byte) *OptionsBuilder {
	b.data = append(b.data, optKindFastOpen, byte(2+len(cookie)))
	b.data = append(b.data, cookie...)
	return b
}

// Raw appends pre-encoded option bytes verbatim.
func (b *OptionsBuilder) Raw(data []byte) *OptionsBuilder {
	b.data = append(b.data, data...)
	return b
}

// Build pads the accumulated options to a 4-byte boundary with EOL bytes and
// returns them as an owned Options value.
func (b *OptionsBuilder) Build() (*core.Options, error) {
	data := append([]byte(nil), b.data...)
	for len(data)&0x3 != 0 {
		data = append(data, optKindEOL)
	}
	if len(data) > maxTCPOptionLen {
		return nil, fmt.Errorf("%w: %d bytes, max %d", core.ErrOptionsTooLong, len(data), maxTCPOptionLen)
	}
	return &core.Options{Data: data}, nil
}
