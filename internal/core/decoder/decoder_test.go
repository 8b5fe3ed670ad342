package decoder

import (
	"bytes"
	"errors"
	"testing"

	"firestige.xyz/tcpcraft/internal/core"
	"firestige.xyz/tcpcraft/internal/core/encoder"
)

func TestDecodeRoundTripIPv4(t *testing.T) {
	opts := core.NewOptions([]byte{2, 4, 0x05, 0xb4})
	pkt, err := encoder.New(core.PacketSpec{
		Family:     core.FamilyIPv4,
		ECN:        core.ECNECT0,
		Flags:      "S.",
		StartSeq:   1000,
		AckSeq:     2000,
		PayloadLen: 16,
		Window:     4096,
		Options:    opts,
	})
	if err != nil {
		t.Fatalf("encoder.New failed: %v", err)
	}

	s, err := Decode(pkt.Buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if s.IP.Version != 4 {
		t.Errorf("Expected version 4, got %d", s.IP.Version)
	}
	if s.IP.ECN != core.ECNECT0 {
		t.Errorf("Expected ECT(0), got %v", s.IP.ECN)
	}
	if s.IP.Protocol != core.ProtocolTCP {
		t.Errorf("Expected protocol 6, got %d", s.IP.Protocol)
	}
	if int(s.IP.TotalLen) != pkt.TotalLen {
		t.Errorf("Expected total length %d, got %d", pkt.TotalLen, s.IP.TotalLen)
	}
	if s.Encapsulated() {
		t.Error("Expected no UDP layer")
	}
	if !s.TCP.SYN || !s.TCP.ACK {
		t.Error("Expected SYN and ACK set")
	}
	if s.TCP.SeqNum != 1000 || s.TCP.AckNum != 2000 {
		t.Errorf("Seq/ack mismatch: %d/%d", s.TCP.SeqNum, s.TCP.AckNum)
	}
	if s.TCP.Window != 4096 {
		t.Errorf("Expected window 4096, got %d", s.TCP.Window)
	}
	if !bytes.Equal(s.Options, opts.Data) {
		t.Errorf("Options mismatch: got %x, want %x", s.Options, opts.Data)
	}
	if len(s.Payload) != 16 {
		t.Errorf("Expected 16 payload bytes, got %d", len(s.Payload))
	}
}

func TestDecodeRoundTripEncapsulated(t *testing.T) {
	pkt, err := encoder.New(core.PacketSpec{
		Family:     core.FamilyIPv6,
		Flags:      ".",
		Window:     1,
		PayloadLen: 3,
		UDPSrcPort: 4500,
		UDPDstPort: 4501,
	})
	if err != nil {
		t.Fatalf("encoder.New failed: %v", err)
	}

	s, err := Decode(pkt.Buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !s.Encapsulated() {
		t.Fatal("Expected UDP layer")
	}
	if s.UDP.SrcPort != 4500 || s.UDP.DstPort != 4501 {
		t.Errorf("UDP ports mismatch: %d/%d", s.UDP.SrcPort, s.UDP.DstPort)
	}
	if s.UDP.Length != 8+20+3 {
		t.Errorf("Expected UDP length 31, got %d", s.UDP.Length)
	}
	if !s.TCP.ACK {
		t.Error("Expected ACK set")
	}
}

func TestDecodeACEBits(t *testing.T) {
	pkt, err := encoder.New(core.PacketSpec{Family: core.FamilyIPv4, Flags: "5", Window: 0})
	if err != nil {
		t.Fatalf("encoder.New failed: %v", err)
	}
	s, err := Decode(pkt.Buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	// ACE 5 = binary 101: ECE and AE set, CWR clear
	if s.TCP.ACE() != 5 {
		t.Errorf("Expected ACE 5, got %d", s.TCP.ACE())
	}
	if !s.TCP.ECE || s.TCP.CWR || !s.TCP.AE {
		t.Errorf("Unexpected bits: ECE=%v CWR=%v AE=%v", s.TCP.ECE, s.TCP.CWR, s.TCP.AE)
	}
}

func TestDecodeTooShort(t *testing.T) {
	short := make([]byte, 19)
	short[0] = 0x45
	for _, data := range [][]byte{nil, {0x45}, short} {
		_, err := Decode(data)
		if !errors.Is(err, core.ErrPacketTooShort) {
			t.Errorf("Expected too-short error for %d bytes, got %v", len(data), err)
		}
	}

	// Valid IP header claiming TCP, but no TCP bytes behind it
	truncated := make([]byte, 20)
	truncated[0] = 0x45
	truncated[9] = core.ProtocolTCP
	_, err := Decode(truncated)
	if !errors.Is(err, core.ErrPacketTooShort) {
		t.Errorf("Expected too-short error, got %v", err)
	}
}

func TestDecodeUnsupportedProtocol(t *testing.T) {
	data := make([]byte, 40)
	data[0] = 0x45
	data[9] = 1 // ICMP
	_, err := Decode(data)
	if !errors.Is(err, core.ErrUnsupportedProto) {
		t.Errorf("Expected unsupported-protocol error, got %v", err)
	}

	data[0] = 0x55 // version 5
	_, err = Decode(data)
	if !errors.Is(err, core.ErrUnsupportedProto) {
		t.Errorf("Expected unsupported-protocol error for version 5, got %v", err)
	}
}

func BenchmarkDecode(b *testing.B) {
	pkt, err := encoder.New(core.PacketSpec{
		Family:     core.FamilyIPv4,
		Flags:      "S.",
		Window:     65535,
		PayloadLen: 512,
	})
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Decode(pkt.Buf); err != nil {
			b.Fatal(err)
		}
	}
}
