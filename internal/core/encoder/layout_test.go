package encoder

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"firestige.xyz/tcpcraft/internal/core"
)

func TestPlanLayoutOptionsNotPadded(t *testing.T) {
	for _, optionLen := range []int{1, 2, 3, 5, 7, 41} {
		_, err := planLayout(core.FamilyIPv4, optionLen, 0, false)
		if err == nil {
			t.Errorf("planLayout with %d option bytes expected error, got nil", optionLen)
			continue
		}
		if !errors.Is(err, core.ErrOptionsNotPadded) {
			t.Errorf("Expected padding error, got %v", err)
		}
		// The error reports the excess beyond the last 4-byte boundary.
		excess := fmt.Sprintf("%d excess bytes", optionLen&0x3)
		if !strings.Contains(err.Error(), excess) {
			t.Errorf("Expected %q in error, got %q", excess, err.Error())
		}
	}
}

func TestPlanLayoutHeaderTooLarge(t *testing.T) {
	// 40 option bytes are the maximum; 44 push the header past 60.
	if _, err := planLayout(core.FamilyIPv4, 40, 0, false); err != nil {
		t.Fatalf("40 option bytes should fit: %v", err)
	}
	_, err := planLayout(core.FamilyIPv4, 44, 0, false)
	if !errors.Is(err, core.ErrHeaderTooLarge) {
		t.Errorf("Expected header-too-large error, got %v", err)
	}
}

func TestPlanLayoutSegmentTooLarge(t *testing.T) {
	// 20 + 20 + 65535 = 65575 > 64KiB
	_, err := planLayout(core.FamilyIPv4, 0, 65535, false)
	if !errors.Is(err, core.ErrSegmentTooLarge) {
		t.Errorf("Expected segment-too-large error, got %v", err)
	}

	// Exactly 64KiB is still legal: 20 + 20 + 65496 = 65536
	if _, err := planLayout(core.FamilyIPv4, 0, 65496, false); err != nil {
		t.Errorf("64KiB datagram should fit: %v", err)
	}
	// ...but not with the UDP header on top.
	_, err = planLayout(core.FamilyIPv4, 0, 65496, true)
	if !errors.Is(err, core.ErrSegmentTooLarge) {
		t.Errorf("Expected segment-too-large error with encapsulation, got %v", err)
	}
}

func TestPlanLayoutSizes(t *testing.T) {
	cases := []struct {
		family      core.Family
		optionLen   int
		payloadLen  int
		encapsulate bool
		total       int
		tcpOffset   int
	}{
		{core.FamilyIPv4, 0, 0, false, 40, 20},
		{core.FamilyIPv4, 8, 100, false, 148, 20},
		{core.FamilyIPv4, 0, 0, true, 48, 28},
		{core.FamilyIPv6, 0, 0, false, 60, 40},
		{core.FamilyIPv6, 12, 5, true, 85, 48},
	}
	for _, c := range cases {
		l, err := planLayout(c.family, c.optionLen, c.payloadLen, c.encapsulate)
		if err != nil {
			t.Errorf("planLayout(%v, %d, %d, %v) failed: %v",
				c.family, c.optionLen, c.payloadLen, c.encapsulate, err)
			continue
		}
		if l.totalLen != c.total {
			t.Errorf("Expected total %d, got %d", c.total, l.totalLen)
		}
		if l.tcpOffset() != c.tcpOffset {
			t.Errorf("Expected TCP offset %d, got %d", c.tcpOffset, l.tcpOffset())
		}
		if l.tcpHeaderLen != tcpHeaderMinLen+c.optionLen {
			t.Errorf("Expected TCP header %d, got %d", tcpHeaderMinLen+c.optionLen, l.tcpHeaderLen)
		}
		if l.encapsulated() != c.encapsulate {
			t.Errorf("Expected encapsulated=%v", c.encapsulate)
		}
	}
}
