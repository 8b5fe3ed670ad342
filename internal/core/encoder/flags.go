// Package encoder turns symbolic TCP segment descriptions into exact
// network-byte-order wire images.
package encoder

import (
	"fmt"
	"strings"

	"firestige.xyz/tcpcraft/internal/core"
)

// The full alphabet of symbolic TCP flag characters. The dot (ACK) comes
// first as the most common flag. Numerals 0..7 are shorthand for the 3-bit
// Accurate-ECN (ACE) codepoint and may not be combined with the legacy ECN
// letters E/W/A.
const (
	validTCPFlags = ".FSRPEWA01234567"
	ecnTCPFlags   = "EWA"
	aceTCPFlags   = "01234567"
)

// ecnMode tracks which ECN flavor a flag string has committed to during the
// left-to-right scan. The first character violating the committed mode wins
// the error.
type ecnMode uint8

const (
	ecnUnset   ecnMode = iota // no ECN-related character seen yet
	ecnLetters                // legacy E/W/A letters
	ecnNumeral                // a single ACE numeral
)

// ValidateFlags checks a symbolic flag string against the legal alphabet and
// the ECN-letters vs ACE-numeral exclusivity rule. Pure function, no side
// effects.
func ValidateFlags(flags string) error {
	mode := ecnUnset
	for _, c := range flags {
		if !strings.ContainsRune(validTCPFlags, c) {
			return fmt.Errorf("%w '%c'", core.ErrInvalidFlag, c)
		}
		switch {
		case strings.ContainsRune(ecnTCPFlags, c):
			if mode == ecnNumeral {
				return fmt.Errorf("%w '%c'", core.ErrConflictingFlag, c)
			}
			mode = ecnLetters
		case strings.ContainsRune(aceTCPFlags, c):
			// A numeral conflicts with earlier letters and with a second
			// numeral alike.
			if mode != ecnUnset {
				return fmt.Errorf("%w '%c'", core.ErrConflictingFlag, c)
			}
			mode = ecnNumeral
		}
	}
	return nil
}

// flagSet reports whether a single flag character appears in the string.
func flagSet(flags string, c byte) bool {
	return strings.IndexByte(flags, c) >= 0
}

// aceValue returns the ACE codepoint of the first numeral in the string, or 0
// when there is none. A literal '0' also returns 0, which is fine: codepoint
// zero sets no bits, exactly like omitting ECN flags.
func aceValue(flags string) int {
	for i := 0; i < len(flags); i++ {
		if flags[i] >= '0' && flags[i] <= '7' {
			return int(flags[i] - '0')
		}
	}
	return 0
}
