package core

import "errors"

// Sentinel errors; call sites wrap them with fmt.Errorf("%w: ...") detail.
var (
	// Flag-grammar errors
	ErrInvalidFlag     = errors.New("tcpcraft: invalid TCP flag")
	ErrConflictingFlag = errors.New("tcpcraft: conflicting TCP flag")

	// Layout errors
	ErrOptionsNotPadded = errors.New("tcpcraft: TCP options are not padded to a multiple of 4 bytes")
	ErrOptionsTooLong   = errors.New("tcpcraft: TCP options too long")
	ErrHeaderTooLarge   = errors.New("tcpcraft: TCP header too large")
	ErrSegmentTooLarge  = errors.New("tcpcraft: TCP segment too large")

	// Parameter errors
	ErrWindowUnspecified = errors.New("tcpcraft: window must be specified for inbound packets")

	// Wire-image decoding errors
	ErrPacketTooShort   = errors.New("tcpcraft: packet too short")
	ErrUnsupportedProto = errors.New("tcpcraft: unsupported protocol")

	// Configuration errors
	ErrConfigInvalid = errors.New("tcpcraft: invalid configuration")
)
