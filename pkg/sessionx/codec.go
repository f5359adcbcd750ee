package sessionx

import "encoding/base64"

// segmentEncoding is base64url without padding. Decoding is strict so that
// trailing bits must be zero and every distinct segment decodes to distinct
// bytes.
var segmentEncoding = base64.RawURLEncoding.Strict()

// EncodeSegment encodes raw bytes as a credential segment.
func EncodeSegment(b []byte) string {
	return segmentEncoding.EncodeToString(b)
}

// DecodeSegment is the inverse of EncodeSegment.
func DecodeSegment(s string) ([]byte, error) {
	return segmentEncoding.DecodeString(s)
}
