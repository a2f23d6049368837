package paygate

import (
	"strings"
)

// An authorization is the composite identifier a caller persists between
// authorize and capture/void: the processor reference, the bank auth code and
// the continuous-authority reference joined by semicolons. Any segment may be
// empty.

// EncodeAuthorization joins the three segments into one opaque token
func EncodeAuthorization(reference, authCode, caReference string) string {
	return reference + ";" + authCode + ";" + caReference
}

// DecodeAuthorization splits a composite token back into its segments.
// Malformed input never fails: missing trailing segments decode to empty
// strings so callers always have a value to log.
func DecodeAuthorization(authorization string) (reference, authCode, caReference string) {
	parts := strings.SplitN(authorization, ";", 3)
	switch len(parts) {
	case 3:
		return parts[0], parts[1], parts[2]
	case 2:
		return parts[0], parts[1], ""
	default:
		return parts[0], "", ""
	}
}
