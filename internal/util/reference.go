package util

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/google/uuid"
)

const (
	referenceMinLength = 6
	referenceMaxLength = 30
)

// FormatReference normalizes a merchant/order reference to the shape the
// processors accept: alphanumerics only, left-padded with '0' to 6
// characters, truncated to 30.
func FormatReference(ref string) string {
	var b strings.Builder
	for _, r := range ref {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if len(out) < referenceMinLength {
		out = strings.Repeat("0", referenceMinLength-len(out)) + out
	}
	if len(out) > referenceMaxLength {
		out = out[:referenceMaxLength]
	}
	return out
}

// UUIDToTranNbr collapses a UUID into a numeric transaction number (max 10
// digits) for processors that reject free-form ids. FNV-1a keeps it
// deterministic, so the same UUID always yields the same number.
func UUIDToTranNbr(id uuid.UUID) string {
	h := fnv.New32a()
	h.Write(id[:])
	return fmt.Sprintf("%d", h.Sum32())
}
