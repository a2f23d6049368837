package util

import (
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestFormatReference_StripsNonAlphanumerics(t *testing.T) {
	assert.Equal(t, "ORD12345", FormatReference("ORD-123/45"))
	assert.Equal(t, "000042", FormatReference("#42!"))
}

func TestFormatReference_PadsToMinimumLength(t *testing.T) {
	assert.Equal(t, "000001", FormatReference("1"))
	assert.Equal(t, "000000", FormatReference(""))
	assert.Equal(t, "0000ab", FormatReference("ab"))
}

func TestFormatReference_TruncatesToMaximumLength(t *testing.T) {
	long := "abcdefghijklmnopqrstuvwxyz0123456789"
	got := FormatReference(long)
	assert.Len(t, got, 30)
	assert.Equal(t, long[:30], got)
}

func TestFormatReference_OutputShape(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Za-z0-9]{6,30}$`)
	inputs := []string{"", "x", "order 77", "!!!", "a-very-long-reference-with-punctuation-1234567890", "ORD_2024_06_30"}
	for _, in := range inputs {
		assert.Regexp(t, pattern, FormatReference(in), "input %q", in)
	}
}

func TestUUIDToTranNbr_Deterministic(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	first := UUIDToTranNbr(id)
	second := UUIDToTranNbr(id)

	assert.Equal(t, first, second)
	assert.Regexp(t, `^\d{1,10}$`, first)
}

func TestUUIDToTranNbr_DistinctUUIDs(t *testing.T) {
	a := UUIDToTranNbr(uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"))
	b := UUIDToTranNbr(uuid.MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8"))
	assert.NotEqual(t, a, b)
}
