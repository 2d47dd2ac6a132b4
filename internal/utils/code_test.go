// internal/utils/code_test.go
package utils

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateApplicantCodeShape(t *testing.T) {
	code, err := GenerateApplicantCode()
	assert.NoError(t, err)
	assert.True(t, ValidApplicantCode(code), "generated code %q must match the expected shape", code)

	now := time.Now()
	prefix := fmt.Sprintf("%04d_%02d_", now.Year(), int(now.Month()))
	assert.True(t, strings.HasPrefix(code, prefix))
}

func TestGenerateApplicantCodeVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateApplicantCode()
		assert.NoError(t, err)
		seen[code] = true
	}
	// 50 draws from a million-value space colliding down to a handful
	// would mean the suffix is not random at all.
	assert.Greater(t, len(seen), 45)
}

func TestValidApplicantCode(t *testing.T) {
	assert.True(t, ValidApplicantCode("2026_08_123456"))
	assert.False(t, ValidApplicantCode("2026-08-123456"))
	assert.False(t, ValidApplicantCode("2026_8_123456"))
	assert.False(t, ValidApplicantCode("2026_08_12345"))
	assert.False(t, ValidApplicantCode("2026_08_1234567"))
	assert.False(t, ValidApplicantCode(""))
	assert.False(t, ValidApplicantCode("abcd_ef_ghijkl"))
}
