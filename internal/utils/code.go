// internal/utils/code.go
package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"time"
)

var codePattern = regexp.MustCompile(`^\d{4}_\d{2}_\d{6}$`)

// GenerateApplicantCode produces the correlation key linking an applicant's
// profile rows, documents, and account: year, zero-padded month, and a
// random six digit suffix. The generator makes no uniqueness guarantee;
// the submission transaction checks for collisions and regenerates.
func GenerateApplicantCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code suffix: %w", err)
	}

	now := time.Now()
	return fmt.Sprintf("%04d_%02d_%06d", now.Year(), int(now.Month()), n.Int64()), nil
}

// ValidApplicantCode reports whether s has the YYYY_MM_RRRRRR shape.
func ValidApplicantCode(s string) bool {
	return codePattern.MatchString(s)
}
