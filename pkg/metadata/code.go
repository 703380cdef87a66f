package metadata

import (
	"fmt"
	"regexp"
)

const reportPrefix = "LAP"

var itemCodePattern = regexp.MustCompile(`^BRG-[0-9]{2,}$`)

// ValidItemCode checks the BRG-NN natural key format.
func ValidItemCode(code string) bool {
	return itemCodePattern.MatchString(code)
}

// ReportNumber formats a sequential report number, LAP-00001 style.
// seq is 1-based.
func ReportNumber(seq int) string {
	return fmt.Sprintf("%s-%05d", reportPrefix, seq)
}
