package grievance

import (
	"fmt"
	"strconv"
	"strings"
)

// CaseNumberPrefix starts every case number.
const CaseNumberPrefix = "GRV"

// FormatCaseNumber builds a case number from the sequence allocated for year
// on node. The format is GRV-YYYY-NODE-NNNNNN.
func FormatCaseNumber(year int, node string, seq int64) string {
	return fmt.Sprintf("%s-%04d-%s-%06d", CaseNumberPrefix, year, node, seq)
}

// ParseCaseNumber splits a case number into its parts.
// ok is false if the number is not in the GRV-YYYY-NODE-NNNNNN format.
func ParseCaseNumber(number string) (year int, node string, seq int64, ok bool) {
	parts := strings.Split(number, "-")
	if len(parts) != 4 || parts[0] != CaseNumberPrefix || len(parts[1]) != 4 || !ValidNodeID(parts[2]) {
		return 0, "", 0, false
	}
	y, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, "", 0, false
	}
	s, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil || s < 1 {
		return 0, "", 0, false
	}
	return y, parts[2], s, true
}

// ValidNodeID reports whether node can be embedded in a case number:
// one or more upper-case letters or digits.
func ValidNodeID(node string) bool {
	if node == "" {
		return false
	}
	for _, r := range node {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
