package recommend

import "strings"

// purposeKeywords maps a borrower's stated purpose to terms that identify a
// loan product built for it.
var purposeKeywords = map[string][]string{
	"home renovation":    {"home improvement", "renovation", "home"},
	"education":          {"education", "student", "tuition"},
	"debt consolidation": {"debt consolidation", "consolidation", "balance transfer"},
	"medical":            {"medical", "health"},
	"wedding":            {"wedding", "marriage"},
	"vacation":           {"travel", "vacation", "holiday"},
	"car":                {"car", "auto", "vehicle"},
}

// PurposeMatch grades how well a loan type fits the borrower's purpose:
// 1.0 for an exact match, 0.9 for a keyword hit, 0.7 for a general personal
// loan and 0.5 otherwise.
func PurposeMatch(userPurpose, loanType string) float64 {
	purpose := strings.ToLower(strings.TrimSpace(userPurpose))
	kind := strings.ToLower(strings.TrimSpace(loanType))

	if purpose != "" && purpose == kind {
		return 1.0
	}
	for _, keyword := range purposeKeywords[purpose] {
		if strings.Contains(kind, keyword) {
			return 0.9
		}
	}
	if strings.Contains(kind, "personal") {
		return 0.7
	}
	return 0.5
}
