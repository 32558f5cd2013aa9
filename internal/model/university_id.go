package model

import (
	"regexp"
	"strings"
)

var (
	universityIDPattern = regexp.MustCompile(`^[A-Z]{3}/\d{4}/\d{2}$`)
	compactIDPattern    = regexp.MustCompile(`^([A-Z]{3})(\d{4})(\d{2})$`)
)

// NormalizeUniversityID uppercases and accepts the compact form UGR102517
// as UGR/1025/17. ok is false when the value has neither shape.
func NormalizeUniversityID(raw string) (string, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if universityIDPattern.MatchString(s) {
		return s, true
	}
	if m := compactIDPattern.FindStringSubmatch(s); m != nil {
		return m[1] + "/" + m[2] + "/" + m[3], true
	}
	return s, false
}

// IsUniversityID strict AAA/NNNN/NN check
func IsUniversityID(s string) bool {
	return universityIDPattern.MatchString(s)
}

// InstitutionalEmail <first name>.<id with / as ->@domain, lowercased
func InstitutionalEmail(fullName, universityID, domain string) string {
	first := fullName
	if fields := strings.Fields(fullName); len(fields) > 0 {
		first = fields[0]
	}
	local := strings.ToLower(first) + "." + strings.ToLower(strings.ReplaceAll(universityID, "/", "-"))
	return local + "@" + domain
}
