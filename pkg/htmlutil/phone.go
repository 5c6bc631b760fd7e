package htmlutil

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// phoneCandidate matches digit runs with the separators phone numbers usually carry.
var phoneCandidate = regexp.MustCompile(`(?:tel:)?\+?[0-9][0-9 ().\-/]{6,18}[0-9]`)

// PhoneNumbers returns the valid phone numbers in text formatted as E.164.
// Numbers without a country prefix are interpreted in region (e.g. "US", "DE").
func PhoneNumbers(text, region string) []string {
	if region == "" {
		region = "US"
	}
	var out []string
	seen := map[string]bool{}
	for _, cand := range phoneCandidate.FindAllString(text, -1) {
		cand = strings.TrimPrefix(cand, "tel:")
		if countDigits(cand) < 7 {
			continue
		}
		num, err := phonenumbers.Parse(cand, region)
		if err != nil || !phonenumbers.IsValidNumber(num) {
			continue
		}
		e164 := phonenumbers.Format(num, phonenumbers.E164)
		if !seen[e164] {
			seen[e164] = true
			out = append(out, e164)
		}
	}
	return out
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
