package account

import (
	"strings"

	"github.com/codeGROOVE-dev/sleuth/pkg/htmlutil"
	"github.com/codeGROOVE-dev/sleuth/pkg/result"
)

// Generic extracts account data from an arbitrary page using email
// addresses and common meta tags. Phone numbers are recorded in
// CustomFields["phone"] but do not on their own make the result non-nil.
func Generic(markup, url, region string) *result.AccountData {
	a := &result.AccountData{
		ProfileURL: url,
		Email:      htmlutil.FirstEmail(markup),
	}

	doc, err := htmlutil.Parse(markup)
	if err == nil {
		for _, m := range htmlutil.Metas(doc) {
			key := strings.ToLower(m.Key)
			switch {
			case strings.Contains(key, "author"), strings.Contains(key, "creator"):
				a.DisplayName = m.Content
			case strings.Contains(key, "description"):
				a.Bio = m.Content
			}
		}
		if v := htmlutil.MetaContent(doc, "og:title"); v != "" {
			a.DisplayName = v
		}
		if v := htmlutil.MetaContent(doc, "og:description"); v != "" && a.Bio == "" {
			a.Bio = v
		}
		if v := htmlutil.MetaContent(doc, "og:image"); v != "" {
			a.AvatarURL = v
		}
	}

	if a.Email == "" && a.DisplayName == "" && a.Bio == "" && a.AvatarURL == "" {
		return nil
	}
	if phones := htmlutil.PhoneNumbers(htmlutil.StripTags(markup), region); len(phones) > 0 {
		a.CustomFields = map[string]string{"phone": phones[0]}
	}
	return a
}
