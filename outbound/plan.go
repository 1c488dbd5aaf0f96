package outbound

import "strings"

// NumberPlan describes how loose caller-supplied identifiers map onto
// canonical network addresses: the domain suffixes that mark an identifier
// as already canonical, and the dialing convention used to normalize bare
// phone numbers.
type NumberPlan struct {
	// CountryCode is prepended to numbers dialed in local convention.
	CountryCode string `json:"country_code"`

	// TrunkPrefix is the local leading-digit convention replaced by the
	// country code ("0" in most national dialing plans).
	TrunkPrefix string `json:"trunk_prefix"`

	// UserSuffix and GroupSuffix are the canonical domain suffixes for
	// direct-message and group destinations.
	UserSuffix  string `json:"user_suffix"`
	GroupSuffix string `json:"group_suffix"`
}

// DefaultNumberPlan returns the dialing plan of the deployment this service
// replaced: Indonesian numbers on WhatsApp-style address suffixes.
func DefaultNumberPlan() NumberPlan {
	return NumberPlan{
		CountryCode: "62",
		TrunkPrefix: "0",
		UserSuffix:  "@s.whatsapp.net",
		GroupSuffix: "@g.us",
	}
}

// Merge applies non-empty values from source into p.
func (p *NumberPlan) Merge(source *NumberPlan) {
	if source.CountryCode != "" {
		p.CountryCode = source.CountryCode
	}
	if source.TrunkPrefix != "" {
		p.TrunkPrefix = source.TrunkPrefix
	}
	if source.UserSuffix != "" {
		p.UserSuffix = source.UserSuffix
	}
	if source.GroupSuffix != "" {
		p.GroupSuffix = source.GroupSuffix
	}
}

// IsCanonical reports whether the identifier already carries a recognized
// domain suffix.
func (p NumberPlan) IsCanonical(identifier string) bool {
	return strings.HasSuffix(identifier, p.UserSuffix) || strings.HasSuffix(identifier, p.GroupSuffix)
}

// IsGroup reports whether the address denotes a group destination.
func (p NumberPlan) IsGroup(address string) bool {
	return strings.HasSuffix(address, p.GroupSuffix)
}

// NormalizeNumber turns a free-form phone number into a canonical direct
// address: strips non-digits, swaps the trunk prefix for the country code,
// prepends the country code when absent, and appends the user suffix. The
// country code is never duplicated.
func (p NumberPlan) NormalizeNumber(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	number := digits.String()

	if p.TrunkPrefix != "" && strings.HasPrefix(number, p.TrunkPrefix) {
		number = p.CountryCode + number[len(p.TrunkPrefix):]
	}
	if !strings.HasPrefix(number, p.CountryCode) {
		number = p.CountryCode + number
	}
	return number + p.UserSuffix
}
