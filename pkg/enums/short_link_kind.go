package enums

import "fmt"

// ShortLinkKind distinguishes shared-cart links from plain referral links.
type ShortLinkKind string

const (
	ShortLinkKindSharedCart ShortLinkKind = "shared-cart"
	ShortLinkKindReferral   ShortLinkKind = "referral"
)

var validShortLinkKinds = []ShortLinkKind{
	ShortLinkKindSharedCart,
	ShortLinkKindReferral,
}

// String implements fmt.Stringer.
func (k ShortLinkKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known ShortLinkKind.
func (k ShortLinkKind) IsValid() bool {
	for _, candidate := range validShortLinkKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseShortLinkKind converts raw input into a ShortLinkKind.
func ParseShortLinkKind(value string) (ShortLinkKind, error) {
	for _, candidate := range validShortLinkKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid short link kind %q", value)
}
