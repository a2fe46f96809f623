package utils

import "strings"

const maxBrandNameLength = 63 // DNS label limit; the name becomes {brand}.com

// ValidateBrandName checks that a candidate brand name can be probed: it is
// used verbatim as a domain label and a social handle, so it must be a
// non-empty string of letters, digits, or hyphens without leading or
// trailing hyphens. Returns the normalized (lowercased, trimmed) name.
func ValidateBrandName(brandName string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(brandName))

	if name == "" {
		return "", ErrEmptyBrandName
	}
	if len(name) > maxBrandNameLength {
		return "", ErrBrandNameTooLong
	}
	if strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-") {
		return "", ErrInvalidBrandName
	}

	for _, ch := range name {
		switch {
		case ch >= 'a' && ch <= 'z':
		case ch >= '0' && ch <= '9':
		case ch == '-':
		default:
			return "", ErrInvalidBrandName
		}
	}

	return name, nil
}
