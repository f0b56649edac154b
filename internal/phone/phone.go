// Package phone maps stored phone numbers to dialable destinations.
package phone

import "strings"

// CountryCode replaces the national trunk prefix on local numbers.
const CountryCode = "+94"

// Normalize returns the dialable form of raw and false when raw is empty.
// Numbers starting with the trunk digit 0 get the country code in its place;
// anything else is assumed to be international already and passes through
// unchanged. No other validation happens here; the SMS provider rejects
// numbers it cannot route.
func Normalize(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	if strings.HasPrefix(raw, "0") {
		return CountryCode + raw[1:], true
	}
	return raw, true
}
