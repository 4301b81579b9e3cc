// Package phone normalizes free-form lead phone numbers.
package phone

import (
	"strings"

	"github.com/ttacon/libphonenumber"

	"github.com/Abdullah098765/CRM-Software/internal/countries"
)

// E164 returns the E.164 form of raw, interpreting national numbers in the
// region of country (a catalog name or ISO code). It returns "" when the
// number cannot be parsed or is not a valid number.
func E164(raw, country string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	region, _ := countries.Region(country)
	if region == "" && !strings.HasPrefix(raw, "+") {
		// Without a region only internationally formatted numbers can be parsed.
		return ""
	}

	num, err := libphonenumber.Parse(raw, region)
	if err != nil {
		return ""
	}
	if !libphonenumber.IsValidNumber(num) {
		return ""
	}
	return libphonenumber.Format(num, libphonenumber.E164)
}
