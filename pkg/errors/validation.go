package errors

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/matzehuels/factionmap/pkg/core/family"
)

// Year bounds accepted by the CLI and API. The resolver itself takes any
// year.
const (
	MinYear = 1215
	MaxYear = 1450
)

const maxFamilyID = 64

// ValidateYear checks that year is within [MinYear, MaxYear].
func ValidateYear(year int) error {
	if year < MinYear || year > MaxYear {
		return New(ErrCodeInvalidYear, "year %d out of range [%d, %d]", year, MinYear, MaxYear)
	}
	return nil
}

// ValidateFamilyID accepts the opaque ids the sheet uses ("1039",
// "1039_2"). Ids end up in URLs and cache keys, so whitespace, control
// characters and path separators are rejected.
func ValidateFamilyID(id string) error {
	switch {
	case id == "":
		return New(ErrCodeInvalidFamily, "family id is empty")
	case len(id) > maxFamilyID:
		return New(ErrCodeInvalidFamily, "family id longer than %d bytes", maxFamilyID)
	case strings.ContainsAny(id, `/\`):
		return New(ErrCodeInvalidFamily, "family id %q contains a path separator", id)
	case strings.IndexFunc(id, badIDRune) >= 0:
		return New(ErrCodeInvalidFamily, "family id %q contains whitespace or control characters", id)
	}
	return nil
}

func badIDRune(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }

// ValidateFamily checks a record before it is stored or laid out.
func ValidateFamily(f family.Family) error {
	if err := ValidateFamilyID(f.ID); err != nil {
		return err
	}
	if strings.TrimSpace(f.Name) == "" {
		return New(ErrCodeInvalidFamily, "family %s has no name", f.ID)
	}
	if strings.IndexFunc(f.Name, unicode.IsControl) >= 0 {
		return New(ErrCodeInvalidFamily, "family %s name contains control characters", f.ID)
	}
	return nil
}

// ValidateURL accepts absolute http and https URLs with a host.
func ValidateURL(raw string) error {
	if raw == "" {
		return New(ErrCodeInvalidInput, "URL is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL %q must use http or https", raw)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL %q has no host", raw)
	}
	return nil
}
