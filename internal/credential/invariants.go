package credential

import (
	"fmt"
	"time"
)

// Longitud máxima combinada de institution id + institution name.
// El área impresa de la tarjeta solo tiene lugar para 25 caracteres.
const maxInstitutionCombined = 25

// CheckInvariants runs the cross-field business rules that the structural
// schema cannot express. It returns ALL violations found, not just the
// first, so callers can surface everything at once. An empty slice means
// the record may be signed.
//
// Rules:
//   - sd < ed
//   - sd <= di <= ed
//   - xd >= ed (when xd is present)
//   - len(ii) + len(in) <= 25
func CheckInvariants(r Record) []string {
	var violations []string

	sd, err := parseDate(r.ValidFrom)
	if err != nil {
		violations = append(violations, fmt.Sprintf("sd: %v", err))
	}
	ed, err := parseDate(r.ValidUntil)
	if err != nil {
		violations = append(violations, fmt.Sprintf("ed: %v", err))
	}
	di, err := parseDate(r.IssuedAt)
	if err != nil {
		violations = append(violations, fmt.Sprintf("di: %v", err))
	}

	if !sd.IsZero() && !ed.IsZero() {
		if !sd.Before(ed) {
			violations = append(violations, "sd must be before ed")
		}
	}
	if !sd.IsZero() && !di.IsZero() && di.Before(sd) {
		violations = append(violations, "di must not be before sd")
	}
	if !ed.IsZero() && !di.IsZero() && di.After(ed) {
		violations = append(violations, "di must not be after ed")
	}

	if r.ExpiresAt != "" {
		xd, err := parseDate(r.ExpiresAt)
		if err != nil {
			violations = append(violations, fmt.Sprintf("xd: %v", err))
		} else if !ed.IsZero() && xd.Before(ed) {
			violations = append(violations, "xd must not be before ed")
		}
	}

	if len(r.InstitutionID)+len(r.Institution) > maxInstitutionCombined {
		violations = append(violations, fmt.Sprintf(
			"ii+in combined length %d exceeds %d",
			len(r.InstitutionID)+len(r.Institution), maxInstitutionCombined))
	}

	return violations
}

// parseDate parses a strict YYYY-MM-DD calendar date. The "00" month/day
// convention applies only to dob, which carries no ordering rule, so it is
// not accepted here.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

// ValidBirthDate reports whether dob is a YYYY-MM-DD date where month
// and/or day may be "00" (unknown). A fully known date must also be a
// real calendar date.
func ValidBirthDate(dob string) bool {
	if len(dob) != 10 || dob[4] != '-' || dob[7] != '-' {
		return false
	}
	for i, c := range dob {
		if i == 4 || i == 7 {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	month, day := dob[5:7], dob[8:10]
	if month == "00" {
		// day may be anything 00..31 when the month is unknown
		return day >= "00" && day <= "31"
	}
	if day == "00" {
		return month >= "01" && month <= "12"
	}
	_, err := time.Parse("2006-01-02", dob)
	return err == nil
}
