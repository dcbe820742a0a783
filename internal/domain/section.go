package domain

import (
	"strings"

	"taxease/internal/xerrors"
)

// Section is a statutory deduction category under Chapter VI-A.
// The set is closed; anything else is rejected at the boundary.
type Section string

// Known deduction sections
const (
	Section80C     Section = "80C"       // Life insurance, PPF, ELSS, etc.
	Section80CCD1B Section = "80CCD(1B)" // Additional NPS contribution
	Section80D     Section = "80D"       // Health insurance premium
	Section80DD    Section = "80DD"      // Disabled dependent maintenance
	Section80DDB   Section = "80DDB"     // Specified disease treatment
	Section80E     Section = "80E"       // Education loan interest (uncapped)
	Section80G     Section = "80G"       // Donations (uncapped)
	Section80TTA   Section = "80TTA"     // Savings account interest
)

// AllSections lists every known section in display order
var AllSections = []Section{
	Section80C,
	Section80CCD1B,
	Section80D,
	Section80DD,
	Section80DDB,
	Section80E,
	Section80G,
	Section80TTA,
}

// ParseSection resolves a section code case-insensitively.
// Unknown codes yield a ValidationError.
func ParseSection(value string) (Section, error) {
	for _, s := range AllSections {
		if strings.EqualFold(string(s), value) {
			return s, nil
		}
	}
	return "", xerrors.Validation("invalid section: %s", value)
}
