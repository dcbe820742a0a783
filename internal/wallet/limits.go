package wallet

import "taxease/internal/domain"

// sectionLimits is the statutory cap per deduction section in rupees.
// 0 means uncapped. Policy data fixed at process start; ledgers snapshot
// their limit from here at creation time, so edits to this table never
// retroactively alter existing ledgers.
var sectionLimits = map[domain.Section]float64{
	domain.Section80C:     150000,
	domain.Section80CCD1B: 50000,
	domain.Section80D:     25000,
	domain.Section80DD:    75000,
	domain.Section80DDB:   40000,
	domain.Section80E:     0, // No limit
	domain.Section80G:     0, // No limit
	domain.Section80TTA:   10000,
}

// SectionLimit returns the statutory cap for a section, 0 for uncapped
func SectionLimit(section domain.Section) float64 {
	return sectionLimits[section]
}
