package model

// Settings holds the driver-tunable knobs that shape monthly reports.
type Settings struct {
	// SubsidyLimit is the monthly subsidized-fuel quota in liters.
	// 0 means no quota is configured and no quota line is reported.
	SubsidyLimit float64 `json:"subsidy_limit"`
	// MileageCorrection is a signed km adjustment added to aggregated
	// distance to compensate for odometer/GPS drift.
	MileageCorrection float64 `json:"mileage_correction"`
}

// LocationInfo is the editable detail attached to a known center.
type LocationInfo struct {
	Address string `json:"address"`
	Memo    string `json:"memo"`
}

// DefaultCenters returns the starter set of logistics centers, sorted
// ascending. Restoring a snapshot whose centers list is structurally
// broken heals back to this set.
func DefaultCenters() []string {
	return []string{"안산", "안성", "용인", "이천", "인천"}
}
