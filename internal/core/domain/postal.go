package domain

// PostalCode is one colonia within a Mexican postal code.
// A single code usually covers several colonias.
type PostalCode struct {
	Code           string
	Colonia        string
	SettlementType string
	Municipality   string
	State          string
	City           string

	// SearchKey is the lower-cased, accent-free colonia and municipality
	// used for text search.
	SearchKey string
}

// IsPostalCode reports whether s is a five-digit postal code.
func IsPostalCode(s string) bool {
	if len(s) != 5 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
