package domain

import "time"

// DateRange is an inclusive range of calendar dates
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Inverted reports whether start falls after end
func (r DateRange) Inverted() bool {
	return r.Start.After(r.End)
}

// NumericRange is an inclusive numeric interval
type NumericRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FilterSpec describes the predicates applied to a loaded table.
// Values keys are either role names (or their aliases) or literal column names.
type FilterSpec struct {
	Date    *time.Time              `json:"date_filter,omitempty"`
	Range   *DateRange              `json:"date_range,omitempty"`
	Values  map[string][]string     `json:"values,omitempty"`
	Numeric map[string]NumericRange `json:"numeric,omitempty"`
	Command string                  `json:"command,omitempty"`
}

// IsZero reports whether no predicate is set
func (f FilterSpec) IsZero() bool {
	return f.Date == nil && f.Range == nil && len(f.Values) == 0 && len(f.Numeric) == 0 && f.Command == ""
}

// IsAdvanced reports whether the spec uses multi-value or numeric filters
func (f FilterSpec) IsAdvanced() bool {
	if len(f.Numeric) > 0 {
		return true
	}
	for _, vals := range f.Values {
		if len(vals) > 1 {
			return true
		}
	}
	return false
}

// StatusMode selects a delivery status bucket
type StatusMode string

const (
	StatusAll       StatusMode = "all"
	StatusDelivered StatusMode = "delivered"
	StatusPending   StatusMode = "pending"
)

// Valid reports whether the mode is one of the known buckets
func (m StatusMode) Valid() bool {
	return m == StatusAll || m == StatusDelivered || m == StatusPending
}
