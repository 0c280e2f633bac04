// Package api contains the request and response contracts of the
// LogisticSmart HTTP API, version v1.
package api

import (
	"fmt"
	"strings"
	"time"

	"logisticsmart/pkg/contracts/domain"
)

// DateLayouts are the accepted request date forms, Brazilian first
var DateLayouts = []string{"02/01/2006", "2006-01-02"}

// ParseDate reads a calendar date in one of DateLayouts as local midnight
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range DateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: use DD/MM/YYYY or YYYY-MM-DD", s)
}

// Auth API Requests

// LoginRequest represents a login attempt
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=128"`
}

// User API Requests

// CreateUserRequest creates an account
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32,alphanum"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Name     string `json:"name,omitempty" validate:"omitempty,max=100"`
	Role     string `json:"role" validate:"required,user_role"`
}

// PasswordRequest replaces an account password
type PasswordRequest struct {
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// Report API Requests

// DateRangeRequest represents an inclusive date range in requests
type DateRangeRequest struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

// NumericRangeRequest bounds a numeric column
type NumericRangeRequest struct {
	Min float64 `json:"min"`
	Max float64 `json:"max" validate:"gtefield=Min"`
}

// QueryRequest filters the loaded table. Date and Range are mutually
// exclusive; Values keys are role names, aliases or column names.
type QueryRequest struct {
	Date    string                         `json:"date,omitempty" validate:"excluded_with=Range"`
	Range   *DateRangeRequest              `json:"range,omitempty"`
	Values  map[string][]string            `json:"values,omitempty" validate:"omitempty,dive,keys,required,endkeys,dive,max=200"`
	Numeric map[string]NumericRangeRequest `json:"numeric,omitempty" validate:"omitempty,dive,keys,required,endkeys"`
	Command string                         `json:"command,omitempty" validate:"omitempty,max=500"`
	Mode    string                         `json:"mode,omitempty" validate:"omitempty,status_mode"`
}

// ToFilterSpec converts the request into a filter specification
func (q QueryRequest) ToFilterSpec() (domain.FilterSpec, error) {
	spec := domain.FilterSpec{
		Values:  q.Values,
		Command: strings.TrimSpace(q.Command),
	}

	if q.Date != "" {
		d, err := ParseDate(q.Date)
		if err != nil {
			return domain.FilterSpec{}, err
		}
		spec.Date = &d
	}

	if q.Range != nil {
		start, err := ParseDate(q.Range.Start)
		if err != nil {
			return domain.FilterSpec{}, err
		}
		end, err := ParseDate(q.Range.End)
		if err != nil {
			return domain.FilterSpec{}, err
		}
		spec.Range = &domain.DateRange{Start: start, End: end}
	}

	if len(q.Numeric) > 0 {
		spec.Numeric = make(map[string]domain.NumericRange, len(q.Numeric))
		for k, r := range q.Numeric {
			spec.Numeric[k] = domain.NumericRange{Min: r.Min, Max: r.Max}
		}
	}
	return spec, nil
}

// StatusMode returns the requested mode, empty when unset
func (q QueryRequest) StatusMode() domain.StatusMode {
	return domain.StatusMode(strings.ToLower(q.Mode))
}

// ExportRequest exports the filtered table, or its per-deliverer summary
// when Aggregated is set. No formats means every available format.
type ExportRequest struct {
	QueryRequest
	Formats    []string `json:"formats,omitempty" validate:"omitempty,max=4,dive,export_format"`
	Aggregated bool     `json:"aggregated"`
	BaseName   string   `json:"base_name,omitempty" validate:"omitempty,filename"`
}

// ExportFormats parses Formats; validation has already rejected unknown names
func (e ExportRequest) ExportFormats() []domain.ExportFormat {
	out := make([]domain.ExportFormat, 0, len(e.Formats))
	seen := make(map[domain.ExportFormat]bool, len(e.Formats))
	for _, name := range e.Formats {
		if f, ok := domain.ParseExportFormat(name); ok && !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
