package api

import (
	"time"

	"logisticsmart/pkg/contracts/domain"
)

// Auth API Responses

// LoginResponse carries the session token and what the user may do
type LoginResponse struct {
	Token       string             `json:"token"`
	User        domain.User        `json:"user"`
	Permissions domain.Permissions `json:"permissions"`
}

// MeResponse describes the current session
type MeResponse struct {
	User        domain.User        `json:"user"`
	Permissions domain.Permissions `json:"permissions"`
	Filename    string             `json:"filename,omitempty"`
	LoadedAt    *time.Time         `json:"loaded_at,omitempty"`
	Records     int                `json:"records"`
	Mode        domain.StatusMode  `json:"mode"`
	Filters     domain.FilterSpec  `json:"filters"`
}

// StatusResponse is a bare acknowledgement
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Report API Responses

// LoadResponse is the outcome of an upload. A failed load is reported with
// Success false and the previous table is kept.
type LoadResponse struct {
	Success         bool             `json:"success"`
	Message         string           `json:"message"`
	Filename        string           `json:"filename,omitempty"`
	Records         int              `json:"records"`
	RawRows         int              `json:"raw_rows"`
	Columns         domain.ColumnMap `json:"columns,omitempty"`
	OriginalColumns []string         `json:"original_columns,omitempty"`
}

// ColumnsResponse lists the detected roles and the source headers
type ColumnsResponse struct {
	Columns         domain.ColumnMap `json:"columns"`
	OriginalColumns []string         `json:"original_columns"`
}

// OptionsResponse lists the distinct values of one filter key
type OptionsResponse struct {
	Key    string   `json:"key"`
	Values []string `json:"values"`
}

// QueryResponse is a filtered table with its summary
type QueryResponse struct {
	Mode      domain.StatusMode      `json:"mode"`
	Total     int                    `json:"total"`
	Table     *domain.Table          `json:"table"`
	Aggregate domain.AggregateResult `json:"aggregate"`
}

// FormatInfo describes one export format
type FormatInfo struct {
	Format      domain.ExportFormat `json:"format"`
	Label       string              `json:"label"`
	Extension   string              `json:"extension"`
	ContentType string              `json:"content_type"`
}

// FormatsResponse lists the formats available on this server
type FormatsResponse struct {
	Formats []FormatInfo `json:"formats"`
}

// ExportFile is one exported document. Data is base64 in JSON.
type ExportFile struct {
	Format      domain.ExportFormat `json:"format"`
	Filename    string              `json:"filename"`
	ContentType string              `json:"content_type,omitempty"`
	Size        int                 `json:"size"`
	Data        []byte              `json:"data,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// ExportResponse holds one entry per requested format
type ExportResponse struct {
	Files     []ExportFile `json:"files"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
}

// User API Responses

// UsersResponse lists accounts without credential material
type UsersResponse struct {
	Users []domain.User `json:"users"`
}
