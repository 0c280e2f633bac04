package config

import (
	"time"

	"logisticsmart/pkg/contracts"
)

// Application constants
const (
	AppName    = "LogisticSmart"
	AppVersion = contracts.Version

	// Report titles
	ReportTitle   = "Relatório LogisticSmart"
	DocumentTitle = "Relatório de Entregas"

	// Sheet names of the Excel export
	DataSheetName     = "Relatório"
	MetadataSheetName = "Informações"

	// Loading
	MaxUploadSize       = 200 * 1024 * 1024
	LoadCacheTTL        = time.Hour
	LoadCacheMaxEntries = 100

	// Export
	MaxColumnWidth   = 50
	CSVSeparator     = ';'
	PDFRenderTimeout = 60 * time.Second

	// Security
	SessionTimeout        = 8 * time.Hour
	DefaultRateLimit      = 100
	DefaultBurstSize      = 50
	DefaultRequestTimeout = 2 * time.Minute

	// File paths (relative to the base directory)
	DefaultDataDir    = "data"
	DefaultReportsDir = "data/reports"
	DefaultTempDir    = "data/temp"
	DefaultLogsDir    = "logs"
	DefaultUsersFile  = "users.json"

	DefaultLogLevel = "info"
)

// RequiredColumns are the header labels that must be present in every sheet
var RequiredColumns = []string{"Data prevista de entrega"}

// ColumnKeywords lists, per role, the header fragments used for auto-detection.
// Matching is case-insensitive substring containment.
var ColumnKeywords = map[string][]string{
	"status":    {"Status", "Situação", "Estado"},
	"deliverer": {"Entregador", "Responsável", "Motorista"},
	"city":      {"Cidade", "Local", "Destino", "Município"},
	"product":   {"Produto", "Tipo de produto", "Item", "Mercadoria"},
	"client":    {"Cliente", "Destinatário", "Receptor"},
}

// DeliveredIndicators mark a status cell as delivered
var DeliveredIndicators = []string{"entregue", "entregado", "delivered", "ok", "concluido", "finalizado"}

// PendingIndicators mark a status cell as pending
var PendingIndicators = []string{"pendente", "pending", "aguardando", "em rota", "em transito"}

// DefaultAccount is an account seeded when the users file does not exist
type DefaultAccount struct {
	Username string
	Password string
	Role     string
	Name     string
}

// DefaultAccounts are created on first start
var DefaultAccounts = []DefaultAccount{
	{Username: "admin", Password: "admin123", Role: "admin", Name: "Administrador"},
	{Username: "visitante", Password: "fasebeta", Role: "viewer", Name: "Visitante"},
	{Username: "neo", Password: "matrix", Role: "admin", Name: "Neo"},
}
