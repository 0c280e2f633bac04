package http

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"logisticsmart/internal/auth"
	apperrors "logisticsmart/internal/errors"
	"logisticsmart/internal/middleware"
	"logisticsmart/internal/services"
	"logisticsmart/internal/session"
	api "logisticsmart/pkg/contracts/api/v1"
	"logisticsmart/pkg/contracts/domain"
)

// multipartMemory is kept in memory before multipart parts spill to disk
const multipartMemory = 32 << 20

// ReportHandler serves the report pipeline over the caller's session
type ReportHandler struct {
	service      ReportService
	validator    *middleware.Validator
	errorHandler *apperrors.ErrorHandler
	logger       *slog.Logger
	maxUpload    int64
}

// NewReportHandler creates a report handler accepting uploads up to
// maxUpload bytes
func NewReportHandler(service ReportService, validator *middleware.Validator, errorHandler *apperrors.ErrorHandler, logger *slog.Logger, maxUpload int64) *ReportHandler {
	return &ReportHandler{
		service:      service,
		validator:    validator,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "reports")),
		maxUpload:    maxUpload,
	}
}

// Routes returns the report routes. They expect RequireAuth upstream.
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(middleware.RequirePermission(domain.PermUploadFiles, h.errorHandler)).
		Post("/upload", h.Upload)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequirePermission(domain.PermViewReports, h.errorHandler))
		r.Get("/columns", h.Columns)
		r.Get("/options/{key}", h.Options)
		r.Post("/query", h.Query)
		r.Get("/statistics", h.Statistics)
		r.Get("/quality", h.Quality)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequirePermission(domain.PermExportData, h.errorHandler))
		r.Get("/formats", h.Formats)
		r.Post("/export", h.Export)
	})

	return r
}

// Upload handles POST /api/reports/upload with a multipart "file" part
func (h *ReportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.SessionFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			h.errorHandler.HandleError(w, r, apperrors.ErrPayloadTooLarge)
			return
		}
		h.errorHandler.HandleError(w, r, apperrors.InvalidRequestWithError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apperrors.ErrValidation("file", "file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.errorHandler.HandleError(w, r, apperrors.FileSystemError("read upload", err))
		return
	}

	summary, err := h.service.Load(r.Context(), sess, data, header.Filename)
	resp := api.LoadResponse{
		Success:         summary.Success,
		Message:         summary.Message,
		Filename:        summary.Filename,
		Records:         summary.Records,
		RawRows:         summary.RawRows,
		Columns:         summary.Columns,
		OriginalColumns: summary.OriginalColumns,
	}
	if err != nil {
		if !apperrors.IsPipelineError(err) {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		h.logger.WarnContext(r.Context(), "upload rejected",
			slog.String("filename", header.Filename),
			slog.Int("bytes", len(data)),
			slog.String("error", err.Error()))
		h.errorHandler.JSON(w, r, h.errorHandler.ErrorToProblem(err, r).Status, resp)
		return
	}

	h.logger.InfoContext(r.Context(), "upload loaded",
		slog.String("filename", summary.Filename),
		slog.Int("records", summary.Records))
	render.JSON(w, r, resp)
}

// Columns handles GET /api/reports/columns
func (h *ReportHandler) Columns(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.SessionFromContext(r.Context())
	cols, original, err := h.service.Columns(r.Context(), sess)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, api.ColumnsResponse{Columns: cols, OriginalColumns: original})
}

// Options handles GET /api/reports/options/{key}
func (h *ReportHandler) Options(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.SessionFromContext(r.Context())
	key := chi.URLParam(r, "key")

	values, err := h.service.Options(r.Context(), sess, key)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if values == nil {
		values = []string{}
	}
	render.JSON(w, r, api.OptionsResponse{Key: key, Values: values})
}

// Query handles POST /api/reports/query
func (h *ReportHandler) Query(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.SessionFromContext(r.Context())

	var req api.QueryRequest
	if err := h.validator.Decode(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	query, err := h.serviceQuery(sess, req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Query(r.Context(), sess, query)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, api.QueryResponse{
		Mode:      result.Mode,
		Total:     result.Total,
		Table:     result.Table,
		Aggregate: result.Aggregate,
	})
}

// serviceQuery converts a request and rejects advanced filters for roles
// without advanced_filters
func (h *ReportHandler) serviceQuery(sess *session.Session, req api.QueryRequest) (services.QueryRequest, error) {
	spec, err := req.ToFilterSpec()
	if err != nil {
		return services.QueryRequest{}, apperrors.ErrValidation("date", err.Error())
	}
	if spec.IsAdvanced() && !auth.PermissionsFor(sess.User.Role).Allows(domain.PermAdvancedFilters) {
		return services.QueryRequest{}, apperrors.NewPermissionError("Permissão insuficiente: " + string(domain.PermAdvancedFilters))
	}
	return services.QueryRequest{Filters: spec, Mode: req.StatusMode()}, nil
}

// Statistics handles GET /api/reports/statistics
func (h *ReportHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.SessionFromContext(r.Context())
	stats, err := h.service.Statistics(r.Context(), sess)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, stats)
}

// Quality handles GET /api/reports/quality
func (h *ReportHandler) Quality(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.SessionFromContext(r.Context())
	report, err := h.service.Quality(r.Context(), sess)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// Formats handles GET /api/reports/formats
func (h *ReportHandler) Formats(w http.ResponseWriter, r *http.Request) {
	formats := h.service.AvailableFormats()
	resp := api.FormatsResponse{Formats: make([]api.FormatInfo, 0, len(formats))}
	for _, f := range formats {
		resp.Formats = append(resp.Formats, api.FormatInfo{
			Format:      f,
			Label:       f.Label(),
			Extension:   f.Extension(),
			ContentType: f.ContentType(),
		})
	}
	render.JSON(w, r, resp)
}

// Export handles POST /api/reports/export. A single requested format is
// sent as a file download; otherwise every document is returned in JSON
// with its own outcome.
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.SessionFromContext(r.Context())

	var req api.ExportRequest
	if err := h.validator.Decode(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	query, err := h.serviceQuery(sess, req.QueryRequest)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	formats := req.ExportFormats()
	results, err := h.service.Export(r.Context(), sess, services.ExportRequest{
		Query:      query,
		Formats:    formats,
		Aggregated: req.Aggregated,
		BaseName:   req.BaseName,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if len(formats) == 1 && len(results) == 1 {
		res := results[0]
		if res.Err != nil {
			h.errorHandler.HandleError(w, r, res.Err)
			return
		}
		w.Header().Set("Content-Type", res.ContentType)
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Filename}))
		w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(res.Data); err != nil {
			h.logger.WarnContext(r.Context(), "export download interrupted",
				slog.String("filename", res.Filename),
				slog.String("error", err.Error()))
		}
		return
	}

	resp := api.ExportResponse{Files: make([]api.ExportFile, 0, len(results))}
	for _, res := range results {
		file := api.ExportFile{Format: res.Format, Filename: res.Filename}
		if res.Err != nil {
			file.Error = apperrors.UserMessage(res.Err)
			resp.Failed++
		} else {
			file.ContentType = res.ContentType
			file.Size = len(res.Data)
			file.Data = res.Data
			resp.Succeeded++
		}
		resp.Files = append(resp.Files, file)
	}
	render.JSON(w, r, resp)
}
