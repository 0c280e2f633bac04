package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "logisticsmart/internal/errors"
	"logisticsmart/pkg/contracts/domain"
)

// maxJSONBody bounds JSON request bodies; uploads use multipart limits
const maxJSONBody = 1 << 20

// Validator decodes JSON request bodies and checks their struct tags
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewValidator creates a validator with the custom tags used by the API:
// export_format, status_mode, user_role and filename.
func NewValidator(logger *slog.Logger) *Validator {
	v := validator.New()

	_ = v.RegisterValidation("export_format", isExportFormat)
	_ = v.RegisterValidation("status_mode", isStatusMode)
	_ = v.RegisterValidation("user_role", isUserRole)
	_ = v.RegisterValidation("filename", isValidFilename)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{
		validate: v,
		logger:   logger.With(slog.String("component", "validation")),
	}
}

// Decode reads a JSON body into dst and validates it. The returned error
// is an *APIError ready for the error handler.
func (v *Validator) Decode(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return apperrors.NewValidationError("Request body is required")
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.NewValidationError("Request body is required")
		}
		v.logger.DebugContext(r.Context(), "invalid request body",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		return apperrors.InvalidRequestWithError(err)
	}
	return v.Struct(dst)
}

// Struct validates a struct and returns validation errors
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.InvalidRequestWithError(err)
	}

	out := make([]apperrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, apperrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	return apperrors.NewValidationErrors(out)
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "export_format":
		return fmt.Sprintf("%s must be one of: excel, csv, word, pdf", field)
	case "status_mode":
		return fmt.Sprintf("%s must be one of: all, delivered, pending", field)
	case "user_role":
		return fmt.Sprintf("%s must be one of: admin, user, viewer", field)
	case "filename":
		return fmt.Sprintf("%s must be a valid filename", field)
	case "gtefield":
		return fmt.Sprintf("%s must not be before %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

func isExportFormat(fl validator.FieldLevel) bool {
	_, ok := domain.ParseExportFormat(fl.Field().String())
	return ok
}

func isStatusMode(fl validator.FieldLevel) bool {
	return domain.StatusMode(strings.ToLower(fl.Field().String())).Valid()
}

func isUserRole(fl validator.FieldLevel) bool {
	switch domain.UserRole(fl.Field().String()) {
	case domain.RoleAdmin, domain.RoleUser, domain.RoleViewer:
		return true
	}
	return false
}

// isValidFilename rejects path separators and traversal
func isValidFilename(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" || len(name) > 255 {
		return false
	}
	return !strings.Contains(name, "..") && !strings.ContainsAny(name, `/\`)
}
