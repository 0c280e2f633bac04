package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "logisticsmart/internal/errors"
	"logisticsmart/internal/shared/testutil"
)

type exportBody struct {
	Formats  []string `json:"formats" validate:"required,min=1,dive,export_format"`
	Mode     string   `json:"mode" validate:"omitempty,status_mode"`
	BaseName string   `json:"base_name" validate:"omitempty,filename"`
}

type userBody struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Role     string `json:"role" validate:"required,user_role"`
}

func decode(t *testing.T, body string, dst interface{}) error {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	return NewValidator(logger).Decode(req, dst)
}

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	var apiErr *apperrors.APIError
	require.True(t, errors.As(err, &apiErr), "want APIError, got %v", err)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

	details, ok := apiErr.Details.(apperrors.ValidationErrors)
	require.True(t, ok)
	out := map[string]string{}
	for _, fe := range details.Errors {
		out[fe.Field] = fe.Message
	}
	return out
}

func TestDecode_Valid(t *testing.T) {
	var b exportBody
	err := decode(t, `{"formats":["excel","CSV"],"mode":"pending","base_name":"entregas_05-01"}`, &b)
	require.NoError(t, err)
	assert.Equal(t, []string{"excel", "CSV"}, b.Formats)
}

func TestDecode_CustomTags(t *testing.T) {
	var b exportBody
	err := decode(t, `{"formats":["excel","xml"],"mode":"late","base_name":"../etc/passwd"}`, &b)
	fields := validationFields(t, err)

	assert.Contains(t, fields["formats[1]"], "excel, csv, word, pdf")
	assert.Contains(t, fields["mode"], "all, delivered, pending")
	assert.Contains(t, fields["base_name"], "valid filename")
}

func TestDecode_Required(t *testing.T) {
	var u userBody
	fields := validationFields(t, decode(t, `{"username":"ab","role":"root"}`, &u))
	assert.Equal(t, "username must be at least 3", fields["username"])
	assert.Contains(t, fields["role"], "admin, user, viewer")
}

func TestDecode_Malformed(t *testing.T) {
	var u userBody

	err := decode(t, ``, &u)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Request body is required")

	err = decode(t, `{"username":`, &u)
	var apiErr *apperrors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

	err = decode(t, `{"username":"carla","role":"user","extra":1}`, &u)
	require.Error(t, err, "unknown fields are rejected")
}
