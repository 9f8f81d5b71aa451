package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleItem struct {
	URL string `json:"fileUrl" validate:"required"`
}

type sampleRequest struct {
	Name  *string      `json:"name" validate:"required,min=1"`
	Kind  string       `json:"kind" validate:"omitempty,oneof=CHAPTER EXAM"`
	Level *int         `json:"level" validate:"required,gte=0"`
	Date  string       `json:"date" validate:"omitempty,date"`
	Items []sampleItem `json:"items" validate:"omitempty,dive"`
	Skip  string       `json:"-"`
}

func appError(t *testing.T, err error) *AppError {
	t.Helper()
	var appErr *AppError
	require.True(t, errors.As(err, &appErr), "expected *AppError, got %v", err)
	return appErr
}

func ptr[T any](v T) *T { return &v }

func TestValidateStruct(t *testing.T) {
	valid := sampleRequest{Name: ptr("a"), Level: ptr(0), Kind: "EXAM", Date: "2024-01-02"}
	require.NoError(t, ValidateStruct(&valid))

	cases := []struct {
		name    string
		in      sampleRequest
		field   string
		message string
	}{
		{"Required", sampleRequest{Level: ptr(1)}, "name", "Field 'name' is required."},
		{"OneOf", sampleRequest{Name: ptr("a"), Level: ptr(1), Kind: "QUIZ"}, "kind", "Field 'kind' must be one of: CHAPTER, EXAM."},
		{"Gte", sampleRequest{Name: ptr("a"), Level: ptr(-1)}, "level", "Field 'level' must be greater than or equal to 0."},
		{"Date", sampleRequest{Name: ptr("a"), Level: ptr(1), Date: "soon"}, "date", "Field 'date' must be a date (YYYY-MM-DD or RFC3339)."},
		{"Dive", sampleRequest{Name: ptr("a"), Level: ptr(1), Items: []sampleItem{{URL: "x"}, {}}}, "items[1].fileUrl", "Field 'items[1].fileUrl' is required."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			appErr := appError(t, ValidateStruct(&tc.in))
			assert.Equal(t, http.StatusBadRequest, appErr.Status)
			assert.Equal(t, CodeValidation, appErr.Code)
			assert.Equal(t, tc.message, appErr.Message)
			details, ok := appErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Equal(t, tc.message, details[tc.field])
		})
	}
}

func TestValidateStructOverrideMessage(t *testing.T) {
	appErr := appError(t, ValidateStruct(&sampleRequest{}, "All fields are required."))
	assert.Equal(t, "All fields are required.", appErr.Message)

	details := appErr.Details.(map[string]string)
	assert.Equal(t, "Field 'name' is required.", details["name"])
	assert.Equal(t, "Field 'level' is required.", details["level"])
}

func TestParseBody(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(NewNopLogger())})
	app.Post("/", func(c *fiber.Ctx) error {
		var in sampleRequest
		if err := ParseBody(c, &in); err != nil {
			return err
		}
		return OK(c, fiber.Map{"name": *in.Name, "level": *in.Level})
	})

	cases := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"Valid", `{"name":"a","level":2}`, http.StatusOK, ""},
		{"Empty", ``, http.StatusBadRequest, "Field 'name' is required."},
		{"Malformed", `{"name":`, http.StatusBadRequest, "Invalid request body: malformed JSON"},
		{"UnknownField", `{"name":"a","level":1,"extra":1}`, http.StatusBadRequest, `Invalid request body: unknown field "extra"`},
		{"WrongType", `{"name":"a","level":"high"}`, http.StatusBadRequest, "Invalid request body: field 'level' has the wrong type"},
		{"Trailing", `{"name":"a","level":1} {}`, http.StatusBadRequest, "Invalid request body: trailing data after JSON value"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)

			if tc.message != "" {
				var body ErrorResponse
				require.NoError(t, decodeJSON(resp.Body, &body))
				assert.Equal(t, tc.message, body.Error)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	day, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), day)

	stamp, err := ParseDate("2024-02-29T10:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, stamp.Hour())

	_, err = ParseDate("2023-02-29")
	assert.Error(t, err)

	assert.Panics(t, func() { MustParseDate("tomorrow") })
}
