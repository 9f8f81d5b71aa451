package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"edulearn/backend/config"
	"edulearn/backend/models"
	"edulearn/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testPassword = "password123"

type testServer struct {
	app *fiber.App
	db  *gorm.DB
	cfg *config.Config
}

// newTestServer builds the full app on a fresh SQLite file.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "0", ShutdownTimeout: time.Second},
		DB: config.DBConfig{
			Driver:       "sqlite",
			Path:         filepath.Join(t.TempDir(), "edulearn_test.db") + "?_busy_timeout=5000&_foreign_keys=on&_txlock=immediate",
			LogLevel:     "silent",
			MaxOpenConns: 4,
			MaxIdleConns: 4,
		},
		JWT:  config.JWTConfig{Secret: "testsecret", ExpiresIn: time.Hour},
		Log:  config.LogConfig{Mode: "development"},
		CORS: config.CORSConfig{AllowOrigins: "*"},
		Auth: config.AuthConfig{BcryptCost: bcrypt.MinCost},
	}

	db, err := utils.InitDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = utils.CloseDB(db) })
	require.NoError(t, models.AutoMigrate(db))

	app := NewApp(db, cfg, utils.NewNopLogger(), prometheus.NewRegistry())
	return &testServer{app: app, db: db, cfg: cfg}
}

// request sends body as JSON (nil for no body) and decodes the response into
// out when out is non-nil. It returns the status code.
func (s *testServer) request(t *testing.T, method, path string, body interface{}, token string, out interface{}) int {
	t.Helper()
	status, err := s.send(method, path, body, token, out)
	require.NoError(t, err)
	return status
}

// send is request without testing.T, for use from worker goroutines.
// A string body is sent verbatim.
func (s *testServer) send(method, path string, body interface{}, token string, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			encoded, err := json.Marshal(body)
			if err != nil {
				return 0, err
			}
			raw = string(encoded)
		}
		reader = bytes.NewBufferString(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return 0, err
		}
		if err := json.Unmarshal(data, out); err != nil {
			return 0, fmt.Errorf("decode %s: %w", data, err)
		}
	}
	return resp.StatusCode, nil
}

func teacherPayload(email string) map[string]interface{} {
	return map[string]interface{}{
		"fullName":    "Ada Lovelace",
		"gender":      "F",
		"joiningDate": "2023-01-01",
		"email":       email,
		"password":    testPassword,
		"dateOfBirth": "1990-01-01",
		"phone":       "123",
		"department":  "CS",
		"level":       1,
		"experience":  2,
	}
}

// createTeacher goes through the admin API and returns the new teacher's id.
func (s *testServer) createTeacher(t *testing.T, email string) string {
	t.Helper()
	status := s.request(t, http.MethodPost, "/api/admin/teacher/create", teacherPayload(email), "", nil)
	require.Equal(t, http.StatusCreated, status)

	var teacher models.Teacher
	require.NoError(t, s.db.Where("email = ?", email).First(&teacher).Error)
	return teacher.ID
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	var resp struct {
		Token string `json:"token"`
	}
	status := s.request(t, http.MethodPost, "/api/auth/login",
		map[string]string{"email": email, "password": password}, "", &resp)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// seedCourse creates a teacher, logs in as them and creates a course.
// It returns the course id and the teacher's token.
func (s *testServer) seedCourse(t *testing.T) (string, string) {
	t.Helper()
	teacherID := s.createTeacher(t, "owner@example.com")
	token := s.login(t, "owner@example.com", testPassword)
	return s.createCourse(t, token, teacherID), token
}

func (s *testServer) createCourse(t *testing.T, token, instructorID string) string {
	t.Helper()
	var course models.Course
	status := s.request(t, http.MethodPost, "/api/courses", map[string]interface{}{
		"title":        "Go 101",
		"description":  "Learn Go",
		"isFree":       false,
		"objectives":   []string{"syntax", "concurrency"},
		"instructorId": instructorID,
	}, token, &course)
	require.Equal(t, http.StatusCreated, status)
	return course.ID
}

func (s *testServer) createPart(t *testing.T, courseID string) string {
	t.Helper()
	var part models.Part
	status := s.request(t, http.MethodPost, "/api/courses/"+courseID+"/parts", map[string]interface{}{
		"title":          "Basics",
		"price":          10.5,
		"completionTime": 3,
		"openingDate":    "2024-02-01",
	}, "", &part)
	require.Equal(t, http.StatusCreated, status)
	return part.ID
}

func (s *testServer) createModule(t *testing.T, courseID, partID string, kind models.ModuleType) string {
	t.Helper()
	var module models.Module
	status := s.request(t, http.MethodPost, modulesPath(courseID, partID), map[string]string{"type": string(kind)}, "", &module)
	require.Equal(t, http.StatusCreated, status)
	return module.ID
}

func modulesPath(courseID, partID string) string {
	return "/api/courses/" + courseID + "/parts/" + partID + "/modules"
}

func (s *testServer) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.db.Model(model).Count(&n).Error)
	return n
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/", "/health"} {
		resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, healthMessage, string(body))
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.request(t, http.MethodGet, "/health", nil, "", nil)

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "edulearn_http_requests_total")
	assert.Contains(t, string(body), `route="/health"`)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	var body utils.ErrorResponse
	status := s.request(t, http.MethodGet, "/api/nope", nil, "", &body)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, body.Success)
}
