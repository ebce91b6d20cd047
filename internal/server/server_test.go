package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"hiringdesk/resume-intake/internal/auth"
	"hiringdesk/resume-intake/internal/config"
	"hiringdesk/resume-intake/internal/handlers"
	"hiringdesk/resume-intake/internal/repositories/repotest"
	"hiringdesk/resume-intake/internal/services"
)

const (
	maxUpload   = 4096
	strongText  = "Sales intern with a year of experience. Client revenue, customer leads and closing deals in Salesforce CRM and Excel."
	weakText    = "Warehouse picker. Forklift certified."
	middleText  = "Sales executive with 3 years experience using Salesforce CRM to grow client revenue and close leads."
	adminEmail  = "admin@acme.io"
	adminPasswd = "admin-password"
)

// textParser treats the uploaded bytes as the extracted text.
type textParser struct{}

func (textParser) ExtractText(path string) (string, error) { return path, nil }

func (textParser) ExtractTextFromBytes(data []byte) (string, error) { return string(data), nil }

type testEnv struct {
	app   *fiber.App
	store *repotest.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := repotest.NewStore()

	tokens := auth.NewTokenService(config.JWTConfig{Secret: "server-test-secret-with-enough-bytes", ExpirationHours: 1})
	hasher := auth.NewPasswordHasher(config.PasswordConfig{BcryptCost: bcrypt.MinCost})

	stats := services.NewStatsService(store.ResumeRepo(), nil)
	accounts := services.NewAccountService(store.UserRepo(), tokens, hasher)
	intake := services.NewIntakeService(
		store.BatchRepo(),
		store.ResumeRepo(),
		services.NewLocalStorage(t.TempDir()),
		textParser{},
		stats,
		maxUpload,
	)

	app := New(Options{
		Tokens:        tokens,
		AuthHandler:   handlers.NewAuthHandler(accounts),
		BatchHandler:  handlers.NewBatchHandler(store.BatchRepo(), store.ResumeRepo(), stats),
		UploadHandler: handlers.NewUploadHandler(intake, maxUpload),
		ResultHandler: handlers.NewResultHandler(store.ResumeRepo(), stats, intake),
	})
	return &testEnv{app: app, store: store}
}

func (e *testEnv) do(t *testing.T, req *http.Request, token string) (int, []byte) {
	t.Helper()
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func (e *testEnv) doJSON(t *testing.T, method, path, token string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	status, body := e.do(t, req, token)
	var out map[string]interface{}
	if len(body) > 0 && body[0] == '{' {
		require.NoError(t, json.Unmarshal(body, &out))
	}
	return status, out
}

func (e *testEnv) upload(t *testing.T, token string, fields map[string]string, filename, content string) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("resume", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/resume/upload", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())

	status, body := e.do(t, req, token)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out))
	return status, out
}

func (e *testEnv) registerAdmin(t *testing.T, email string) string {
	t.Helper()
	status, body := e.doJSON(t, fiber.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"company_name": "Acme",
		"name":         "Admin",
		"email":        email,
		"password":     adminPasswd,
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	return body["token"].(string)
}

func (e *testEnv) createBatch(t *testing.T, token, role string) string {
	t.Helper()
	status, body := e.doJSON(t, fiber.MethodPost, "/api/v1/batch", token, map[string]string{"role": role})
	require.Equal(t, fiber.StatusCreated, status, body)
	return body["id"].(string)
}

func TestHealthAndIndex(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.doJSON(t, fiber.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])

	status, body = env.doJSON(t, fiber.MethodGet, "/", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, body["endpoints"])
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.registerAdmin(t, adminEmail)

	status, body := env.doJSON(t, fiber.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"company_name": "Other", "name": "Dup", "email": "ADMIN@acme.io", "password": adminPasswd,
	})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "email already registered", body["error"])

	status, body = env.doJSON(t, fiber.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"company_name": "Acme", "name": "Short", "email": "short@acme.io", "password": "short",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "validation error: Password - min", body["error"])

	status, body = env.doJSON(t, fiber.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"company_name": "Acme", "name": "Long", "email": "long@acme.io", "password": strings.Repeat("x", 80),
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "validation error: Password - max", body["error"])

	// 40 runes pass the tag but exceed bcrypt's 72-byte input.
	status, body = env.doJSON(t, fiber.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"company_name": "Acme", "name": "Accents", "email": "accents@acme.io", "password": strings.Repeat("é", 40),
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "password is too long: at most 72 bytes", body["error"])

	status, body = env.doJSON(t, fiber.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": adminEmail, "password": "wrong-password",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "invalid email or password", body["error"])

	status, body = env.doJSON(t, fiber.MethodGet, "/api/v1/auth/me", adminToken, nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, adminEmail, body["email"])
	assert.Equal(t, "admin", body["role"])
	assert.NotContains(t, body, "password_hash")

	status, _ = env.doJSON(t, fiber.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestUsers_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	adminToken := env.registerAdmin(t, adminEmail)

	status, body := env.doJSON(t, fiber.MethodPost, "/api/v1/users", adminToken, map[string]string{
		"name": "Rick", "email": "rick@acme.io", "password": "recruiting", "role": "recruiter",
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	assert.Equal(t, "recruiter", body["role"])

	status, body = env.doJSON(t, fiber.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "rick@acme.io", "password": "recruiting",
	})
	require.Equal(t, fiber.StatusOK, status)
	recruiterToken := body["token"].(string)

	status, body = env.doJSON(t, fiber.MethodPost, "/api/v1/users", recruiterToken, map[string]string{
		"name": "Eve", "email": "eve@acme.io", "password": "recruiting", "role": "admin",
	})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "Forbidden", body["error"])

	// Recruiters still reach the intake endpoints.
	env.createBatch(t, recruiterToken, "Sales Fresher")
}

func TestBatchLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAdmin(t, adminEmail)

	status, body := env.doJSON(t, fiber.MethodPost, "/api/v1/batch", token, map[string]string{"role": "  "})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "role is required", body["error"])

	batchID := env.createBatch(t, token, "Sales Fresher")

	for _, tc := range []struct{ name, text string }{
		{"middle.pdf", middleText},
		{"weak.pdf", weakText},
		{"strong.PDF", strongText},
	} {
		status, body := env.upload(t, token, map[string]string{"batchId": batchID}, tc.name, tc.text)
		require.Equal(t, fiber.StatusCreated, status, body)
		assert.Equal(t, true, body["success"])
	}

	status, raw := env.do(t, httptest.NewRequest(fiber.MethodGet, "/api/v1/batch/"+batchID+"/results", nil), token)
	require.Equal(t, fiber.StatusOK, status)

	var results struct {
		BatchID       string `json:"batch_id"`
		Role          string `json:"role"`
		RankedResumes []struct {
			ID       string `json:"id"`
			Filename string `json:"filename"`
			Score    int    `json:"score"`
			Verdict  string `json:"verdict"`
			RawText  string `json:"raw_text"`
		} `json:"rankedResumes"`
	}
	require.NoError(t, json.Unmarshal(raw, &results))
	assert.Equal(t, batchID, results.BatchID)
	assert.Equal(t, "Sales Fresher", results.Role)
	require.Len(t, results.RankedResumes, 3)

	assert.Equal(t, "strong.PDF", results.RankedResumes[0].Filename)
	assert.Equal(t, 75, results.RankedResumes[0].Score)
	assert.Equal(t, "HIRE", results.RankedResumes[0].Verdict)
	assert.Equal(t, "middle.pdf", results.RankedResumes[1].Filename)
	assert.Equal(t, "MAYBE", results.RankedResumes[1].Verdict)
	assert.Equal(t, "weak.pdf", results.RankedResumes[2].Filename)
	assert.Equal(t, 0, results.RankedResumes[2].Score)
	for _, r := range results.RankedResumes {
		assert.Empty(t, r.RawText)
	}

	status, body = env.doJSON(t, fiber.MethodGet, "/api/v1/batch/"+batchID+"/stats", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, map[string]interface{}{"total": 3.0, "hire": 1.0, "maybe": 1.0, "reject": 1.0}, body)

	status, body = env.doJSON(t, fiber.MethodGet, "/api/v1/stats", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 3.0, body["total"])

	status, body = env.doJSON(t, fiber.MethodGet, "/api/v1/resume/"+results.RankedResumes[0].ID, token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, strongText, body["raw_text"])
	assert.Equal(t, "HIRE", body["auto_hire_verdict"])
	assert.Equal(t, []interface{}{"Strong sales keywords detected", "Score 75 meets auto-hire threshold"}, body["reasons"])

	status, raw = env.do(t, httptest.NewRequest(fiber.MethodGet, "/api/v1/batch", nil), token)
	require.Equal(t, fiber.StatusOK, status)
	var batches []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &batches))
	require.Len(t, batches, 1)
	assert.Equal(t, batchID, batches[0]["id"])
}

func TestBatch_NotFoundAndBadID(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAdmin(t, adminEmail)

	status, body := env.doJSON(t, fiber.MethodGet, "/api/v1/batch/"+uuid.NewString()+"/results", token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Batch not found", body["error"])

	status, body = env.doJSON(t, fiber.MethodGet, "/api/v1/batch/not-a-uuid/stats", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid batch ID format", body["error"])
}

func TestUpload_Validation(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAdmin(t, adminEmail)
	batchID := env.createBatch(t, token, "Sales Fresher")

	tests := []struct {
		name     string
		fields   map[string]string
		filename string
		content  string
		status   int
		message  string
	}{
		{"missing file", map[string]string{"batchId": batchID}, "", "", fiber.StatusBadRequest, "No file uploaded"},
		{"missing batch", nil, "cv.pdf", middleText, fiber.StatusBadRequest, "batchId is required"},
		{"malformed batch", map[string]string{"batchId": "42"}, "cv.pdf", middleText, fiber.StatusBadRequest, "Invalid batchId format"},
		{"unknown batch", map[string]string{"batchId": uuid.NewString()}, "cv.pdf", middleText, fiber.StatusNotFound, "Batch not found"},
		{"too large", map[string]string{"batchId": batchID}, "cv.pdf", string(make([]byte, maxUpload+1)), fiber.StatusBadRequest, "Resume file too large. Max size: 4096 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.upload(t, token, tt.fields, tt.filename, tt.content)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.message, body["error"])
		})
	}

	status, body := env.upload(t, token, map[string]string{"batchId": batchID}, "cv.docx", middleText)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["error"], "invalid file")

	status, _ = env.upload(t, "", map[string]string{"batchId": batchID}, "cv.pdf", middleText)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	assert.Empty(t, env.store.Resumes)
}

func TestTenantIsolation(t *testing.T) {
	env := newTestEnv(t)
	acme := env.registerAdmin(t, adminEmail)
	globex := env.registerAdmin(t, "admin@globex.io")

	batchID := env.createBatch(t, acme, "Sales Fresher")
	status, body := env.upload(t, acme, map[string]string{"batchId": batchID}, "cv.pdf", middleText)
	require.Equal(t, fiber.StatusCreated, status)
	resumeID := body["resume"].(map[string]interface{})["id"].(string)

	status, _ = env.doJSON(t, fiber.MethodGet, "/api/v1/resume/"+resumeID, globex, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = env.doJSON(t, fiber.MethodGet, "/api/v1/batch/"+batchID+"/results", globex, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = env.upload(t, globex, map[string]string{"batchId": batchID}, "cv.pdf", middleText)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Batch not found", body["error"])

	status, body = env.doJSON(t, fiber.MethodGet, "/api/v1/stats", globex, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 0.0, body["total"])
}

func TestScorePreview(t *testing.T) {
	env := newTestEnv(t)
	token := env.registerAdmin(t, adminEmail)

	status, body := env.doJSON(t, fiber.MethodPost, "/api/v1/score", token, map[string]string{"text": middleText})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 60.0, body["score"])
	assert.Equal(t, "MAYBE", body["verdict"])
	assert.Equal(t, map[string]interface{}{"keywords": 20.0, "experience": 20.0, "tech": 20.0, "quality": 0.0}, body["breakdown"])
	assert.Equal(t, "MAYBE", body["auto_hire"].(map[string]interface{})["verdict"])

	assert.Empty(t, env.store.Resumes)
}
