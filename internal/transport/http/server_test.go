package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docutrack/internal/app"
	"docutrack/internal/repository"
	"docutrack/internal/transport/http/handler"
	"docutrack/internal/transport/http/response"
)

const testJWTSecret = "test-secret"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	notificationStore := repository.NewMemoryNotificationStore()
	documentStore := repository.NewMemoryDocumentStore()
	userStore := repository.NewMemoryUserStore()

	notifications := app.NewNotificationService(notificationStore, nil)
	return NewRouter(RouterDeps{
		JWTSecret:     testJWTSecret,
		Auth:          app.NewAuthService(userStore, testJWTSecret, time.Hour),
		Documents:     app.NewDocumentService(documentStore, nil, notifications),
		Notifications: notifications,
		Reports:       app.NewReportService(documentStore),
		Health:        handler.NewHealthHandler(nil, nil, nil),
	})
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func registerUser(t *testing.T, router *gin.Engine, email, role string) string {
	t.Helper()
	body := gin.H{
		"email":            email,
		"password":         "s3cret-pass",
		"confirm_password": "s3cret-pass",
		"first_name":       "Test",
		"last_name":        "User",
		"role":             role,
	}
	if role != "client" {
		body["organization"] = "DocuTrack Inc"
		body["department"] = "Operations"
	}
	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", body)
	require.Equal(t, 200, rec.Code, rec.Body.String())

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func uploadDocument(t *testing.T, router *gin.Engine, token, filename, content string) string {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.WriteField("client_name", "Acme Corp"))
	require.NoError(t, w.WriteField("department", "Legal"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, 200, rec.Code, rec.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var doc struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &doc))
	require.NotEmpty(t, doc.ID)
	return doc.ID
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t)
	rec, env := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, response.CodeOK, env.Code)
}

func TestAuthFlow(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "jane@acme.com", "client")

	// duplicate registration
	rec, env := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":            "jane@acme.com",
		"password":         "s3cret-pass",
		"confirm_password": "s3cret-pass",
		"first_name":       "Jane",
		"last_name":        "Doe",
		"role":             "client",
	})
	assert.Equal(t, 409, rec.Code)
	assert.Equal(t, response.CodeEmailExists, env.Code)

	// mismatched confirmation
	rec, env = doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":            "other@acme.com",
		"password":         "s3cret-pass",
		"confirm_password": "different",
		"first_name":       "Jane",
		"last_name":        "Doe",
		"role":             "client",
	})
	assert.Equal(t, 400, rec.Code)
	assert.Equal(t, response.CodeBadRequest, env.Code)

	// wrong password
	rec, env = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "jane@acme.com",
		"password": "wrong-pass",
	})
	assert.Equal(t, 401, rec.Code)
	assert.Equal(t, response.CodeInvalidCredentials, env.Code)

	// me
	rec, env = doJSON(t, router, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, 200, rec.Code)
	var me struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "jane@acme.com", me.Email)
	assert.Equal(t, "client", me.Role)
}

func TestDocumentsRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	rec, env := doJSON(t, router, http.MethodGet, "/api/v1/documents", "", nil)
	assert.Equal(t, 401, rec.Code)
	assert.Equal(t, response.CodeUnauthorized, env.Code)

	rec, _ = doJSON(t, router, http.MethodGet, "/api/v1/documents", "not-a-token", nil)
	assert.Equal(t, 401, rec.Code)
}

func TestDocumentLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "staff@company.com", "staff")

	id := uploadDocument(t, router, token, "contract.txt", "original body")

	// fetch and check defaults
	rec, env := doJSON(t, router, http.MethodGet, "/api/v1/documents/"+id, token, nil)
	require.Equal(t, 200, rec.Code)
	var doc struct {
		Status         string `json:"status"`
		DisplayStatus  string `json:"display_status"`
		CurrentVersion int    `json:"current_version"`
		UploadedBy     string `json:"uploaded_by"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &doc))
	assert.Equal(t, "assigned", doc.Status)
	assert.Equal(t, "pending", doc.DisplayStatus)
	assert.Equal(t, 1, doc.CurrentVersion)
	assert.Equal(t, "staff@company.com", doc.UploadedBy)

	// illegal jump straight to completed
	rec, env = doJSON(t, router, http.MethodPut, "/api/v1/documents/"+id, token, gin.H{"status": "completed"})
	assert.Equal(t, 400, rec.Code)
	assert.Equal(t, response.CodeIllegalTransition, env.Code)

	// legal transition
	rec, env = doJSON(t, router, http.MethodPut, "/api/v1/documents/"+id, token, gin.H{"status": "in-progress"})
	require.Equal(t, 200, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &doc))
	assert.Equal(t, "in-progress", doc.Status)
	assert.Equal(t, "processing", doc.DisplayStatus)

	// new version
	rec, env = doJSON(t, router, http.MethodPost, "/api/v1/documents/"+id+"/versions", token, gin.H{
		"content": "revised body",
		"notes":   "fix typo",
	})
	require.Equal(t, 200, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &doc))
	assert.Equal(t, 2, doc.CurrentVersion)

	// export
	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+id+"/export?format=pdf", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	exportRec := httptest.NewRecorder()
	router.ServeHTTP(exportRec, req)
	require.Equal(t, 200, exportRec.Code)
	assert.Contains(t, exportRec.Header().Get("Content-Disposition"), "contract.pdf")
	assert.True(t, strings.HasPrefix(exportRec.Body.String(), "%PDF-1.4\n"))

	// delete, then the document is gone
	rec, _ = doJSON(t, router, http.MethodDelete, "/api/v1/documents/"+id, token, nil)
	require.Equal(t, 200, rec.Code)

	rec, env = doJSON(t, router, http.MethodGet, "/api/v1/documents/"+id, token, nil)
	assert.Equal(t, 404, rec.Code)
	assert.Equal(t, response.CodeDocumentNotFound, env.Code)
}

func TestNotificationsOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "client@acme.com", "client")
	uploadDocument(t, router, token, "contract.txt", "body")

	// the upload notified the shared staff inbox
	rec, env := doJSON(t, router, http.MethodGet, "/api/v1/notifications?userId=staff@company.com", token, nil)
	require.Equal(t, 200, rec.Code)
	var items []struct {
		ID   uint   `json:"id"`
		Type string `json:"type"`
		Read bool   `json:"read"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, "document_assigned", items[0].Type)
	assert.False(t, items[0].Read)

	rec, env = doJSON(t, router, http.MethodGet, "/api/v1/notifications/unread-count?userId=staff@company.com", token, nil)
	require.Equal(t, 200, rec.Code)
	var count struct {
		Unread int64 `json:"unread"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &count))
	assert.Equal(t, int64(1), count.Unread)

	rec, _ = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/notifications/%d/read", items[0].ID), token, nil)
	require.Equal(t, 200, rec.Code)

	rec, env = doJSON(t, router, http.MethodGet, "/api/v1/notifications/unread-count?userId=staff@company.com", token, nil)
	require.Equal(t, 200, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &count))
	assert.Equal(t, int64(0), count.Unread)

	// missing notification
	rec, env = doJSON(t, router, http.MethodPost, "/api/v1/notifications/9999/read", token, nil)
	assert.Equal(t, 404, rec.Code)
	assert.Equal(t, response.CodeNotificationNotFound, env.Code)
}

func TestReportsRoleGate(t *testing.T) {
	router := newTestRouter(t)
	clientToken := registerUser(t, router, "client@acme.com", "client")
	staffToken := registerUser(t, router, "staff@company.com", "staff")
	uploadDocument(t, router, staffToken, "contract.txt", "body")

	rec, env := doJSON(t, router, http.MethodGet, "/api/v1/reports?type=analytics", clientToken, nil)
	assert.Equal(t, 403, rec.Code)
	assert.Equal(t, response.CodeForbidden, env.Code)

	rec, env = doJSON(t, router, http.MethodGet, "/api/v1/reports?type=analytics", staffToken, nil)
	require.Equal(t, 200, rec.Code)
	var report struct {
		TotalDocuments int `json:"total_documents"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, 1, report.TotalDocuments)

	rec, _ = doJSON(t, router, http.MethodGet, "/api/v1/reports?type=bogus", staffToken, nil)
	assert.Equal(t, 400, rec.Code)

	// rendered download
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports?type=processing&format=pdf", nil)
	req.Header.Set("Authorization", "Bearer "+staffToken)
	rendered := httptest.NewRecorder()
	router.ServeHTTP(rendered, req)
	require.Equal(t, 200, rendered.Code)
	assert.Contains(t, rendered.Header().Get("Content-Disposition"), "processing-report.pdf")
	assert.Contains(t, rendered.Body.String(), "DocuTrack Pro - Processing Staff Report")
}
