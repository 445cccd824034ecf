package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/studyforge/studyforge/auth"
	"github.com/studyforge/studyforge/database"
	"github.com/studyforge/studyforge/githubapi"
	"github.com/studyforge/studyforge/llm"
	"github.com/studyforge/studyforge/models"
	"github.com/studyforge/studyforge/storage"
)

// stubProvider stands in for a real LLM vendor in handler tests.
type stubProvider struct {
	name  string
	calls int
	reply func(req *llm.ProviderRequest) *llm.ProviderResponse
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) ExecuteTask(ctx context.Context, req *llm.ProviderRequest) *llm.ProviderResponse {
	p.calls++
	if p.reply != nil {
		return p.reply(req)
	}
	return &llm.ProviderResponse{Content: "stub reply"}
}

type testEnv struct {
	router   *gin.Engine
	h        *Handlers
	db       *gorm.DB
	provider *stubProvider
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	files, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	provider := &stubProvider{name: "ollama"}
	h := &Handlers{
		DB:         db,
		Logger:     zerolog.Nop(),
		Auth:       auth.NewManager("handler-test-secret", time.Hour),
		Dispatcher: llm.NewDispatcher(llm.NewRegistry("ollama", provider)),
		Proposals:  llm.NewProposalCache(),
		Files:      files,
		GitHub:     githubapi.NewClient("id", "secret", "", "", zerolog.Nop()),
	}

	router := gin.New()
	Register(router, h)
	return &testEnv{router: router, h: h, db: db, provider: provider}
}

// do performs one request against the in-memory API.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
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
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

// registerUser creates a user in the given tenant (empty slug means the
// default tenant) and returns its bearer token.
func (e *testEnv) registerUser(t *testing.T, email, slug string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":      email,
		"password":   "password123",
		"tenantSlug": slug,
	})
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	return decode[models.AuthResponse](t, w).Token
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// createTenant seeds an extra tenant directly.
func (e *testEnv) createTenant(t *testing.T, name, slug string) *models.Tenant {
	t.Helper()
	tn := &models.Tenant{Name: name, Slug: slug, Active: true, Plan: "free", MaxUsers: 5}
	require.NoError(t, e.db.Create(tn).Error)
	return tn
}
