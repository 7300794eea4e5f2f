// Package webtest builds a fiber app over an in-memory store for handler tests.
package webtest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/auth"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/circulation"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/config"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/controller/book"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/models"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/seed"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/db/tx"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/orchestrator"
	"github.com/div-dhingra/role-based-access-control-system-full-stack/internal/web/handler"
)

// Cheap hashing keeps the tests fast.
var testParams = &argon2id.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

// Env is one app with its store.
type Env struct {
	App *fiber.App
	DB  *gorm.DB
	Svc *orchestrator.Service
	Cfg *config.Config
}

// Config returns a minimal valid configuration.
func Config() *config.Config {
	return &config.Config{
		Title:     "library-test",
		Webserver: config.Webserver{Port: 3000, URL: "http://localhost:3000", FastShutDown: true},
		Library:   config.Library{OverdueMonths: 1, MaxOverdueBooks: 3, StoreTimeout: 10 * time.Second},
	}
}

// New opens a seeded in-memory database and registers handlers on a fresh app.
func New(t *testing.T, handlers ...handler.Service) *Env {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...), "failed to migrate test database")
	require.NoError(t, seed.Roles(db, auth.DefaultRoles()))
	require.NoError(t, seed.Grants(db, auth.DefaultGrants()))

	ledger, err := auth.NewService(db, 64)
	require.NoError(t, err)

	cfg := Config()
	svc := orchestrator.New(
		tx.New(db, cfg.Library.StoreTimeout),
		ledger,
		circulation.NewPolicy(cfg.Library.OverdueMonths, cfg.Library.MaxOverdueBooks),
		orchestrator.WithPasswordParams(testParams),
	)

	app := fiber.New()
	for _, h := range handlers {
		h.Init(app, cfg, svc)
	}

	return &Env{App: app, DB: db, Svc: svc, Cfg: cfg}
}

// Do sends a request with body encoded as JSON and decodes the JSON response.
// A string body is sent as is.
func (e *Env) Do(t *testing.T, method, target string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader

	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)

		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if reader != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := e.App.Test(req, -1)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), "response is not a JSON object: %s", raw)
	}

	return resp.StatusCode, out
}

// AddBook stores a title directly.
func (e *Env) AddBook(t *testing.T, id string, total, available int) {
	t.Helper()
	require.NoError(t, book.Create(e.DB, &models.Book{
		BookISBNID: id, Title: "Title " + id, Author: "Author", PublishedYear: 2001,
		TotalBookCount: total, AvailableCount: available,
	}))
}

// Book loads a title directly.
func (e *Env) Book(t *testing.T, id string) *models.Book {
	t.Helper()

	b, err := book.Get(e.DB, id)
	require.NoError(t, err)

	return b
}

// AddStudent registers a student and activates the account.
func (e *Env) AddStudent(t *testing.T, id, name string) {
	t.Helper()

	ctx := context.Background()

	_, err := e.Svc.SignUpOrLogin(ctx, orchestrator.SignUpRequest{
		Role: auth.RoleStudent, UserID: id, UserName: name, Password: "pw",
	})
	require.NoError(t, err)

	active := true
	librarian := orchestrator.Caller{
		Role:     auth.RoleLibrarian,
		Resource: auth.ResourceUsers,
		Action:   auth.ActionUpdate,
		Column:   auth.ColumnActiveStatus,
	}
	require.NoError(t, e.Svc.UpdateActiveStatus(ctx, librarian, id, &active))
}
