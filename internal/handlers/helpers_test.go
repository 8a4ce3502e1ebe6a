package handlers_test

import (
	"EteKeeper/internal/blobstore"
	"EteKeeper/internal/config"
	"EteKeeper/internal/handlers"
	"EteKeeper/internal/middleware"
	"EteKeeper/internal/repo"
	"EteKeeper/internal/service"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

const testSecret = "test-secret"

// testUID дополняет seed нулями до валидной 44-символьной формы uid.
func testUID(seed string) string {
	return seed + strings.Repeat("0", 44-len(seed))
}

// newTestServer поднимает полный стек хендлеров поверх in-memory SQLite
// и memory-blobstore.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	dsn := "file:handlers_" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	db, err := gorm.Open(dial, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	if err := repo.Migrate(db); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}

	cfg := &config.Config{AuthSecret: testSecret, BlobMaxSizeMB: 1}
	logger := zap.NewNop().Sugar()

	chunks := repo.NewChunkStore(blobstore.NewMemory())
	userSvc := service.NewUserService(repo.NewUserRepository(db))
	collectionSvc := service.NewCollectionService(repo.NewCollectionRepository(db, chunks), repo.NewItemRepository(db, chunks), chunks, logger)
	itemSvc := service.NewItemService(repo.NewCollectionRepository(db, chunks), repo.NewItemRepository(db, chunks), chunks, logger)

	h := handlers.NewHandler(userSvc, collectionSvc, itemSvc, logger, cfg)
	return h.Router
}

func addAuthCookie(t *testing.T, req *http.Request, userID int64) {
	t.Helper()
	rr := httptest.NewRecorder()
	_ = middleware.SetLoginCookie(rr, userID, testSecret)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
}

// doJSON выполняет запрос с JSON-телом от имени userID (0 — аноним).
func doJSON(t *testing.T, router http.Handler, method, path string, userID int64, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(raw)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		addAuthCookie(t, req, userID)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// registerUser регистрирует пользователя через API и возвращает его id.
func registerUser(t *testing.T, router http.Handler, login string) int64 {
	t.Helper()
	rr := doJSON(t, router, http.MethodPost, "/api/user/register", 0,
		map[string]string{"login": login, "password": "p@ss"})
	if rr.Code != http.StatusOK {
		t.Fatalf("register %s: status %d, body %s", login, rr.Code, rr.Body.String())
	}
	var resp struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("register %s: bad response: %v", login, err)
	}
	return resp.ID
}
