package handlers

import (
	"EteKeeper/internal/codec"
	"EteKeeper/internal/config"
	"EteKeeper/internal/middleware"
	"EteKeeper/internal/repo"
	"EteKeeper/internal/service"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	collectionService *service.CollectionService,
	itemService *service.ItemService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	// Handlers
	userHandler := NewUserHandler(userService, logger, config)
	collectionHandler := NewCollectionHandler(collectionService, logger, config)
	itemHandler := NewItemHandler(itemService, logger, config)

	// User routes
	r.Post("/api/user/register", userHandler.Register)
	r.Post("/api/user/login", userHandler.Login)
	r.Post("/api/user/test", userHandler.Status)

	// Collection/item routes
	r.Route("/api/v1/collection", func(r chi.Router) {
		r.Get("/", collectionHandler.List)
		r.Post("/", collectionHandler.Create)
		r.Route("/{collectionUID}", func(r chi.Router) {
			r.Get("/", collectionHandler.Get)
			r.Put("/", collectionHandler.Update)
			r.Route("/item", func(r chi.Router) {
				r.Get("/", itemHandler.List)
				r.Post("/", itemHandler.Create)
				r.Get("/{itemUID}", itemHandler.Get)
				r.Put("/{itemUID}", itemHandler.Update)
			})
		})
	})

	return &Handler{Router: r}
}

// statusForError переводит ошибки сервисного слоя в HTTP-коды.
// Ошибки атомарных операций к этому моменту уже откатили транзакцию.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, service.ErrUIDTaken):
		return http.StatusConflict, "uid already in use"
	case errors.Is(err, repo.ErrDuplicateChunk):
		return http.StatusConflict, "chunk already exists"
	case errors.Is(err, repo.ErrItemHasRevisions):
		return http.StatusConflict, "item already has revisions"
	case errors.Is(err, repo.ErrNoCurrentRevision):
		return http.StatusConflict, "no current revision"
	case errors.Is(err, repo.ErrChunkNotFound):
		return http.StatusBadRequest, "unknown chunk reference"
	case errors.Is(err, codec.ErrInvalidEncoding):
		return http.StatusBadRequest, "invalid base64 payload"
	case errors.Is(err, service.ErrInvalidUID):
		return http.StatusBadRequest, "invalid uid"
	case errors.Is(err, service.ErrMalformedChunks):
		return http.StatusBadRequest, "malformed chunk list"
	case errors.Is(err, service.ErrReadOnlyMember):
		return http.StatusForbidden, "read-only access"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// inlineRequested — флаг ?inline=true: чанки отдаются с содержимым.
func inlineRequested(r *http.Request) bool {
	return r.URL.Query().Get("inline") == "true"
}
