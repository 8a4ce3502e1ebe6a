package handlers

import (
	"EteKeeper/internal/config"
	"EteKeeper/internal/middleware"
	"EteKeeper/internal/service"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CollectionHandler обрабатывает операции над коллекциями.
type CollectionHandler struct {
	CollectionService *service.CollectionService
	Logger            *zap.SugaredLogger
	Config            *config.Config
}

// NewCollectionHandler создаёт хендлер collections
func NewCollectionHandler(collectionService *service.CollectionService, logger *zap.SugaredLogger, cfg *config.Config) *CollectionHandler {
	return &CollectionHandler{CollectionService: collectionService, Logger: logger, Config: cfg}
}

// Create — POST /api/v1/collection/
func (h *CollectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody())
	var payload service.CollectionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.Logger.Warnw("CreateCollection: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if payload.UID == "" || payload.Content.UID == "" {
		http.Error(w, "missing uid", http.StatusBadRequest)
		return
	}

	view, err := h.CollectionService.Create(r.Context(), userID, payload)
	if err != nil {
		status, msg := statusForError(err)
		if status == http.StatusInternalServerError {
			h.Logger.Errorw("CreateCollection: service error", "uid", payload.UID, "error", err)
		}
		http.Error(w, msg, status)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// List — GET /api/v1/collection/
func (h *CollectionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	views, err := h.CollectionService.List(r.Context(), userID, inlineRequested(r))
	if err != nil {
		status, msg := statusForError(err)
		if status == http.StatusInternalServerError {
			h.Logger.Errorw("ListCollections: service error", "user", userID, "error", err)
		}
		http.Error(w, msg, status)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// Get — GET /api/v1/collection/{collectionUID}/
func (h *CollectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	uid := chi.URLParam(r, "collectionUID")
	view, err := h.CollectionService.Get(r.Context(), userID, uid, inlineRequested(r))
	if err != nil {
		status, msg := statusForError(err)
		if status == http.StatusInternalServerError {
			h.Logger.Errorw("GetCollection: service error", "uid", uid, "error", err)
		}
		http.Error(w, msg, status)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Update — PUT /api/v1/collection/{collectionUID}/ заменяет контент
// коллекции новой ревизией main-элемента.
func (h *CollectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody())
	var payload service.RevisionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.Logger.Warnw("UpdateCollection: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if payload.UID == "" {
		http.Error(w, "missing revision uid", http.StatusBadRequest)
		return
	}

	uid := chi.URLParam(r, "collectionUID")
	view, err := h.CollectionService.Update(r.Context(), userID, uid, payload)
	if err != nil {
		status, msg := statusForError(err)
		if status == http.StatusInternalServerError {
			h.Logger.Errorw("UpdateCollection: service error", "uid", uid, "error", err)
		}
		http.Error(w, msg, status)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *CollectionHandler) maxBody() int64 {
	// запас поверх лимита чанка: base64 и метаданные
	return int64(h.Config.BlobMaxSizeMB)*1024*1024*2 + 1*1024*1024
}
