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

// ItemHandler обрабатывает операции над элементами коллекции.
type ItemHandler struct {
	ItemService *service.ItemService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

// NewItemHandler создаёт хендлер items
func NewItemHandler(itemService *service.ItemService, logger *zap.SugaredLogger, cfg *config.Config) *ItemHandler {
	return &ItemHandler{ItemService: itemService, Logger: logger, Config: cfg}
}

// Create — POST /api/v1/collection/{collectionUID}/item/
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody())
	var payload service.ItemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.Logger.Warnw("CreateItem: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if payload.UID == "" || payload.Content.UID == "" {
		http.Error(w, "missing uid", http.StatusBadRequest)
		return
	}

	colUID := chi.URLParam(r, "collectionUID")
	view, err := h.ItemService.Create(r.Context(), userID, colUID, payload)
	if err != nil {
		status, msg := statusForError(err)
		if status == http.StatusInternalServerError {
			h.Logger.Errorw("CreateItem: service error", "collection", colUID, "item", payload.UID, "error", err)
		}
		http.Error(w, msg, status)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// List — GET /api/v1/collection/{collectionUID}/item/
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	colUID := chi.URLParam(r, "collectionUID")
	views, err := h.ItemService.List(r.Context(), userID, colUID, inlineRequested(r))
	if err != nil {
		status, msg := statusForError(err)
		if status == http.StatusInternalServerError {
			h.Logger.Errorw("ListItems: service error", "collection", colUID, "error", err)
		}
		http.Error(w, msg, status)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// Get — GET /api/v1/collection/{collectionUID}/item/{itemUID}
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	colUID := chi.URLParam(r, "collectionUID")
	itemUID := chi.URLParam(r, "itemUID")
	view, err := h.ItemService.Get(r.Context(), userID, colUID, itemUID, inlineRequested(r))
	if err != nil {
		status, msg := statusForError(err)
		if status == http.StatusInternalServerError {
			h.Logger.Errorw("GetItem: service error", "collection", colUID, "item", itemUID, "error", err)
		}
		http.Error(w, msg, status)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Update — PUT /api/v1/collection/{collectionUID}/item/{itemUID}
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody())
	var payload service.RevisionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.Logger.Warnw("UpdateItem: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if payload.UID == "" {
		http.Error(w, "missing revision uid", http.StatusBadRequest)
		return
	}

	colUID := chi.URLParam(r, "collectionUID")
	itemUID := chi.URLParam(r, "itemUID")
	view, err := h.ItemService.Update(r.Context(), userID, colUID, itemUID, payload)
	if err != nil {
		status, msg := statusForError(err)
		if status == http.StatusInternalServerError {
			h.Logger.Errorw("UpdateItem: service error", "collection", colUID, "item", itemUID, "error", err)
		}
		http.Error(w, msg, status)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *ItemHandler) maxBody() int64 {
	return int64(h.Config.BlobMaxSizeMB)*1024*1024*2 + 1*1024*1024
}
