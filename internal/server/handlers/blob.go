package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/iudanet/orgsync/internal/models"
	"github.com/iudanet/orgsync/internal/server/storage"
	"github.com/iudanet/orgsync/pkg/api"
)

// contextKey тип для ключей контекста
type contextKey string

const (
	// UserIDKey ключ для хранения user_id в контексте
	UserIDKey contextKey = "user_id"
	// UsernameKey ключ для хранения username в контексте
	UsernameKey contextKey = "username"
)

// MaxBlobSize потолок размера snapshot payload (10 MiB)
const MaxBlobSize = 10 << 20

// GetUserID извлекает user_id из контекста запроса
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok
}

// GetUsername извлекает username из контекста запроса
func GetUsername(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok
}

// BlobHandler обрабатывает чтение и запись snapshot blob.
// Сервер не интерпретирует payload кроме поля sequence:
// merge выполняется на клиенте, сервер хранит документ как есть
// и защищает его conditional write по маркеру ревизии.
type BlobHandler struct {
	logger  *slog.Logger
	storage storage.BlobStorage

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewBlobHandler creates a new blob handler
func NewBlobHandler(logger *slog.Logger, storage storage.BlobStorage) *BlobHandler {
	return &BlobHandler{
		logger:  logger,
		storage: storage,
		locks:   make(map[string]*sync.Mutex),
	}
}

// userLock возвращает mutex пользователя: проверка ревизии и запись
// должны быть атомарны относительно конкурентных PUT того же пользователя
func (h *BlobHandler) userLock(userID string) *sync.Mutex {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		h.locks[userID] = l
	}
	return l
}

// HandleBlob обрабатывает GET и PUT запросы для /api/v1/blob
func (h *BlobHandler) HandleBlob(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		h.logger.Error("User ID not found in context")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGetBlob(w, r, userID)
	case http.MethodPut:
		h.handlePutBlob(w, r, userID)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// handleGetBlob обрабатывает GET /api/v1/blob
// Возвращает payload как есть с текущей ревизией в ETag,
// 404 если пользователь еще ничего не записывал
func (h *BlobHandler) handleGetBlob(w http.ResponseWriter, r *http.Request, userID string) {
	ctx := r.Context()

	blob, err := h.storage.GetBlob(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			h.logger.Debug("blob not found", "user_id", userID)
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to get blob", "error", err, "user_id", userID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(api.HeaderETag, blob.Revision)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(blob.Payload); err != nil {
		h.logger.Error("failed to write blob payload", "error", err)
	}

	h.logger.Info("GET blob completed",
		"user_id", userID,
		"revision", blob.Revision,
		"bytes", len(blob.Payload))
}

// handlePutBlob обрабатывает PUT /api/v1/blob
// Conditional write: If-Match с ожидаемой ревизией ("" для первой записи).
// При расхождении с текущей ревизией возвращает 409 без записи
func (h *BlobHandler) handlePutBlob(w http.ResponseWriter, r *http.Request, userID string) {
	ctx := r.Context()

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBlobSize))
	if err != nil {
		h.logger.Warn("failed to read blob payload", "error", err, "user_id", userID)
		http.Error(w, "Payload too large or unreadable", http.StatusRequestEntityTooLarge)
		return
	}
	if len(payload) == 0 {
		http.Error(w, "Empty payload", http.StatusBadRequest)
		return
	}

	// Sequence нужен только для диагностики ответа,
	// остальное содержимое payload сервер не трактует
	var envelope struct {
		Sequence int64 `json:"sequence"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		h.logger.Warn("blob payload is not valid JSON", "error", err, "user_id", userID)
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	expectedRevision := r.Header.Get(api.HeaderIfMatch)

	// Конкурентные PUT одного пользователя сериализуются: оба не могут
	// пройти проверку по одной и той же ревизии
	lock := h.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	currentRevision := ""
	existing, err := h.storage.GetBlob(ctx, userID)
	switch {
	case err == nil:
		currentRevision = existing.Revision
	case errors.Is(err, storage.ErrBlobNotFound):
		// первая запись пользователя
	default:
		h.logger.Error("failed to get current blob", "error", err, "user_id", userID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if expectedRevision != currentRevision {
		h.logger.Info("conditional write rejected",
			"user_id", userID,
			"expected", expectedRevision,
			"current", currentRevision)
		http.Error(w, "Conflict: revision mismatch", http.StatusConflict)
		return
	}

	sum := sha256.Sum256(payload)
	newRevision := hex.EncodeToString(sum[:])

	blob := &models.Blob{
		UserID:    userID,
		Payload:   payload,
		Revision:  newRevision,
		Sequence:  envelope.Sequence,
		UpdatedAt: time.Now(),
	}

	if err := h.storage.PutBlob(ctx, blob); err != nil {
		h.logger.Error("failed to put blob", "error", err, "user_id", userID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if currentRevision == "" {
		status = http.StatusCreated
	}

	resp := api.PutBlobResponse{
		Revision: newRevision,
		Sequence: envelope.Sequence,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(api.HeaderETag, newRevision)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}

	h.logger.Info("PUT blob completed",
		"user_id", userID,
		"revision", newRevision,
		"sequence", envelope.Sequence,
		"bytes", len(payload))
}
