package handlers

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/orgsync/internal/models"
	"github.com/iudanet/orgsync/internal/server/storage"
	"github.com/iudanet/orgsync/pkg/api"
)

// mockBlobStorage is a mock implementation of BlobStorage for testing
type mockBlobStorage struct {
	blobs    map[string]*models.Blob // userID -> Blob
	getError error
	putError error
}

func newMockBlobStorage() *mockBlobStorage {
	return &mockBlobStorage{blobs: make(map[string]*models.Blob)}
}

func (m *mockBlobStorage) GetBlob(ctx context.Context, userID string) (*models.Blob, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	blob, ok := m.blobs[userID]
	if !ok {
		return nil, storage.ErrBlobNotFound
	}
	return blob, nil
}

func (m *mockBlobStorage) PutBlob(ctx context.Context, blob *models.Blob) error {
	if m.putError != nil {
		return m.putError
	}
	m.blobs[blob.UserID] = blob
	return nil
}

func (m *mockBlobStorage) DeleteBlob(ctx context.Context, userID string) error {
	if _, ok := m.blobs[userID]; !ok {
		return storage.ErrBlobNotFound
	}
	delete(m.blobs, userID)
	return nil
}

func blobRequest(method, userID string, payload []byte, ifMatch string) *http.Request {
	var req *http.Request
	if payload != nil {
		req = httptest.NewRequest(method, "/api/v1/blob", bytes.NewReader(payload))
	} else {
		req = httptest.NewRequest(method, "/api/v1/blob", nil)
	}
	if ifMatch != "" {
		req.Header.Set(api.HeaderIfMatch, ifMatch)
	}
	if userID != "" {
		ctx := context.WithValue(req.Context(), UserIDKey, userID)
		req = req.WithContext(ctx)
	}
	return req
}

func revisionOf(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func TestBlobHandler_Get_NotFound(t *testing.T) {
	h := NewBlobHandler(testLogger(), newMockBlobStorage())

	w := httptest.NewRecorder()
	h.HandleBlob(w, blobRequest(http.MethodGet, "user-1", nil, ""))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBlobHandler_Get_ReturnsPayloadAndETag(t *testing.T) {
	store := newMockBlobStorage()
	payload := []byte(`{"schemaVersion":1,"sequence":3}`)
	store.blobs["user-1"] = &models.Blob{
		UserID:    "user-1",
		Payload:   payload,
		Revision:  "rev-abc",
		Sequence:  3,
		UpdatedAt: time.Now(),
	}

	h := NewBlobHandler(testLogger(), store)

	w := httptest.NewRecorder()
	h.HandleBlob(w, blobRequest(http.MethodGet, "user-1", nil, ""))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rev-abc", w.Header().Get(api.HeaderETag))
	assert.Equal(t, payload, w.Body.Bytes())
}

func TestBlobHandler_Put_FirstWrite(t *testing.T) {
	store := newMockBlobStorage()
	h := NewBlobHandler(testLogger(), store)

	payload := []byte(`{"schemaVersion":1,"sequence":1}`)

	w := httptest.NewRecorder()
	h.HandleBlob(w, blobRequest(http.MethodPut, "user-1", payload, ""))

	require.Equal(t, http.StatusCreated, w.Code)

	var resp api.PutBlobResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, revisionOf(payload), resp.Revision)
	assert.Equal(t, int64(1), resp.Sequence)
	assert.Equal(t, resp.Revision, w.Header().Get(api.HeaderETag))

	stored := store.blobs["user-1"]
	require.NotNil(t, stored)
	assert.Equal(t, payload, stored.Payload)
}

func TestBlobHandler_Put_ConditionalUpdate(t *testing.T) {
	store := newMockBlobStorage()
	h := NewBlobHandler(testLogger(), store)

	first := []byte(`{"schemaVersion":1,"sequence":1}`)
	w := httptest.NewRecorder()
	h.HandleBlob(w, blobRequest(http.MethodPut, "user-1", first, ""))
	require.Equal(t, http.StatusCreated, w.Code)

	second := []byte(`{"schemaVersion":1,"sequence":2}`)
	w = httptest.NewRecorder()
	h.HandleBlob(w, blobRequest(http.MethodPut, "user-1", second, revisionOf(first)))

	require.Equal(t, http.StatusOK, w.Code)

	var resp api.PutBlobResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, revisionOf(second), resp.Revision)
	assert.Equal(t, int64(2), resp.Sequence)
}

func TestBlobHandler_Put_RevisionMismatch(t *testing.T) {
	store := newMockBlobStorage()
	h := NewBlobHandler(testLogger(), store)

	first := []byte(`{"schemaVersion":1,"sequence":1}`)
	w := httptest.NewRecorder()
	h.HandleBlob(w, blobRequest(http.MethodPut, "user-1", first, ""))
	require.Equal(t, http.StatusCreated, w.Code)

	// Другое устройство успело записать: наша ожидаемая ревизия устарела
	stale := []byte(`{"schemaVersion":1,"sequence":2}`)
	w = httptest.NewRecorder()
	h.HandleBlob(w, blobRequest(http.MethodPut, "user-1", stale, "some-stale-revision"))

	assert.Equal(t, http.StatusConflict, w.Code)

	// Запись не прошла
	assert.Equal(t, first, store.blobs["user-1"].Payload)
}

func TestBlobHandler_Put_ConcurrentSameRevision(t *testing.T) {
	store := newMockBlobStorage()
	h := NewBlobHandler(testLogger(), store)

	first := []byte(`{"schemaVersion":1,"sequence":1}`)
	w := httptest.NewRecorder()
	h.HandleBlob(w, blobRequest(http.MethodPut, "user-1", first, ""))
	require.Equal(t, http.StatusCreated, w.Code)

	// Два устройства пишут одновременно по одной и той же ревизии:
	// пройти conditional write должно ровно одно
	payloads := [][]byte{
		[]byte(`{"schemaVersion":1,"sequence":2}`),
		[]byte(`{"schemaVersion":1,"sequence":3}`),
	}
	codes := make([]int, len(payloads))

	var wg sync.WaitGroup
	for i, payload := range payloads {
		wg.Add(1)
		go func(i int, payload []byte) {
			defer wg.Done()
			rec := httptest.NewRecorder()
			h.HandleBlob(rec, blobRequest(http.MethodPut, "user-1", payload, revisionOf(first)))
			codes[i] = rec.Code
		}(i, payload)
	}
	wg.Wait()

	sort.Ints(codes)
	assert.Equal(t, []int{http.StatusOK, http.StatusConflict}, codes)
}

func TestBlobHandler_Put_FirstWriteWithIfMatchConflicts(t *testing.T) {
	store := newMockBlobStorage()
	h := NewBlobHandler(testLogger(), store)

	// If-Match указывает на ревизию, но blob еще не существует
	payload := []byte(`{"schemaVersion":1,"sequence":1}`)
	w := httptest.NewRecorder()
	h.HandleBlob(w, blobRequest(http.MethodPut, "user-1", payload, "phantom-revision"))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Empty(t, store.blobs)
}

func TestBlobHandler_Put_InvalidPayload(t *testing.T) {
	h := NewBlobHandler(testLogger(), newMockBlobStorage())

	w := httptest.NewRecorder()
	h.HandleBlob(w, blobRequest(http.MethodPut, "user-1", []byte("not json at all"), ""))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBlobHandler_Put_EmptyPayload(t *testing.T) {
	h := NewBlobHandler(testLogger(), newMockBlobStorage())

	w := httptest.NewRecorder()
	h.HandleBlob(w, blobRequest(http.MethodPut, "user-1", []byte{}, ""))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBlobHandler_MissingUserID(t *testing.T) {
	h := NewBlobHandler(testLogger(), newMockBlobStorage())

	w := httptest.NewRecorder()
	h.HandleBlob(w, blobRequest(http.MethodGet, "", nil, ""))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBlobHandler_MethodNotAllowed(t *testing.T) {
	h := NewBlobHandler(testLogger(), newMockBlobStorage())

	w := httptest.NewRecorder()
	h.HandleBlob(w, blobRequest(http.MethodDelete, "user-1", nil, ""))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
