package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/iudanet/orgsync/pkg/api"
)

// Ошибки blob-протокола, которые sync-слой сопоставляет со своими
// явными result-типами
var (
	// ErrBlobNotFound на сервере еще нет snapshot-документа (404)
	ErrBlobNotFound = errors.New("remote blob not found")

	// ErrConflict conditional write отвергнут: ревизия на сервере
	// изменилась с момента чтения (409)
	ErrConflict = errors.New("remote revision changed")

	// ErrAuthExpired access token невалиден или истек (401)
	ErrAuthExpired = errors.New("access token expired")

	// ErrRateLimited сервер ограничил частоту запросов (403)
	ErrRateLimited = errors.New("rate limited by server")
)

// BlobDownload результат чтения snapshot-документа
type BlobDownload struct {
	Payload  []byte // сериализованный snapshot как есть
	Revision string // маркер ревизии (ETag)
}

// GetBlob читает текущий snapshot-документ и маркер его ревизии
func (c *Client) GetBlob(ctx context.Context, accessToken string) (*BlobDownload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+api.BlobPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get blob request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch resp.StatusCode {
	case http.StatusOK:
		// Обрабатывается ниже
	case http.StatusNotFound:
		return nil, ErrBlobNotFound
	case http.StatusUnauthorized:
		return nil, ErrAuthExpired
	case http.StatusForbidden:
		return nil, ErrRateLimited
	default:
		return nil, fmt.Errorf("get blob failed with status %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob payload: %w", err)
	}

	return &BlobDownload{
		Payload:  payload,
		Revision: resp.Header.Get(api.HeaderETag),
	}, nil
}

// PutBlob выполняет conditional write snapshot-документа.
// expectedRevision — ревизия, полученная при последнем чтении; пустая строка
// означает "документа еще не было" и заголовок If-Match не передается.
func (c *Client) PutBlob(ctx context.Context, accessToken string, payload []byte, expectedRevision string) (*api.PutBlobResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+api.BlobPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	if expectedRevision != "" {
		req.Header.Set(api.HeaderIfMatch, expectedRevision)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("put blob request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// Обрабатывается ниже
	case http.StatusConflict:
		return nil, ErrConflict
	case http.StatusUnauthorized:
		return nil, ErrAuthExpired
	case http.StatusForbidden:
		return nil, ErrRateLimited
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("put blob failed with status %d: %s", resp.StatusCode, string(body))
	}

	var putResp api.PutBlobResponse
	if err := json.NewDecoder(resp.Body).Decode(&putResp); err != nil {
		return nil, fmt.Errorf("failed to decode put response: %w", err)
	}

	return &putResp, nil
}
