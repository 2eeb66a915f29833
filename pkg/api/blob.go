package api

// Протокол blob store: один версионированный snapshot-документ на пользователя.
//
//	GET  /api/v1/blob  -> 200 (payload + ETag) | 404
//	PUT  /api/v1/blob  -> 200 {revision} | 409 Conflict | 401 | 403 (rate limit)
//
// Маркер ревизии (ETag) — hex SHA-256 от сохраненных байт payload.
// Conditional PUT передает ожидаемую ревизию в заголовке If-Match;
// при расхождении сервер отвечает 409 и клиент обязан re-pull + merge.

const (
	// BlobPath путь blob endpoint
	BlobPath = "/api/v1/blob"

	// HeaderETag заголовок с текущей ревизией payload
	HeaderETag = "ETag"
	// HeaderIfMatch заголовок с ожидаемой ревизией для conditional PUT
	HeaderIfMatch = "If-Match"
	// HeaderRetryAfter заголовок с рекомендуемой задержкой при rate limit
	HeaderRetryAfter = "Retry-After"
)

// PutBlobResponse представляет ответ на успешную запись blob
type PutBlobResponse struct {
	Revision string `json:"revision"` // новая ревизия (hex SHA-256 payload)
	Sequence int64  `json:"sequence"` // sequence записанного snapshot (диагностика)
}
