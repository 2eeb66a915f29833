package models

import "time"

// User представляет пользователя blob store
type User struct {
	ID           string     `json:"id"`            // UUID пользователя
	Username     string     `json:"username"`      // уникальный username
	PasswordHash string     `json:"password_hash"` // bcrypt хеш пароля
	CreatedAt    time.Time  `json:"created_at"`    // время создания
	LastLogin    *time.Time `json:"last_login"`    // время последнего входа (nil если не входил)
}

// RefreshToken представляет refresh token пользователя
type RefreshToken struct {
	Token     string    `json:"token"`      // значение токена (base64, 32 случайных байта)
	UserID    string    `json:"user_id"`    // ID пользователя
	ExpiresAt time.Time `json:"expires_at"` // время истечения
	CreatedAt time.Time `json:"created_at"` // время создания
}

// Blob представляет сохраненный snapshot-документ пользователя
type Blob struct {
	UserID    string    `json:"user_id"`    // владелец (один blob на пользователя)
	Payload   []byte    `json:"payload"`    // сериализованный snapshot как есть
	Revision  string    `json:"revision"`   // hex SHA-256 от payload (маркер ревизии / ETag)
	Sequence  int64     `json:"sequence"`   // sequence из snapshot (диагностика порядка записей)
	UpdatedAt time.Time `json:"updated_at"` // время последней записи
}
