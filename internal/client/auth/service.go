// Package auth реализует клиентскую сторону аутентификации: регистрацию,
// логин, хранение токенов и прозрачный refresh истекшего access token.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	httpClient "github.com/iudanet/orgsync/internal/client/api"
	"github.com/iudanet/orgsync/internal/client/storage"
	"github.com/iudanet/orgsync/internal/validation"
	pkgapi "github.com/iudanet/orgsync/pkg/api"
)

// ErrNotAuthenticated пользователь не залогинен на этом устройстве
var ErrNotAuthenticated = errors.New("not authenticated, run login first")

// refreshLeeway запас до истечения access token, после которого токен
// обновляется проактивно
const refreshLeeway = 30 * time.Second

// Service предоставляет функции авторизации
type Service struct {
	apiClient httpClient.ClientAPI
	authStore storage.AuthStorage
	logger    *slog.Logger
	now       func() time.Time

	// mu сериализует refresh: параллельные вызовы AccessToken не должны
	// гонять один refresh token дважды (сервер ротирует его)
	mu sync.Mutex
}

// NewService создает новый сервис авторизации
func NewService(apiClient httpClient.ClientAPI, authStore storage.AuthStorage, logger *slog.Logger) *Service {
	return &Service{
		apiClient: apiClient,
		authStore: authStore,
		logger:    logger,
		now:       time.Now,
	}
}

// SetClock подменяет часы (тесты)
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Register регистрирует нового пользователя. Сессию не открывает:
// после регистрации нужен явный Login.
func (s *Service) Register(ctx context.Context, username, password string) (string, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return "", fmt.Errorf("invalid username: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return "", fmt.Errorf("invalid password: %w", err)
	}

	resp, err := s.apiClient.Register(ctx, pkgapi.RegisterRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return "", fmt.Errorf("registration failed: %w", err)
	}

	s.logger.Info("user registered", "username", username)
	return resp.UserID, nil
}

// Login выполняет аутентификацию и сохраняет токены локально
func (s *Service) Login(ctx context.Context, username, password string) error {
	if err := validation.ValidateUsername(username); err != nil {
		return fmt.Errorf("invalid username: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}

	resp, err := s.apiClient.Login(ctx, pkgapi.LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	auth := &storage.AuthData{
		Username:     username,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    s.now().Unix() + resp.ExpiresIn,
	}
	if err := s.authStore.SaveAuth(ctx, auth); err != nil {
		return fmt.Errorf("failed to save auth data: %w", err)
	}

	s.logger.Info("logged in", "username", username)
	return nil
}

// Logout удаляет локальные данные авторизации.
// Refresh token на сервере протухнет сам по TTL.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.authStore.DeleteAuth(ctx); err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return nil
		}
		return fmt.Errorf("failed to delete local auth data: %w", err)
	}
	return nil
}

// Current возвращает сохраненные данные авторизации
func (s *Service) Current(ctx context.Context) (*storage.AuthData, error) {
	auth, err := s.authStore.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, err
	}
	return auth, nil
}

// AccessToken возвращает действующий access token, при необходимости
// выполняя refresh с ротацией refresh token. Реализует источник токенов
// для планировщика синхронизации.
func (s *Service) AccessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	auth, err := s.Current(ctx)
	if err != nil {
		return "", err
	}

	if s.now().Unix() < auth.ExpiresAt-int64(refreshLeeway.Seconds()) {
		return auth.AccessToken, nil
	}

	s.logger.Debug("access token expiring, refreshing")
	resp, err := s.apiClient.Refresh(ctx, pkgapi.RefreshRequest{
		RefreshToken: auth.RefreshToken,
	})
	if err != nil {
		return "", fmt.Errorf("token refresh failed: %w", err)
	}

	auth.AccessToken = resp.AccessToken
	auth.RefreshToken = resp.RefreshToken
	auth.ExpiresAt = s.now().Unix() + resp.ExpiresIn
	if err := s.authStore.SaveAuth(ctx, auth); err != nil {
		return "", fmt.Errorf("failed to save refreshed tokens: %w", err)
	}

	return auth.AccessToken, nil
}
