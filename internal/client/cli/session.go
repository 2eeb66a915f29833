package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/orgsync/internal/client/auth"
)

func (c *Cli) runRegister(ctx context.Context) error {
	fmt.Fprintln(c.out, "=== Register ===")
	fmt.Fprintln(c.out)

	username, err := c.readInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}

	password, err := c.readPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	userID, err := c.authService.Register(ctx, username, password)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "✓ Registration successful!")
	fmt.Fprintf(c.out, "User ID: %s\n", userID)
	fmt.Fprintln(c.out, "Run 'orgsync login' to start a session.")
	return nil
}

func (c *Cli) runLogin(ctx context.Context) error {
	fmt.Fprintln(c.out, "=== Login ===")
	fmt.Fprintln(c.out)

	username, err := c.readInput("Username: ")
	if err != nil {
		return fmt.Errorf("failed to read username: %w", err)
	}

	password, err := c.readPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	if err := c.authService.Login(ctx, username, password); err != nil {
		return err
	}

	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "✓ Login successful!")

	// Свежий логин — хороший момент подобрать изменения других устройств
	if _, err := c.syncService.Pull(ctx, mustToken(ctx, c.authService)); err != nil {
		fmt.Fprintf(c.out, "Warning: initial pull failed: %v\n", err)
	}

	return nil
}

func (c *Cli) runLogout(ctx context.Context) error {
	if err := c.authService.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "✓ Logged out. Local data is kept on this device.")
	return nil
}

func (c *Cli) runStatus(ctx context.Context) error {
	fmt.Fprintln(c.out, "=== Status ===")
	fmt.Fprintln(c.out)

	authData, err := c.authService.Current(ctx)
	if err != nil {
		if errors.Is(err, auth.ErrNotAuthenticated) {
			fmt.Fprintln(c.out, "Session: not authenticated")
			fmt.Fprintln(c.out, "Run 'orgsync login' to authenticate.")
			return nil
		}
		return fmt.Errorf("failed to check session: %w", err)
	}

	expiresAt := time.Unix(authData.ExpiresAt, 0)
	fmt.Fprintf(c.out, "Session: %s\n", authData.Username)
	fmt.Fprintf(c.out, "Token expires: %s\n", expiresAt.Format(time.RFC3339))

	status := c.scheduler.Status()
	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "Sync state: %s\n", status.State)
	if status.Dirty {
		fmt.Fprintln(c.out, "Pending changes: yes")
	} else {
		fmt.Fprintln(c.out, "Pending changes: no")
	}
	if !status.LastSyncAt.IsZero() {
		fmt.Fprintf(c.out, "Last sync: %s\n", status.LastSyncAt.Format(time.RFC3339))
	}
	if !status.RateLimitedUntil.IsZero() {
		fmt.Fprintf(c.out, "Rate limited until: %s\n", status.RateLimitedUntil.Format(time.RFC3339))
	}

	if c.degraded != nil && c.degraded() {
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "⚠️  Storage degraded: disk quota exceeded, changes are held in memory only")
	}

	conflicts := c.store.Conflicts()
	if len(conflicts) > 0 {
		fmt.Fprintln(c.out)
		fmt.Fprintf(c.out, "⚠️  %d conflict notification(s). Run 'orgsync conflicts' to review.\n", len(conflicts))
	}

	return nil
}

// mustToken возвращает access token или пустую строку; ошибки авторизации
// всплывут в самом сетевом вызове
func mustToken(ctx context.Context, s *auth.Service) string {
	token, err := s.AccessToken(ctx)
	if err != nil {
		return ""
	}
	return token
}
