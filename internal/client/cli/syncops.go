package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	syncclient "github.com/iudanet/orgsync/internal/client/sync"
)

func (c *Cli) runSync(ctx context.Context) error {
	fmt.Fprintln(c.out, "Synchronizing...")

	token, err := c.authService.AccessToken(ctx)
	if err != nil {
		return err
	}

	result := c.syncService.Push(ctx, token)
	switch result.Status {
	case syncclient.PushOK:
		fmt.Fprintln(c.out, "✓ Synchronized.")
		fmt.Fprintf(c.out, "Revision: %s, sequence: %d\n", result.Revision, result.Sequence)
		if conflicts := c.store.Conflicts(); len(conflicts) > 0 {
			fmt.Fprintf(c.out, "⚠️  %d conflict notification(s) recorded. Run 'orgsync conflicts' to review.\n", len(conflicts))
		}
		if err := c.queue.Drain(ctx); err != nil {
			fmt.Fprintf(c.out, "Warning: queue drain failed: %v\n", err)
		}
		return nil
	case syncclient.PushConflict:
		return fmt.Errorf("another device wrote concurrently, run 'orgsync sync' again: %w", result.Err)
	case syncclient.PushAuthExpired:
		return fmt.Errorf("session expired, run 'orgsync login': %w", result.Err)
	case syncclient.PushRateLimited:
		return fmt.Errorf("server asked to slow down, try again later: %w", result.Err)
	case syncclient.PushFatal:
		return fmt.Errorf("remote snapshot is unusable: %w", result.Err)
	default:
		return fmt.Errorf("synchronization failed: %w", result.Err)
	}
}

func (c *Cli) runPull(ctx context.Context) error {
	fmt.Fprintln(c.out, "Pulling remote changes...")

	token, err := c.authService.AccessToken(ctx)
	if err != nil {
		return err
	}

	result, err := c.syncService.Pull(ctx, token)
	if err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}
	if result.NotFound {
		fmt.Fprintln(c.out, "No remote data yet. Run 'orgsync sync' to publish this device's state.")
		return nil
	}

	fmt.Fprintf(c.out, "✓ Pulled revision %s.\n", result.Revision)
	if conflicts := c.store.Conflicts(); len(conflicts) > 0 {
		fmt.Fprintf(c.out, "⚠️  %d conflict notification(s) recorded.\n", len(conflicts))
	}
	return nil
}

// runWatch запускает фоновый планировщик до SIGINT/SIGTERM.
// Перед выходом планировщик выталкивает несохраненные изменения.
func (c *Cli) runWatch(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := c.scheduler.Restore(ctx); err != nil {
		return fmt.Errorf("failed to restore sync state: %w", err)
	}

	fmt.Fprintln(c.out, "Watching for changes. Press Ctrl+C to stop.")
	return c.scheduler.Run(ctx)
}
