package cli

import (
	"context"
	"fmt"
	"time"
)

func (c *Cli) runConflicts(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "clear" {
		if err := c.store.ClearConflicts(ctx); err != nil {
			return fmt.Errorf("failed to clear conflicts: %w", err)
		}
		fmt.Fprintln(c.out, "✓ Conflict log cleared.")
		return nil
	}

	conflicts := c.store.Conflicts()
	if len(conflicts) == 0 {
		fmt.Fprintln(c.out, "No conflicts recorded.")
		return nil
	}

	fmt.Fprintf(c.out, "%d conflict notification(s), most recent first:\n", len(conflicts))
	fmt.Fprintln(c.out)
	for i, conflict := range conflicts {
		fmt.Fprintf(c.out, "%d. [%s] %s/%s\n", i+1, conflict.Mode, conflict.EntityKind, conflict.ItemID)
		fmt.Fprintf(c.out, "   at %s: %s\n", conflict.CreatedAt.Format(time.RFC3339), conflict.Reason)
	}
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "This device's version won in each case. Run 'orgsync conflicts clear' to dismiss.")
	return nil
}

func (c *Cli) runQueue(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "clear" {
		if err := c.queue.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear queue: %w", err)
		}
		fmt.Fprintln(c.out, "✓ Operation queue cleared.")
		return nil
	}

	items, err := c.queue.Items(ctx)
	if err != nil {
		return fmt.Errorf("failed to list queue: %w", err)
	}
	if len(items) == 0 {
		fmt.Fprintln(c.out, "Operation queue is empty.")
		return nil
	}

	fmt.Fprintf(c.out, "%d queued operation(s):\n", len(items))
	for i, item := range items {
		fmt.Fprintf(c.out, "%d. %s (%s), queued %s\n",
			i+1, item.Type, item.ID, item.CreatedAt.Format(time.RFC3339))
		if item.LastError != "" {
			fmt.Fprintf(c.out, "   last error: %s\n", item.LastError)
		}
	}
	return nil
}

func (c *Cli) runHealth(ctx context.Context) error {
	state := c.health.State()

	fmt.Fprintln(c.out, "=== Sync Health ===")
	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "Saves: %d total, %d ok, %d failed\n",
		state.TotalSaves, state.SuccessfulSaves, state.FailedSaves)
	fmt.Fprintf(c.out, "Loads: %d total, %d ok, %d failed\n",
		state.TotalLoads, state.SuccessfulLoads, state.FailedLoads)
	if state.SuccessfulSaves+state.SuccessfulLoads > 0 {
		fmt.Fprintf(c.out, "Avg latency: %.0f ms\n", state.AvgLatencyMs)
	}

	if len(state.Events) == 0 {
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, "No sync activity recorded yet.")
		return nil
	}

	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "Last %d event(s), most recent first:\n", len(state.Events))
	for _, event := range state.Events {
		line := fmt.Sprintf("  %s %-4s %-7s %4dms",
			event.At.Format("2006-01-02 15:04:05"), event.Kind, event.Status, event.LatencyMs)
		if event.Details != "" {
			line += "  " + event.Details
		}
		fmt.Fprintln(c.out, line)
	}
	return nil
}
