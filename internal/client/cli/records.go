package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/iudanet/orgsync/internal/models"
)

func (c *Cli) runAdd(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: orgsync add <collection> key=value [key=value ...]")
	}
	collection := args[0]

	fields, err := parseFields(args[1:])
	if err != nil {
		return err
	}

	rec, err := c.store.AddRecord(ctx, collection, models.Record(fields))
	if err != nil {
		return fmt.Errorf("failed to add record: %w", err)
	}

	fmt.Fprintf(c.out, "✓ Added to %s: %s\n", collection, rec.ID())
	return nil
}

func (c *Cli) runUpdate(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: orgsync update <collection> <id> key=value [key=value ...]")
	}
	collection, id := args[0], args[1]

	fields, err := parseFields(args[2:])
	if err != nil {
		return err
	}
	fields[models.FieldID] = id

	if _, err := c.store.UpdateRecord(ctx, collection, models.Record(fields)); err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}

	fmt.Fprintf(c.out, "✓ Updated %s in %s\n", id, collection)
	return nil
}

func (c *Cli) runList(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: orgsync list <collection>")
	}
	collection := args[0]

	records := c.store.ListRecords(collection)
	if len(records) == 0 {
		fmt.Fprintf(c.out, "No records in %s.\n", collection)
		return nil
	}

	fmt.Fprintf(c.out, "Found %d record(s) in %s:\n", len(records), collection)
	fmt.Fprintln(c.out)

	for i, rec := range records {
		fmt.Fprintf(c.out, "%d. %s\n", i+1, rec.ID())

		keys := make([]string, 0, len(rec))
		for key := range rec {
			if key == models.FieldID {
				continue
			}
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(c.out, "   %-10s %v\n", key+":", rec[key])
		}
		fmt.Fprintln(c.out)
	}

	return nil
}

func (c *Cli) runDelete(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: orgsync delete <collection> <id>")
	}
	collection, id := args[0], args[1]

	if err := c.store.DeleteRecord(ctx, collection, id); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	fmt.Fprintf(c.out, "✓ Deleted %s from %s\n", id, collection)
	return nil
}

func (c *Cli) runTrack(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: orgsync track <YYYY-MM-DD> <field> <value>")
	}
	date, field, value := args[0], args[1], args[2]

	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}

	if err := c.store.SetTracking(ctx, date, field, value); err != nil {
		return fmt.Errorf("failed to set tracking field: %w", err)
	}

	fmt.Fprintf(c.out, "✓ %s: %s = %s\n", date, field, value)
	return nil
}
