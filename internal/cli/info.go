package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/crator-sh/crator/pkg/errors"
)

// infoCommand creates the "info" command: retrieve one crate's metadata
// and print it.
func (c *CLI) infoCommand() *cobra.Command {
	var (
		refresh bool
		noCache bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "info <crate>",
		Short: "Retrieve and display metadata for a crate",
		Long: `Retrieve metadata for a crate from crates.io and display it.

Records are cached according to the configured cache backend and TTL;
use --refresh to bypass the cache for this call, or --no-cache to skip
caching entirely.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			name := args[0]

			store := c.newCache(ctx, noCache)
			defer store.Close()

			spinner := newSpinner(ctx, fmt.Sprintf("Fetching %s...", name))
			spinner.Start()
			prog := newProgress(logger)
			rec, cached, err := c.lookup(ctx, store, c.newClient(), name, refresh)
			spinner.Stop()
			if err != nil {
				return err
			}
			if cached {
				logger.Debug("record served from cache", "crate", name)
			} else {
				prog.done(fmt.Sprintf("Fetched %s", name))
			}

			if asJSON {
				return printRecordJSON(cmd, rec)
			}

			fmt.Println(StyleTitle.Render(rec.Name))
			printKeyValue("Latest", "v"+rec.Latest)
			printKeyNumber("Versions", strconv.Itoa(rec.Versions))
			printKeyNumber("Downloads", rec.Downloads)
			printKeyNumber("Total", strconv.FormatUint(rec.TotalDownloads, 10))
			printKeyValue("Created", rec.CreatedAt)
			printKeyValue("Updated", rec.UpdatedAt)
			if rec.License != "" {
				printKeyValue("License", rec.License)
			}
			printSource(cached)
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache for this call")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching entirely")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the record as JSON")

	return cmd
}

// printRecordJSON writes the record to stdout as indented JSON.
func printRecordJSON(cmd *cobra.Command, rec any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode record")
	}
	return nil
}
