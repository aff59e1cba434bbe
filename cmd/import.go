package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/officespace/internal/importer"
	"github.com/ziadkadry99/officespace/internal/progress"
)

var importCmd = &cobra.Command{
	Use:   "import <file|glob>...",
	Short: "Import office assignments from CSV or XLSX rosters",
	Long: `Reads rosters with Room Number, Full Name, Appointment Type, Start Date
and End Date columns and appends their rows to the database. Arguments may be
files or doublestar globs such as "rosters/**/*.csv".`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()
		ctx := withUser(context.Background())

		b, err := openBackend(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer b.Close()

		exclude, _ := cmd.Flags().GetStringSlice("exclude")
		im := importer.New(b.svc,
			importer.WithLogger(logger),
			importer.WithReporter(progress.NewReporter("Importing rosters")),
			importer.WithExclude(exclude...),
		)

		summaries, runErr := im.Run(ctx, args)
		inserted := 0
		for _, s := range summaries {
			inserted += s.Inserted
			fmt.Printf("%s: %d rows processed, %d inserted, %d skipped", s.File, s.Processed, s.Inserted, s.Skipped)
			if s.BadDates > 0 {
				fmt.Printf(", %d bad dates dropped", s.BadDates)
			}
			fmt.Println()
			if len(s.MissingHeaders) > 0 {
				fmt.Fprintf(os.Stderr, "  Warning: missing columns %v\n", s.MissingHeaders)
			}
		}
		fmt.Printf("Imported %d assignments from %d files.\n", inserted, len(summaries))
		return runErr
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file.xlsx>",
	Short: "Export every office assignment to an XLSX workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()
		ctx := context.Background()

		b, err := openBackend(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer b.Close()

		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("creating %s: %w", args[0], err)
		}
		n, err := importer.Export(ctx, b.svc.Store(), f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("exporting to %s: %w", args[0], err)
		}
		fmt.Printf("Exported %d assignments to %s\n", n, args[0])
		return nil
	},
}

func init() {
	importCmd.Flags().StringSlice("exclude", nil, "glob patterns of files to skip")
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}
