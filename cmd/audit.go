package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/officespace/internal/audit"
	"github.com/ziadkadry99/officespace/internal/db"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Maintain the audit trail",
}

var auditPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete audit entries older than a cutoff",
	Long: `Deletes audit entries recorded before --before, which may be a date
(2024-01-01), an RFC 3339 timestamp, a day count such as 90d or a duration
such as 720h. Without --before the configured audit.retention_days is used.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()
		ctx := context.Background()

		before, _ := cmd.Flags().GetString("before")
		if before == "" {
			if cfg.Audit.RetentionDays <= 0 {
				return fmt.Errorf("no cutoff: pass --before or set audit.retention_days")
			}
			before = fmt.Sprintf("%dd", cfg.Audit.RetentionDays)
		}
		cutoff, err := audit.ParseCutoff(before, time.Now())
		if err != nil {
			return err
		}

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			ok, err := confirm(fmt.Sprintf("Delete audit entries before %s", cutoff.UTC().Format(time.DateTime)))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Aborted.")
				return nil
			}
		}

		database, err := db.Open(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		n, err := audit.NewStore(database).DeleteBefore(ctx, cutoff)
		if err != nil {
			return err
		}
		logger.Info("audit entries pruned", zap.Int64("deleted", n), zap.Time("before", cutoff))
		fmt.Printf("Deleted %d audit entries.\n", n)
		return nil
	},
}

// pruneAudit applies audit.retention_days on server start.
func pruneAudit(ctx context.Context, store *audit.Store, days int, logger *zap.Logger) {
	n, err := store.Prune(ctx, days, time.Now())
	if err != nil {
		logger.Warn("pruning audit trail", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Info("audit entries pruned", zap.Int64("deleted", n), zap.Int("retention_days", days))
	}
}

func init() {
	auditPruneCmd.Flags().String("before", "", "cutoff date, timestamp, day count (90d) or duration (720h)")
	auditPruneCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	auditCmd.AddCommand(auditPruneCmd)
	rootCmd.AddCommand(auditCmd)
}
