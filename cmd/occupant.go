package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/officespace/internal/client"
	"github.com/ziadkadry99/officespace/internal/config"
	"github.com/ziadkadry99/officespace/internal/importer"
	"github.com/ziadkadry99/officespace/internal/occupancy"
)

// occupants is what the occupant subcommands need from either the local
// database or a remote server.
type occupants interface {
	Search(ctx context.Context, q string) ([]occupancy.Record, error)
	Add(ctx context.Context, officeID string, in occupancy.Input) (occupancy.Record, error)
	Delete(ctx context.Context, id int64) error
	Close()
}

type localOccupants struct{ b *backend }

func (l localOccupants) Search(ctx context.Context, q string) ([]occupancy.Record, error) {
	return l.b.svc.Store().Search(ctx, q)
}

func (l localOccupants) Add(ctx context.Context, officeID string, in occupancy.Input) (occupancy.Record, error) {
	return l.b.svc.Add(ctx, officeID, in)
}

func (l localOccupants) Delete(ctx context.Context, id int64) error {
	_, err := l.b.svc.Delete(ctx, id)
	return err
}

func (l localOccupants) Close() { l.b.Close() }

type remoteOccupants struct{ c *client.Client }

func (r remoteOccupants) Search(ctx context.Context, q string) ([]occupancy.Record, error) {
	return r.c.SearchOccupants(ctx, q)
}

func (r remoteOccupants) Add(ctx context.Context, officeID string, in occupancy.Input) (occupancy.Record, error) {
	return r.c.AddOccupant(ctx, officeID, in)
}

func (r remoteOccupants) Delete(ctx context.Context, id int64) error {
	return r.c.DeleteOccupant(ctx, id)
}

func (r remoteOccupants) Close() {}

var occupantRemote string

func openOccupants(ctx context.Context, cfg *config.Config, logger *zap.Logger) (occupants, error) {
	if occupantRemote != "" {
		c, err := remoteClient(cfg, occupantRemote, logger)
		if err != nil {
			return nil, err
		}
		return remoteOccupants{c: c}, nil
	}
	b, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return localOccupants{b: b}, nil
}

var occupantCmd = &cobra.Command{
	Use:   "occupant",
	Short: "List, add and remove office occupants",
}

var occupantListCmd = &cobra.Command{
	Use:   "list [name]",
	Short: "List occupants, optionally filtered by name",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()
		ctx := context.Background()

		occ, err := openOccupants(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer occ.Close()

		q := ""
		if len(args) == 1 {
			q = args[0]
		}
		records, err := occ.Search(ctx, q)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No occupants found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tOFFICE\tNAME\tAPPOINTMENT\tTEMPORARY\tSTART\tEND")
		for _, r := range records {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				r.ID, r.OfficeID, r.FullName, dash(r.AppointmentType), yesNo(r.Temporary), dash(r.StartDate), dash(r.EndDate))
		}
		return w.Flush()
	},
}

var occupantAddCmd = &cobra.Command{
	Use:   "add <office> <name>",
	Short: "Assign a person to an office",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()
		ctx := withUser(context.Background())

		in := occupancy.Input{Name: args[1]}
		in.AppointmentType, _ = cmd.Flags().GetString("appointment")
		start, _ := cmd.Flags().GetString("start")
		end, _ := cmd.Flags().GetString("end")
		if in.StartDate, err = optionalDate(start); err != nil {
			return err
		}
		if in.EndDate, err = optionalDate(end); err != nil {
			return err
		}
		if cmd.Flags().Changed("temporary") {
			temp, _ := cmd.Flags().GetBool("temporary")
			in.Temporary = &temp
		}

		occ, err := openOccupants(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer occ.Close()

		r, err := occ.Add(ctx, args[0], in)
		if err != nil {
			return err
		}
		fmt.Printf("Added %s to office %s (id %d)\n", r.FullName, args[0], r.ID)
		return nil
	},
}

var occupantDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove an occupant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid occupant id %q", args[0])
		}
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()
		ctx := withUser(context.Background())

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			ok, err := confirm(fmt.Sprintf("Remove occupant %d", id))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Aborted.")
				return nil
			}
		}

		occ, err := openOccupants(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer occ.Close()

		if err := occ.Delete(ctx, id); err != nil {
			if errors.Is(err, occupancy.ErrNotFound) {
				return fmt.Errorf("no occupant with id %d", id)
			}
			return err
		}
		fmt.Printf("Removed occupant %d\n", id)
		return nil
	},
}

// confirm asks a yes/no question on the terminal. Answering no is not an
// error.
func confirm(label string) (bool, error) {
	p := promptui.Prompt{Label: label, IsConfirm: true}
	if _, err := p.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// optionalDate accepts the roster date formats and returns ISO.
func optionalDate(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	return importer.ParseDate(s)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func init() {
	occupantCmd.PersistentFlags().StringVar(&occupantRemote, "remote", "", "base URL of an officespace server to use instead of the local database")

	occupantAddCmd.Flags().String("appointment", "", "appointment type")
	occupantAddCmd.Flags().String("start", "", "start date (M/D/YY, M/D/YYYY or YYYY-MM-DD)")
	occupantAddCmd.Flags().String("end", "", "end date; implies --temporary")
	occupantAddCmd.Flags().Bool("temporary", false, "mark the assignment temporary")

	occupantDeleteCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")

	occupantCmd.AddCommand(occupantListCmd, occupantAddCmd, occupantDeleteCmd)
	rootCmd.AddCommand(occupantCmd)
}
