package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/officespace/internal/app"
	"github.com/ziadkadry99/officespace/internal/occupancy"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a floor to SVG",
	Long:  `Draws one floor with its current occupants as an SVG document, from the local database or a remote officespace server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync()
		ctx := context.Background()

		floor, _ := cmd.Flags().GetInt("floor")
		remote, _ := cmd.Flags().GetString("remote")
		output, _ := cmd.Flags().GetString("output")

		var source app.Source
		if remote != "" {
			c, err := remoteClient(cfg, remote, logger)
			if err != nil {
				return err
			}
			source = c
		} else {
			b, err := openBackend(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer b.Close()
			source = occupancy.NewBackend(b.svc)
		}

		state, err := newState(cfg, logger)
		if err != nil {
			return err
		}
		if floor == 0 {
			floor = state.CurrentFloor()
		}
		if err := state.Load(ctx, source); err != nil {
			return fmt.Errorf("loading offices: %w", err)
		}

		var w io.Writer = os.Stdout
		if output != "" && output != "-" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			defer f.Close()
			w = f
		}
		if err := state.WriteFloorSVG(w, floor); err != nil {
			return err
		}
		if output != "" && output != "-" {
			fmt.Fprintf(os.Stderr, "Wrote floor %d to %s\n", floor, output)
		}
		return nil
	},
}

func init() {
	renderCmd.Flags().Int("floor", 0, "floor number (defaults to the first floor)")
	renderCmd.Flags().String("remote", "", "base URL of an officespace server to read from")
	renderCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(renderCmd)
}
