package cli

import (
	"github.com/spf13/cobra"

	dio "github.com/matzehuels/dockworks/pkg/io"
	"github.com/matzehuels/dockworks/pkg/state"
)

// compactCommand consolidates every drawer of a saved state.
func (c *CLI) compactCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "compact <state.json>",
		Short: "Close the gaps in every drawer of a saved state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := c.restoreFile(args[0], nil)
			if err != nil {
				return err
			}
			defer o.desk.Close()

			shifted := 0
			for _, id := range o.desk.Drawers() {
				shifts, err := o.desk.Consolidate(id)
				if err != nil {
					return err
				}
				shifted += len(shifts)
			}

			doc, err := state.SaveSession(o.desk)
			if err != nil {
				return err
			}
			if output == "" {
				output = args[0]
			}
			if err := dio.ExportDocument(doc, output); err != nil {
				return err
			}
			printSuccess("Moved %d drawer icons", shifted)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write here instead of overwriting the input")
	return cmd
}
