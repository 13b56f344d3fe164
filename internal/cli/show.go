package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// showCommand prints a saved state as one table per dock.
func (c *CLI) showCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <state.json>",
		Short: "Show the docks, drawers and clips of a saved state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := c.restoreFile(args[0], nil)
			if err != nil {
				return err
			}
			defer o.desk.Close()

			v := o.desk.Snapshot()
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(v)
			}

			printKeyValue("Screen", fmt.Sprintf("%dx%d, icons %dpx", v.Screen.W, v.Screen.H, v.IconSize))
			printKeyValue("Workspace", fmt.Sprintf("%s of %d", o.desk.WorkspaceName(v.Workspace), v.Workspaces))
			printKeyValue("Omnipresent", strconv.Itoa(len(v.Omnipresent)))
			for _, dv := range v.Docks {
				printNewline()
				fmt.Println(dockTitle(dv, o.desk.WorkspaceName))
				fmt.Println(dockTable(dv, -1))
			}
			if n := len(o.report.Skipped); n > 0 {
				printNewline()
				printWarning("%d records skipped, run validate for details", n)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the snapshot as JSON")
	return cmd
}
