package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dockworks/pkg/errors"
)

// validateCommand restores a saved state and reports what could not be
// restored.
func (c *CLI) validateCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate <state.json>",
		Short: "Check that a saved state restores cleanly",
		Long: `Restore a saved state into an in-memory desktop and report every skipped
record. The command fails when the restored desktop violates a slot
invariant, or with --strict when any record was skipped. Drawers with
gaps are reported as warnings; compact closes them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog := newProgress(c.Logger)
			o, err := c.restoreFile(args[0], nil)
			if err != nil {
				return err
			}
			defer o.desk.Close()
			prog.done(fmt.Sprintf("Restored %d icons", o.report.Restored))

			for _, s := range o.report.Skipped {
				printWarning("%s", s.String())
				if s.Dock != "" {
					printDetail("dock %s", s.Dock)
				}
			}
			if err := o.desk.CheckInvariants(); err != nil {
				printError("invariant violated: %v", err)
				return errors.Wrap(errors.ErrCodeCorruptRecord, err, "%s", args[0])
			}
			if strict && len(o.report.Skipped) > 0 {
				return errors.New(errors.ErrCodeCorruptRecord, "%d records skipped", len(o.report.Skipped))
			}
			sparse := o.desk.CheckDensity()
			if sparse != nil {
				printWarning("%v", sparse)
			}
			printSuccess("%s: %d icons restored, %d skipped", args[0], o.report.Restored, len(o.report.Skipped))
			switch {
			case len(o.report.Skipped) > 0:
				printNextStep("Rewrite without the skipped records", "dockworks compact "+args[0])
			case sparse != nil:
				printNextStep("Close the drawer gaps", "dockworks compact "+args[0])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any record was skipped")
	return cmd
}
