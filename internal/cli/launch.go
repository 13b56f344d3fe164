package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/dockworks/pkg/errors"
	"github.com/matzehuels/dockworks/pkg/launcher"
)

type exitEvent struct {
	handle launcher.Handle
	status int
}

// launchCommand runs the command of one docked icon from a saved state.
func (c *CLI) launchCommand() *cobra.Command {
	var (
		wait  bool
		paste string
		drop  []string
	)

	cmd := &cobra.Command{
		Use:   "launch <state.json> <icon>",
		Short: "Launch a docked application",
		Long: `Launch the application behind a docked icon. The icon is named by its id,
by instance.class or by its instance when that is unique.

With --paste or --drop the icon's paste or drop command is expanded
instead, substituting %s with the text and %d with the file paths.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			exits := make(chan exitEvent, 1)
			exec := &launcher.Exec{
				Logger: loggerFromContext(cmd.Context()),
				OnExit: func(h launcher.Handle, status int) {
					exits <- exitEvent{h, status}
				},
			}
			o, err := c.restoreFile(args[0], exec)
			if err != nil {
				return err
			}
			defer o.desk.Close()

			ic, ok := findIcon(o.desk, args[1])
			if !ok {
				return errors.New(errors.ErrCodeIconNotFound, "no docked icon matches %q", args[1])
			}

			ctx := cmd.Context()
			switch {
			case cmd.Flags().Changed("paste"):
				err = o.desk.Paste(ctx, ic.ID, paste)
			case len(drop) > 0:
				err = o.desk.DropFiles(ctx, ic.ID, drop)
			default:
				err = o.desk.Launch(ctx, ic.ID)
			}
			if err != nil {
				return err
			}
			printSuccess("Launched %s", ic.Name)
			if !wait {
				return nil
			}

			select {
			case ev := <-exits:
				if err := o.desk.ProcessExited(ev.handle, ev.status); err != nil {
					c.Logger.Debug("exit not tracked", "err", err)
				}
				if launcher.ExecFailed(ev.status) {
					return errors.New(errors.ErrCodeLaunch, "%s could not be executed (status %d)", ic.Name, ev.status)
				}
				printInfo("%s exited with status %d", ic.Name, ev.status)
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	}

	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "wait for the application to exit")
	cmd.Flags().StringVar(&paste, "paste", "", "run the paste command with this text")
	cmd.Flags().StringSliceVar(&drop, "drop", nil, "run the drop command with these files")
	return cmd
}
