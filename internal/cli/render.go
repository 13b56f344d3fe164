package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dockworks/pkg/errors"
	"github.com/matzehuels/dockworks/pkg/render/nodelink"
)

const (
	formatSVG = "svg"
	formatDOT = "dot"
)

// renderCommand draws the topology of a saved state.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output   string
		format   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "render <state.json>",
		Short: "Render the docks of a saved state as SVG or DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".svg"
			}
			f, err := formatFor(format, output)
			if err != nil {
				return err
			}

			o, err := c.restoreFile(args[0], nil)
			if err != nil {
				return err
			}
			defer o.desk.Close()

			dot := nodelink.ToDOT(o.desk.Snapshot(), nodelink.Options{Detailed: detailed})
			data := []byte(dot)
			if f == formatSVG {
				prog := newProgress(c.Logger)
				if data, err = nodelink.RenderSVG(cmd.Context(), dot); err != nil {
					return err
				}
				prog.done("Rendered SVG")
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Rendered %s", f)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <state>.svg)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "svg or dot (default from the output extension)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include slots, commands and flags in labels")
	return cmd
}

// formatFor picks the output format from the flag or the file extension.
func formatFor(flag, output string) (string, error) {
	f := flag
	if f == "" {
		f = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
	}
	switch f {
	case formatSVG, formatDOT:
		return f, nil
	case "gv":
		return formatDOT, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unsupported render format %q (want svg or dot)", f)
}
