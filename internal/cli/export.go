package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orbitviz/orbit/pkg/errors"
	"github.com/orbitviz/orbit/pkg/render"
	"github.com/orbitviz/orbit/pkg/ringmap"
	"github.com/orbitviz/orbit/pkg/session"
)

// Export formats.
const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPNG = "png"
)

// exportCommand creates the export command rendering layouts to files.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		depth  int
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export <resource-id>",
		Short: "Export a resource's radial layout as DOT, SVG, or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			resourceID := args[0]

			format = strings.ToLower(format)
			switch format {
			case formatDOT, formatSVG, formatPNG:
			default:
				return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want dot, svg, or png)", format)
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			prov, cleanup, err := c.newProvider(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			p := newProgress(c.Logger)
			g, err := prov.Fetch(ctx, resourceID, depth)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", resourceID, err)
			}
			p.done(fmt.Sprintf("Fetched %d resources", g.NodeCount()))

			res, err := ringmap.Compute(g, resourceID, cfg.Canvas.Width, cfg.Canvas.Height, cfg.LayoutParams())
			if err != nil {
				return fmt.Errorf("layout: %w", err)
			}

			dot := render.ToDOT(session.BuildFrame(resourceID, res, g.Edges))
			var data []byte
			switch format {
			case formatDOT:
				data = []byte(dot)
			case formatSVG:
				data, err = render.SVG(dot)
			case formatPNG:
				data, err = render.PNG(dot)
			}
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}

			if output == "" || output == "-" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return err
			}
			c.Logger.Info("wrote export", "path", output, "format", format, "bytes", len(data))
			return nil
		},
	}

	cmd.Flags().IntVarP(&depth, "depth", "d", 2, "traversal depth (1 = direct neighbors, 2 = two-hop)")
	cmd.Flags().StringVarP(&format, "format", "f", formatSVG, "output format: dot, svg, or png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
