package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/orbitviz/orbit/pkg/session"
)

// exploreCommand creates the explore command for interactive exploration.
func (c *CLI) exploreCommand() *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "explore <resource-id>",
		Short: "Explore a resource's dependency neighborhood interactively",
		Long: `Explore lays out the dependency neighborhood of a resource on
concentric rings and opens an interactive terminal view.

Drag nodes to reposition them, drag the canvas to pan, use the mouse
wheel or +/- to zoom, and click a node to refocus the graph on it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			resourceID := args[0]

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			prov, cleanup, err := c.newProvider(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			// Selection lands on nav; the TUI turns it into a reload
			// rooted at the clicked node.
			nav := make(chan string, 1)
			sess := session.New(prov, session.Config{
				CanvasWidth:  cfg.Canvas.Width,
				CanvasHeight: cfg.Canvas.Height,
				Layout:       cfg.LayoutParams(),
				Logger:       c.Logger,
				OnSelect: func(id string) {
					select {
					case nav <- id:
					default:
					}
				},
			})

			p := newProgress(c.Logger)
			if err := sess.LoadGraph(ctx, resourceID, depth); err != nil {
				return fmt.Errorf("load graph for %s: %w", resourceID, err)
			}
			p.done(fmt.Sprintf("Loaded %s", resourceID))

			model := NewExploreModel(ctx, sess, nav, cfg.Canvas.Width, cfg.Canvas.Height, depth)
			program := tea.NewProgram(model,
				tea.WithContext(ctx),
				tea.WithAltScreen(),
				tea.WithMouseAllMotion(),
			)
			_, err = program.Run()
			return err
		},
	}

	cmd.Flags().IntVarP(&depth, "depth", "d", 2, "traversal depth (1 = direct neighbors, 2 = two-hop)")
	return cmd
}
