package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/isofar/wayfinder/pkg/mapgraph"
	"github.com/isofar/wayfinder/pkg/render"
)

// graphCommand creates the graph command group for inspecting and
// persisting the map graph.
func (c *CLI) graphCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Inspect, import/export, and persist the map graph",
	}

	cmd.AddCommand(c.graphStatsCommand())
	cmd.AddCommand(c.graphExportCommand())
	cmd.AddCommand(c.graphImportCommand())
	cmd.AddCommand(c.graphSaveCommand())
	cmd.AddCommand(c.graphLoadCommand())
	cmd.AddCommand(c.graphResetCommand())
	cmd.AddCommand(c.graphRenderCommand())

	return cmd
}

func (c *CLI) graphStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show node and edge counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			g := sess.Graph()

			towns, water, gated := 0, 0, 0
			for _, n := range g.Nodes() {
				if n.IsTown() {
					towns++
				}
			}
			for _, e := range g.Edges() {
				if e.Type == mapgraph.EdgeWater {
					water++
				}
				if e.RequiresUnlock {
					gated++
				}
			}

			printKeyValue("nodes", fmt.Sprintf("%d (%d towns)", g.NodeCount(), towns))
			printKeyValue("edges", fmt.Sprintf("%d (%d water, %d gated)", g.EdgeCount(), water, gated))
			return nil
		},
	}
}

func (c *CLI) graphExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export the map graph as a JSON snapshot",
		Long:  `Export writes the current map as a JSON snapshot. With no file argument the snapshot goes to stdout.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			data, err := sess.ExportSnapshot()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(args[0], data, 0644); err != nil {
				return err
			}
			printSuccess("exported %d nodes, %d edges", sess.Graph().NodeCount(), sess.Graph().EdgeCount())
			printFile(args[0])
			return nil
		},
	}
}

func (c *CLI) graphImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the map graph with a JSON snapshot",
		Long: `Import validates the snapshot before applying it. A malformed snapshot
is rejected and the current map, including the persisted copy, stays
unchanged. The imported map is persisted immediately.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			sess, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			if err := sess.ImportSnapshot(data); err != nil {
				printError("import rejected, keeping current map")
				return err
			}
			if err := sess.Save(cmd.Context()); err != nil {
				return err
			}
			printSuccess("imported %d nodes, %d edges", sess.Graph().NodeCount(), sess.Graph().EdgeCount())
			return nil
		},
	}
}

func (c *CLI) graphSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Persist the current map graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			if err := sess.Save(cmd.Context()); err != nil {
				return err
			}
			printSuccess("map saved")
			return nil
		},
	}
}

func (c *CLI) graphLoadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Verify the persisted map graph loads cleanly",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			if err := sess.Load(cmd.Context()); err != nil {
				return err
			}
			printSuccess("loaded %d nodes, %d edges", sess.Graph().NodeCount(), sess.Graph().EdgeCount())
			return nil
		},
	}
}

func (c *CLI) graphResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the default map and discard the saved one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			if err := store.Delete(cmd.Context()); err != nil {
				return err
			}
			printSuccess("map reset to default")
			return nil
		},
	}
}

func (c *CLI) graphRenderCommand() *cobra.Command {
	var detailed bool

	cmd := &cobra.Command{
		Use:   "render <out.svg>",
		Short: "Render the map graph as an SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			dot := render.ToDOT(sess.Graph(), render.Options{Detailed: detailed})
			svg, err := render.RenderSVG(dot)
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[0], svg, 0644); err != nil {
				return err
			}
			printFile(args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&detailed, "detailed", false, "include enemy and resource annotations in labels")

	return cmd
}
