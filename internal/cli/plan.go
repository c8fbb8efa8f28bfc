package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/isofar/wayfinder/pkg/planner"
	"github.com/isofar/wayfinder/pkg/refdata"
	"github.com/isofar/wayfinder/pkg/render"
	"github.com/isofar/wayfinder/pkg/routing"
)

// planOpts holds the command-line flags for the plan command.
type planOpts struct {
	start     string   // start node id
	chapter   int      // chapter filter for enemy locations (0 = all)
	items     []string // craftable items to gather materials for
	materials []string // raw materials to collect directly
	unlocks   []string // unlock conditions, in addition to the config
	svgOut    string   // optional path for an SVG map of the route
}

// planCommand creates the plan command for computing collection routes.
func (c *CLI) planCommand() *cobra.Command {
	opts := planOpts{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute an optimized collection route",
		Long: `Plan resolves the selected items to the materials they need, finds
candidate source nodes for each material (enemy drops, markets, and
harvest spots), and computes a short tour from the start node that
visits a source for every material.

Materials with no known or reachable source are reported as warnings;
the route still covers everything else.`,
		Example: `  wayfinder plan --item "Iron Sword"
  wayfinder plan --start ryba --material Iron --material Pine
  wayfinder plan --item "Scale Mail" --unlock boat_dock --svg route.svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.start == "" {
				opts.start = c.Config.Start
			}
			if opts.chapter == 0 {
				opts.chapter = c.Config.Chapter
			}
			if len(opts.items) == 0 && len(opts.materials) == 0 {
				return fmt.Errorf("nothing selected: pass --item or --material")
			}
			return c.runPlan(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.start, "start", "s", "", "start node (default from config)")
	cmd.Flags().IntVar(&opts.chapter, "chapter", 0, "chapter filter for enemy locations (0 = all)")
	cmd.Flags().StringArrayVarP(&opts.items, "item", "i", nil, "craftable item to plan for (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.materials, "material", "m", nil, "raw material to collect (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.unlocks, "unlock", "u", nil, "unlock condition to assume (repeatable)")
	cmd.Flags().StringVar(&opts.svgOut, "svg", "", "write an SVG map of the route to this path")

	return cmd
}

func (c *CLI) runPlan(ctx context.Context, opts *planOpts) error {
	prog := newProgress(c.Logger)

	sess, err := c.openSession(ctx)
	if err != nil {
		return err
	}
	graph := sess.Graph()

	set, err := refdata.Load()
	if err != nil {
		return err
	}

	unlocked := c.Config.UnlockSet()
	for _, u := range opts.unlocks {
		unlocked[u] = true
	}
	engine := routing.NewEngine(graph, routing.AvailabilityFromUnlocks(unlocked))

	reqs, err := planner.ResolveItems(ctx, set, graph, opts.chapter, opts.items)
	if err != nil {
		return err
	}
	extra := planner.ResolveMaterials(ctx, set, graph, opts.chapter, opts.materials)
	reqs = append(reqs, extra...)
	c.Logger.Debug("requirements resolved", "materials", len(reqs), "chapter", opts.chapter)

	route, err := planner.Plan(ctx, engine, opts.start, reqs)
	if err != nil {
		return err
	}
	prog.done("route planned", "stops", len(route.Stops), "hops", route.TotalHops)

	fmt.Print(formatRoute(&route))
	printRouteWarnings(&route)

	if opts.svgOut != "" {
		dot := render.ToDOT(graph, render.Options{Route: &route})
		svg, err := render.RenderSVG(dot)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.svgOut, svg, 0644); err != nil {
			return err
		}
		printFile(opts.svgOut)
	}
	return nil
}
