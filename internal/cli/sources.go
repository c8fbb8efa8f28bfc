package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/isofar/wayfinder/pkg/planner"
	"github.com/isofar/wayfinder/pkg/refdata"
)

// sourcesCommand creates the sources command for inspecting where
// materials can be obtained.
func (c *CLI) sourcesCommand() *cobra.Command {
	var chapter int
	var item string

	cmd := &cobra.Command{
		Use:   "sources [material...]",
		Short: "List where materials can be obtained",
		Long: `Sources shows, for each material, the enemies that drop it, the towns
that sell it (with prices), and the map nodes where it can be
harvested. With --item, the item's recipe is expanded first.`,
		Example: `  wayfinder sources Iron "Wolf Pelt"
  wayfinder sources --item "Iron Sword" --chapter 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if item == "" && len(args) == 0 {
				return fmt.Errorf("nothing selected: pass materials or --item")
			}
			if chapter == 0 {
				chapter = c.Config.Chapter
			}
			return c.runSources(cmd.Context(), item, args, chapter)
		},
	}

	cmd.Flags().StringVarP(&item, "item", "i", "", "expand this item's recipe into materials")
	cmd.Flags().IntVar(&chapter, "chapter", 0, "chapter filter for enemy locations (0 = all)")

	return cmd
}

func (c *CLI) runSources(ctx context.Context, item string, materials []string, chapter int) error {
	sess, err := c.openSession(ctx)
	if err != nil {
		return err
	}
	graph := sess.Graph()

	set, err := refdata.Load()
	if err != nil {
		return err
	}

	if item != "" {
		recipe, ok := set.Item(item)
		if !ok {
			return fmt.Errorf("unknown item %q (known: %s)", item, strings.Join(set.ItemNames(), ", "))
		}
		for material := range recipe {
			materials = append(materials, material)
		}
		sort.Strings(materials)
	}

	reqs := planner.ResolveMaterials(ctx, set, graph, chapter, materials)
	for _, req := range reqs {
		fmt.Println(StyleTitle.Render(req.Material))
		if !req.Satisfiable() {
			printWarning("no known source")
			continue
		}

		for _, enemy := range set.EnemiesDropping(req.Material) {
			nodes := enemy.NodesIn(chapter)
			if len(nodes) == 0 {
				continue
			}
			printKeyValue("drops from", fmt.Sprintf("%s %s at %s", enemy.Name, enemy.Rating, strings.Join(nodes, ", ")))
		}
		for _, town := range set.TownsSelling(req.Material) {
			printKeyValue("sold in", fmt.Sprintf("%s for %d", town, set.Price(req.Material, town)))
		}
		if nodes := set.HarvestNodes(req.Material); len(nodes) > 0 {
			printKeyValue("harvest at", strings.Join(nodes, ", "))
		}
		printKeyValue("on map", strings.Join(req.Candidates, ", "))
	}
	return nil
}
