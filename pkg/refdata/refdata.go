// Package refdata ships the reference data the planner works from: the
// bestiary, town market stock, harvestable resource locations, craftable
// item recipes, and the default world map snapshot.
//
// All data files are embedded with go:embed and parsed once on first
// access, so the binary needs no external data directory.
package refdata

import (
	"embed"
	"encoding/json"
	"sort"
	"strconv"
	"sync"

	"github.com/isofar/wayfinder/pkg/errors"
	"github.com/isofar/wayfinder/pkg/mapgraph"
)

//go:embed data/*.json
var dataFS embed.FS

// Enemy describes a bestiary entry. Locations maps a chapter number to
// the map node IDs where the enemy appears during that chapter.
type Enemy struct {
	Name      string              `json:"name"`
	Rating    string              `json:"rating"`
	Attack    int                 `json:"attack"`
	Defense   int                 `json:"defense"`
	HP        int                 `json:"hp"`
	Drops     []string            `json:"drops"`
	Locations map[string][]string `json:"locations"`
}

// AppearsIn reports whether the enemy can be encountered during the
// given chapter. Chapter 0 matches any chapter.
func (e Enemy) AppearsIn(chapter int) bool {
	if chapter == 0 {
		return true
	}
	_, ok := e.Locations[strconv.Itoa(chapter)]
	return ok
}

// NodesIn returns the map nodes where the enemy appears during the given
// chapter. Chapter 0 returns the union across all chapters.
func (e Enemy) NodesIn(chapter int) []string {
	if chapter != 0 {
		return append([]string(nil), e.Locations[strconv.Itoa(chapter)]...)
	}
	seen := make(map[string]bool)
	var out []string
	for _, nodes := range e.Locations {
		for _, id := range nodes {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Set bundles all reference data tables. Obtain one with Load; the
// zero value is empty but usable, which keeps tests independent of the
// embedded files.
type Set struct {
	Enemies []Enemy
	// Market maps material name to town ID to purchase price.
	Market map[string]map[string]int
	// Harvest maps material name to the node IDs where it can be gathered.
	Harvest map[string][]string
	// Items maps item name to its recipe (material name to quantity).
	Items map[string]map[string]int
}

var (
	loadOnce sync.Once
	loaded   *Set
	loadErr  error
)

// Load parses the embedded data files. The result is cached after the
// first call.
func Load() (*Set, error) {
	loadOnce.Do(func() {
		loaded, loadErr = load()
	})
	return loaded, loadErr
}

func load() (*Set, error) {
	s := &Set{}
	if err := readJSON("data/bestiary.json", &s.Enemies); err != nil {
		return nil, err
	}
	if err := readJSON("data/market.json", &s.Market); err != nil {
		return nil, err
	}
	if err := readJSON("data/harvest.json", &s.Harvest); err != nil {
		return nil, err
	}
	if err := readJSON("data/items.json", &s.Items); err != nil {
		return nil, err
	}
	return s, nil
}

func readJSON(name string, v any) error {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "reading embedded %s", name)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "parsing embedded %s", name)
	}
	return nil
}

// EnemiesDropping returns the enemies whose drop table contains the
// material, in bestiary order.
func (s *Set) EnemiesDropping(material string) []Enemy {
	var out []Enemy
	for _, e := range s.Enemies {
		for _, d := range e.Drops {
			if d == material {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// TownsSelling returns the IDs of towns that stock the material, sorted.
func (s *Set) TownsSelling(material string) []string {
	stock := s.Market[material]
	out := make([]string, 0, len(stock))
	for town := range stock {
		out = append(out, town)
	}
	sort.Strings(out)
	return out
}

// Price returns the purchase price of the material in the given town,
// or zero when the town does not stock it.
func (s *Set) Price(material, town string) int {
	return s.Market[material][town]
}

// HarvestNodes returns the node IDs where the material can be gathered.
func (s *Set) HarvestNodes(material string) []string {
	return append([]string(nil), s.Harvest[material]...)
}

// Item returns the recipe for the named item.
func (s *Set) Item(name string) (map[string]int, bool) {
	recipe, ok := s.Items[name]
	return recipe, ok
}

// ItemNames returns all craftable item names, sorted.
func (s *Set) ItemNames() []string {
	out := make([]string, 0, len(s.Items))
	for name := range s.Items {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// DefaultSnapshot returns the embedded world map snapshot.
func DefaultSnapshot() (mapgraph.Snapshot, error) {
	raw, err := dataFS.ReadFile("data/mapgraph.json")
	if err != nil {
		return mapgraph.Snapshot{}, errors.Wrap(errors.ErrCodeInternal, err, "reading embedded map")
	}
	return mapgraph.UnmarshalSnapshot(raw)
}

// DefaultGraph builds a graph store from the embedded world map and
// enriches its nodes with reference data annotations.
func DefaultGraph() (*mapgraph.Store, error) {
	snap, err := DefaultSnapshot()
	if err != nil {
		return nil, err
	}
	set, err := Load()
	if err != nil {
		return nil, err
	}
	set.EnrichSnapshot(&snap)
	return mapgraph.FromSnapshot(snap)
}

// EnrichSnapshot annotates snapshot nodes in place with the chapters,
// enemies, and harvestable resources known for each node. Existing
// annotations are replaced.
func (s *Set) EnrichSnapshot(snap *mapgraph.Snapshot) {
	enemies := make(map[string][]string)
	chapters := make(map[string]map[int]bool)
	for _, e := range s.Enemies {
		for ch, nodes := range e.Locations {
			n, err := strconv.Atoi(ch)
			if err != nil {
				continue
			}
			for _, id := range nodes {
				enemies[id] = appendUnique(enemies[id], e.Name)
				if chapters[id] == nil {
					chapters[id] = make(map[int]bool)
				}
				chapters[id][n] = true
			}
		}
	}
	resources := make(map[string][]string)
	for material, nodes := range s.Harvest {
		for _, id := range nodes {
			resources[id] = appendUnique(resources[id], material)
		}
	}
	for i := range snap.Nodes {
		node := &snap.Nodes[i]
		node.Enemies = sorted(enemies[node.ID])
		node.Resources = sorted(resources[node.ID])
		node.Chapters = nil
		for ch := range chapters[node.ID] {
			node.Chapters = append(node.Chapters, ch)
		}
		sort.Ints(node.Chapters)
	}
}

func appendUnique(list []string, v string) []string {
	for _, have := range list {
		if have == v {
			return list
		}
	}
	return append(list, v)
}

func sorted(list []string) []string {
	sort.Strings(list)
	return list
}
