// Package refgraph computes which namespaces of a model depend on which.
//
// There is an edge from namespace A to namespace B when a component owned by
// A, or an augmentation record owned by A, refers to a component owned by B.
// Self-edges, edges to outside placeholders and edges into builtin
// namespaces are left out; builtin namespaces are always available.
package refgraph

import (
	"cmp"
	"slices"
	"strings"

	"github.com/jacoelho/cmf/model"
)

// Graph is the namespace reference graph of one model. It is immutable and
// safe for concurrent use.
type Graph struct {
	m     *model.Model
	edges map[model.NamespaceID][]model.NamespaceID
}

type config struct {
	builtin func(uri string) bool
}

// Option configures Build.
type Option func(*config)

// WithBuiltin marks the namespaces whose URI satisfies builtin as builtin,
// in addition to those whose kind code already says so.
func WithBuiltin(builtin func(uri string) bool) Option {
	return func(c *config) {
		c.builtin = builtin
	}
}

// Build computes the graph of m.
func Build(m *model.Model, opts ...Option) *Graph {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	isBuiltin := func(ns *model.Namespace) bool {
		return !ns.IsModelNamespace() || (cfg.builtin != nil && cfg.builtin(ns.URI))
	}

	sets := make(map[model.NamespaceID]map[model.NamespaceID]struct{})
	addEdges := func(from model.NamespaceID, refs []model.Reference) {
		for _, ref := range refs {
			target := m.Component(ref.Target)
			if target == nil {
				continue
			}
			to := target.Base().Namespace
			if to == 0 || to == from {
				continue
			}
			if ns := m.Namespace(to); ns == nil || isBuiltin(ns) {
				continue
			}
			if sets[from] == nil {
				sets[from] = make(map[model.NamespaceID]struct{})
			}
			sets[from][to] = struct{}{}
		}
	}
	for _, c := range m.Components() {
		if from := c.Base().Namespace; from != 0 {
			addEdges(from, model.References(c))
		}
	}
	for _, ns := range m.Namespaces() {
		addEdges(ns.ID, model.AugmentReferences(ns))
	}

	g := &Graph{m: m, edges: make(map[model.NamespaceID][]model.NamespaceID, len(sets))}
	for from, set := range sets {
		targets := make([]model.NamespaceID, 0, len(set))
		for to := range set {
			targets = append(targets, to)
		}
		g.sortByPrefix(targets)
		g.edges[from] = targets
	}
	return g
}

// Edges returns the namespaces ns refers to directly, in prefix order.
func (g *Graph) Edges(ns model.NamespaceID) []model.NamespaceID {
	return slices.Clone(g.edges[ns])
}

// ReachableFrom returns every namespace reachable from ns through one or
// more edges, in prefix order. ns itself is included only when it lies on a
// cycle. Cycles terminate because a visited namespace is never expanded twice.
func (g *Graph) ReachableFrom(ns model.NamespaceID) []model.NamespaceID {
	visited := make(map[model.NamespaceID]bool)
	stack := slices.Clone(g.edges[ns])
	for len(stack) > 0 {
		last := len(stack) - 1
		cur := stack[last]
		stack = stack[:last]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		for _, next := range g.edges[cur] {
			if !visited[next] {
				stack = append(stack, next)
			}
		}
	}
	out := make([]model.NamespaceID, 0, len(visited))
	for id := range visited {
		out = append(out, id)
	}
	g.sortByPrefix(out)
	return out
}

// Closure returns the given namespaces together with everything reachable
// from them, in prefix order.
func (g *Graph) Closure(starts ...model.NamespaceID) []model.NamespaceID {
	seen := make(map[model.NamespaceID]bool)
	for _, start := range starts {
		seen[start] = true
		for _, id := range g.ReachableFrom(start) {
			seen[id] = true
		}
	}
	out := make([]model.NamespaceID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	g.sortByPrefix(out)
	return out
}

// Prefixes maps ids to their namespace prefixes.
func (g *Graph) Prefixes(ids []model.NamespaceID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.prefix(id))
	}
	return out
}

func (g *Graph) sortByPrefix(ids []model.NamespaceID) {
	slices.SortFunc(ids, func(a, b model.NamespaceID) int {
		return cmp.Or(strings.Compare(g.prefix(a), g.prefix(b)), cmp.Compare(a, b))
	})
}

func (g *Graph) prefix(id model.NamespaceID) string {
	if ns := g.m.Namespace(id); ns != nil {
		return ns.Prefix
	}
	return ""
}
