// Package schema provides relation graph analysis for circular dependency detection
package schema

import (
	"fmt"
	"strings"
)

// IsSystemCollection returns true for collections owned by the schema consumer
func IsSystemCollection(name string) bool {
	return strings.HasPrefix(name, "directus_")
}

// RelationGraph represents the dependency graph between collections.
// Self references, unresolved relations and relations to collections outside the
// graph (system collections included) add no edges.
type RelationGraph struct {
	nodes []string
	known map[string]bool
	edges map[string][]string // collection -> dependencies
}

// NewRelationGraph creates a relation graph over the named collections
func NewRelationGraph(collections []string, relations []*Relation) *RelationGraph {
	graph := &RelationGraph{
		nodes: collections,
		known: make(map[string]bool, len(collections)),
		edges: make(map[string][]string),
	}
	for _, name := range collections {
		graph.known[name] = true
	}

	for _, rel := range relations {
		if rel.RelatedCollection == "" || rel.RelatedCollection == rel.Collection {
			continue
		}
		if !graph.known[rel.Collection] || !graph.known[rel.RelatedCollection] {
			continue
		}
		if !contains(graph.edges[rel.Collection], rel.RelatedCollection) {
			graph.edges[rel.Collection] = append(graph.edges[rel.Collection], rel.RelatedCollection)
		}
	}

	return graph
}

// Dependencies returns the collections a collection points at
func (g *RelationGraph) Dependencies(collection string) []string {
	deps := g.edges[collection]
	result := make([]string, len(deps))
	copy(result, deps)
	return result
}

// DetectCycles detects circular dependencies in the relation graph
func (g *RelationGraph) DetectCycles() [][]string {
	var cycles [][]string
	visited := make(map[string]bool)
	onStack := make(map[string]bool)

	var dfs func(node string, path []string)
	dfs = func(node string, path []string) {
		visited[node] = true
		onStack[node] = true
		path = append(path, node)

		for _, neighbor := range g.edges[node] {
			if !visited[neighbor] {
				dfs(neighbor, path)
			} else if onStack[neighbor] {
				for i, n := range path {
					if n == neighbor {
						cycle := make([]string, len(path)-i)
						copy(cycle, path[i:])
						cycles = append(cycles, cycle)
						break
					}
				}
			}
		}

		onStack[node] = false
	}

	for _, node := range g.nodes {
		if !visited[node] {
			dfs(node, nil)
		}
	}

	return cycles
}

// TopologicalSort returns collections in dependency order (dependencies first).
// Ties keep declaration order.
func (g *RelationGraph) TopologicalSort() ([]string, error) {
	outDegree := make(map[string]int, len(g.nodes))
	reverseEdges := make(map[string][]string)
	for _, node := range g.nodes {
		outDegree[node] = len(g.edges[node])
		for _, target := range g.edges[node] {
			reverseEdges[target] = append(reverseEdges[target], node)
		}
	}

	queue := make([]string, 0, len(g.nodes))
	for _, node := range g.nodes {
		if outDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	result := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, dependent := range reverseEdges[node] {
			outDegree[dependent]--
			if outDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(result) != len(g.nodes) {
		return nil, fmt.Errorf("circular dependencies detected:\n%s", formatCycles(g.DetectCycles()))
	}

	return result, nil
}

func formatCycles(cycles [][]string) string {
	var b strings.Builder
	for i, cycle := range cycles {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("  ")
		b.WriteString(strings.Join(cycle, " -> "))
		if len(cycle) > 0 {
			b.WriteString(" -> ")
			b.WriteString(cycle[0])
		}
	}
	return b.String()
}

func contains(items []string, item string) bool {
	for _, it := range items {
		if it == item {
			return true
		}
	}
	return false
}
