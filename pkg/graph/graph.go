// Package graph builds and analyzes the directed who-mentions-whom
// graph derived from attributed speech segments.
package graph

import (
	"sort"

	"github.com/parlagraph/parlagraph/pkg/common"
)

// MentionGraph is a directed graph of canonical identities. Edge
// weights count how often the source identity mentioned the target
// across the corpus. Node IDs start at 1 and follow first-seen order.
type MentionGraph struct {
	ids    map[string]int
	labels map[int]string
	edges  map[[2]int]int
	nextID int
}

// NewMentionGraph returns an empty graph.
func NewMentionGraph() *MentionGraph {
	return &MentionGraph{
		ids:    make(map[string]int),
		labels: make(map[int]string),
		edges:  make(map[[2]int]int),
		nextID: 1,
	}
}

// EnsureNode returns the node ID for canonical, creating the node if it
// does not exist yet. Adding an existing node is a no-op.
func (g *MentionGraph) EnsureNode(canonical string) int {
	if id, ok := g.ids[canonical]; ok {
		return id
	}
	id := g.nextID
	g.nextID++
	g.ids[canonical] = id
	g.labels[id] = canonical
	return id
}

// AddMention increments the edge weight from speaker to mentioned,
// creating nodes and edge as needed. Self-mentions are dropped.
func (g *MentionGraph) AddMention(speaker, mentioned string) {
	if speaker == "" || mentioned == "" || speaker == mentioned {
		return
	}
	src := g.EnsureNode(speaker)
	dst := g.EnsureNode(mentioned)
	g.edges[[2]int{src, dst}]++
}

// AddSegment folds one attributed speech into the graph. Segments
// without a speaker contribute nothing.
func (g *MentionGraph) AddSegment(seg common.Segment) {
	if seg.Speaker == "" {
		return
	}
	g.EnsureNode(seg.Speaker)
	for _, mentioned := range seg.Mentions {
		g.AddMention(seg.Speaker, mentioned)
	}
}

// Weight returns the current weight of the edge between two canonical
// names, or 0 if either node or the edge is missing.
func (g *MentionGraph) Weight(speaker, mentioned string) int {
	src, ok := g.ids[speaker]
	if !ok {
		return 0
	}
	dst, ok := g.ids[mentioned]
	if !ok {
		return 0
	}
	return g.edges[[2]int{src, dst}]
}

// NodeCount returns the number of nodes.
func (g *MentionGraph) NodeCount() int { return len(g.ids) }

// EdgeCount returns the number of distinct directed edges.
func (g *MentionGraph) EdgeCount() int { return len(g.edges) }

// Nodes returns all nodes ordered by ID.
func (g *MentionGraph) Nodes() []common.Node {
	nodes := make([]common.Node, 0, len(g.labels))
	for id, label := range g.labels {
		nodes = append(nodes, common.Node{ID: id, Label: label})
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes
}

// Edges returns all edges ordered by source then target ID.
func (g *MentionGraph) Edges() []common.Edge {
	edges := make([]common.Edge, 0, len(g.edges))
	for key, weight := range g.edges {
		edges = append(edges, common.Edge{Source: key[0], Target: key[1], Weight: weight})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})
	return edges
}

// SetNode registers a node under an explicit ID when rebuilding a graph
// from persisted form.
func (g *MentionGraph) SetNode(id int, label string) {
	g.ids[label] = id
	g.labels[id] = label
	if id >= g.nextID {
		g.nextID = id + 1
	}
}

// SetEdge registers an edge with an explicit weight when rebuilding a
// graph from persisted form.
func (g *MentionGraph) SetEdge(source, target, weight int) {
	g.edges[[2]int{source, target}] = weight
}
