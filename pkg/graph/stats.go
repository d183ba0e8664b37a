package graph

import "math"

// Stats holds the summary metrics reported for one mention graph. Path
// metrics treat the graph as undirected, matching how the yearly
// transcript graphs are usually compared.
type Stats struct {
	Vertices      int     `json:"vertices"`
	Edges         int     `json:"edges"`
	TotalWeight   int     `json:"total_weight"`
	AverageDegree float64 `json:"average_degree"`
	Density       float64 `json:"density"`
	Clustering    float64 `json:"clustering_coef"`
	AvgDistance   float64 `json:"avg_distance"`
	Diameter      int     `json:"diameter"`

	InDegree  map[int]int `json:"in_degree_distribution"`
	OutDegree map[int]int `json:"out_degree_distribution"`

	// Strength distributions count nodes per weighted degree.
	InStrength  map[int]int `json:"in_strength_distribution"`
	OutStrength map[int]int `json:"out_strength_distribution"`

	// CumulativeDegree maps each observed total degree k to the fraction
	// of nodes with total degree >= k.
	CumulativeDegree map[int]float64 `json:"cumulative_degree_distribution"`

	// PowerLawAlpha is the maximum likelihood exponent of the total
	// degree distribution, with minimum degree 1.
	PowerLawAlpha float64 `json:"power_law_alpha"`
}

// ComputeStats derives the metric set from g. An empty graph yields the
// zero Stats value.
func ComputeStats(g *MentionGraph) Stats {
	s := Stats{
		Vertices:         g.NodeCount(),
		Edges:            g.EdgeCount(),
		InDegree:         make(map[int]int),
		OutDegree:        make(map[int]int),
		InStrength:       make(map[int]int),
		OutStrength:      make(map[int]int),
		CumulativeDegree: make(map[int]float64),
	}
	if s.Vertices == 0 {
		return s
	}

	in := make(map[int]int)
	out := make(map[int]int)
	inWeight := make(map[int]int)
	outWeight := make(map[int]int)
	neighbors := make(map[int]map[int]struct{})
	for id := range g.labels {
		neighbors[id] = make(map[int]struct{})
	}
	for key, weight := range g.edges {
		s.TotalWeight += weight
		out[key[0]]++
		in[key[1]]++
		outWeight[key[0]] += weight
		inWeight[key[1]] += weight
		neighbors[key[0]][key[1]] = struct{}{}
		neighbors[key[1]][key[0]] = struct{}{}
	}

	totalDegree := 0
	degrees := make([]int, 0, s.Vertices)
	for id := range g.labels {
		s.InDegree[in[id]]++
		s.OutDegree[out[id]]++
		s.InStrength[inWeight[id]]++
		s.OutStrength[outWeight[id]]++
		d := in[id] + out[id]
		totalDegree += d
		degrees = append(degrees, d)
	}
	for k := range degreeCounts(degrees) {
		atLeast := 0
		for _, d := range degrees {
			if d >= k {
				atLeast++
			}
		}
		s.CumulativeDegree[k] = float64(atLeast) / float64(s.Vertices)
	}
	s.AverageDegree = float64(totalDegree) / float64(s.Vertices)
	if s.Vertices > 1 {
		s.Density = float64(s.Edges) / float64(s.Vertices*(s.Vertices-1))
	}
	s.Clustering = transitivity(neighbors)
	s.AvgDistance, s.Diameter = pathMetrics(neighbors)
	s.PowerLawAlpha = powerLawAlpha(degrees)
	return s
}

func degreeCounts(degrees []int) map[int]int {
	counts := make(map[int]int, len(degrees))
	for _, d := range degrees {
		counts[d]++
	}
	return counts
}

// transitivity is the global clustering coefficient of the undirected
// projection: closed neighbor pairs over all neighbor pairs.
func transitivity(neighbors map[int]map[int]struct{}) float64 {
	var closed, total int
	for _, ns := range neighbors {
		ids := make([]int, 0, len(ns))
		for id := range ns {
			ids = append(ids, id)
		}
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				total++
				if _, ok := neighbors[ids[i]][ids[j]]; ok {
					closed++
				}
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(closed) / float64(total)
}

// pathMetrics runs a BFS from every node over the undirected projection
// and returns the mean distance over reachable pairs plus the largest
// finite distance.
func pathMetrics(neighbors map[int]map[int]struct{}) (float64, int) {
	var sum, pairs, diameter int
	for start := range neighbors {
		dist := map[int]int{start: 0}
		queue := []int{start}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for next := range neighbors[cur] {
				if _, seen := dist[next]; seen {
					continue
				}
				dist[next] = dist[cur] + 1
				queue = append(queue, next)
			}
		}
		for node, d := range dist {
			if node == start {
				continue
			}
			sum += d
			pairs++
			if d > diameter {
				diameter = d
			}
		}
	}
	if pairs == 0 {
		return 0, 0
	}
	return float64(sum) / float64(pairs), diameter
}

// powerLawAlpha estimates the exponent of a discrete power-law degree
// distribution by maximum likelihood with minimum degree 1. Nodes with
// degree 0 are excluded.
func powerLawAlpha(degrees []int) float64 {
	var n int
	var logSum float64
	for _, d := range degrees {
		if d < 1 {
			continue
		}
		n++
		logSum += math.Log(float64(d) / 0.5)
	}
	if n == 0 || logSum == 0 {
		return 0
	}
	return 1 + float64(n)/logSum
}
