package cluster

import (
	"slices"
	"sort"
)

// DefaultRadius matches Leaflet.markercluster's maxClusterRadius.
const DefaultRadius = 80

// Cluster is a group of input points. Members are indices into the slice
// passed to Group, in ascending order.
type Cluster struct {
	Center  Point
	Members []int
}

// Count returns the number of points in the cluster.
func (c Cluster) Count() int { return len(c.Members) }

// Group clusters points greedily: points are visited by ascending X and each
// unassigned point collects every unassigned point within radius of it. The
// result is deterministic for a given input. A radius <= 0 yields one
// cluster per point.
func Group(points []Point, radius float64) []Cluster {
	order := make([]int, len(points))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return points[order[a]].X < points[order[b]].X
	})

	assigned := make([]bool, len(points))
	r2 := radius * radius
	var out []Cluster

	for oi, i := range order {
		if assigned[i] {
			continue
		}
		p := points[i]
		members := []int{i}
		assigned[i] = true

		if radius > 0 {
			for _, j := range order[oi+1:] {
				q := points[j]
				if q.X-p.X > radius {
					break
				}
				if assigned[j] {
					continue
				}
				dx, dy := q.X-p.X, q.Y-p.Y
				if dx*dx+dy*dy <= r2 {
					members = append(members, j)
					assigned[j] = true
				}
			}
		}

		slices.Sort(members)
		var sx, sy float64
		for _, m := range members {
			sx += points[m].X
			sy += points[m].Y
		}
		n := float64(len(members))
		out = append(out, Cluster{
			Center:  Point{X: sx / n, Y: sy / n},
			Members: members,
		})
	}
	return out
}
