package cluster

import (
	dowser "github.com/dowser/dowser-go"
)

// DistanceFunc measures how far apart two items are.
type DistanceFunc[T any] func(a, b T) float64

// Clusters partitions items by single-link agglomerative clustering: the two
// closest clusters (minimum over cross-cluster item pairs) merge repeatedly
// until the smallest remaining gap exceeds splittingDistance. Every item
// lands in exactly one returned cluster; clusters preserve the input order
// of their members.
//
// The pairwise matrix costs O(n²) distance calls and memory.
func Clusters[T any](items []T, splittingDistance float64, dist DistanceFunc[T]) [][]T {
	n := len(items)
	if n == 0 {
		return nil
	}

	// Upper-triangle pairwise distances, d[i][j-i-1] for i < j.
	d := make([][]float64, n)
	for i := 0; i < n; i++ {
		d[i] = make([]float64, n-i-1)
		for j := i + 1; j < n; j++ {
			d[i][j-i-1] = dist(items[i], items[j])
		}
	}
	between := func(i, j int) float64 {
		if i > j {
			i, j = j, i
		}
		return d[i][j-i-1]
	}

	// Each cluster is a set of item indices, kept in ascending order.
	groups := make([][]int, n)
	for i := range groups {
		groups[i] = []int{i}
	}

	for len(groups) > 1 {
		bestA, bestB := -1, -1
		bestDist := MaxDistance
		for a := 0; a < len(groups); a++ {
			for b := a + 1; b < len(groups); b++ {
				for _, i := range groups[a] {
					for _, j := range groups[b] {
						if dd := between(i, j); dd < bestDist {
							bestDist = dd
							bestA, bestB = a, b
						}
					}
				}
			}
		}
		if bestA == -1 || bestDist > splittingDistance {
			break
		}
		groups[bestA] = mergeSorted(groups[bestA], groups[bestB])
		groups = append(groups[:bestB], groups[bestB+1:]...)
	}

	out := make([][]T, len(groups))
	for gi, g := range groups {
		members := make([]T, len(g))
		for mi, i := range g {
			members[mi] = items[i]
		}
		out[gi] = members
	}
	return out
}

// Elements clusters document elements with the tree-distance metric.
func Elements(els []dowser.Element, splittingDistance float64, opts ...DistanceOption) [][]dowser.Element {
	return Clusters(els, splittingDistance, func(a, b dowser.Element) float64 {
		return Distance(a, b, opts...)
	})
}

func mergeSorted(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] < b[j] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
