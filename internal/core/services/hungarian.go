package services

import (
	"math"

	"github.com/custodia-labs/pagediff-cli/internal/core/domain"
)

// solveAssignment finds the minimum-cost perfect assignment of rows to
// columns in a dense square cost matrix, using the Hungarian algorithm in
// its shortest-augmenting-path form (Jonker-Volgenant style potentials),
// O(n^3).
//
// It is a pure function: no randomness, and ties always resolve to the
// lowest column index, so the same matrix yields the same assignment on
// every run. The returned slice maps each row to its assigned column.
//
// Rectangular problems are handled by the caller padding the matrix to
// square with a fixed high no-match cost before calling.
func solveAssignment(cost [][]float64) ([]int, error) {
	n := len(cost)
	if n == 0 {
		return nil, nil
	}
	for _, row := range cost {
		if len(row) != n {
			return nil, domain.ErrAssignmentFailure
		}
	}

	// 1-based arrays; u, v are the dual potentials, colRow[j] is the row
	// currently assigned to column j (0 = unassigned).
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	colRow := make([]int, n+1)
	way := make([]int, n+1)

	for row := 1; row <= n; row++ {
		colRow[0] = row
		j0 := 0
		minv := make([]float64, n+1)
		used := make([]bool, n+1)
		for j := 0; j <= n; j++ {
			minv[j] = math.Inf(1)
		}

		// Grow an alternating tree until a free column is reached.
		for {
			used[j0] = true
			i0 := colRow[j0]
			delta := math.Inf(1)
			j1 := -1
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			if j1 < 0 || math.IsInf(delta, 1) {
				// Every remaining column is unreachable; the matrix
				// contains non-finite costs.
				return nil, domain.ErrAssignmentFailure
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[colRow[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if colRow[j0] == 0 {
				break
			}
		}

		// Augment along the path back to the root.
		for j0 != 0 {
			j1 := way[j0]
			colRow[j0] = colRow[j1]
			j0 = j1
		}
	}

	assignment := make([]int, n)
	for j := 1; j <= n; j++ {
		if colRow[j] > 0 {
			assignment[colRow[j]-1] = j - 1
		}
	}
	return assignment, nil
}
