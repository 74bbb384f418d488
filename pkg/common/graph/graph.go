// Package graph orders named nodes so that every node comes after the
// nodes it depends on. Ties are broken by declaration order, which keeps
// the output stable across runs.
package graph

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycle is returned when the dependencies cannot be satisfied.
var ErrCycle = errors.New("dependency cycle")

// Sort returns nodes ordered so that each node follows everything listed
// in deps[node]. Every dependency must itself be one of nodes.
func Sort(nodes []string, deps map[string][]string) ([]string, error) {
	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if known[n] {
			return nil, fmt.Errorf("duplicate node %q", n)
		}
		known[n] = true
	}
	for n, ds := range deps {
		if !known[n] {
			return nil, fmt.Errorf("unknown node %q", n)
		}
		for _, d := range ds {
			if !known[d] {
				return nil, fmt.Errorf("node %q depends on unknown node %q", n, d)
			}
		}
	}

	done := make(map[string]bool, len(nodes))
	out := make([]string, 0, len(nodes))
	for len(out) < len(nodes) {
		progressed := false
		for _, n := range nodes {
			if done[n] || !ready(deps[n], done) {
				continue
			}
			done[n] = true
			out = append(out, n)
			progressed = true
			break
		}
		if !progressed {
			var stuck []string
			for _, n := range nodes {
				if !done[n] {
					stuck = append(stuck, n)
				}
			}
			return nil, fmt.Errorf("%w among %s", ErrCycle, strings.Join(stuck, ", "))
		}
	}
	return out, nil
}

func ready(deps []string, done map[string]bool) bool {
	for _, d := range deps {
		if !done[d] {
			return false
		}
	}
	return true
}

// Reverse returns a reversed copy of order.
func Reverse(order []string) []string {
	out := make([]string, len(order))
	for i, n := range order {
		out[len(order)-1-i] = n
	}
	return out
}
