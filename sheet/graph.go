package sheet

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/gridcalc/formula"
	"github.com/katalvlaran/gridcalc/position"
)

// errLookupOutOfBounds is surfaced to the evaluator, which maps it to #REF!.
var errLookupOutOfBounds = errors.New("sheet: lookup outside the sheet")

// closesCycle reports whether letting the cell at target read refs would
// make it reachable from itself along outgoing edges.
//
// Steps:
//  1. A direct self-reference is a cycle.
//  2. Seed one shared stack with every referenced position.
//  3. Pop, skip if already visited, mark visited, push outgoing neighbours.
//  4. Reaching target is a cycle; exhausting the stack is not.
//
// A visited cell was already proven not to reach target, so diamonds
// (two references sharing a dependency) are explored once and are not
// mistaken for cycles. Missing positions have no outgoing edges and are not
// materialized here. Complexity: O(V+E) over the reachable subgraph.
func (s *Sheet) closesCycle(target position.Position, refs []position.Position) bool {
	// 1) Self-reference.
	stack := make([]position.Position, 0, len(refs))
	for _, ref := range refs {
		if ref == target {
			return true
		}
		stack = append(stack, ref)
	}

	// 2) Shared visited set across all referenced positions.
	visited := make(map[position.Position]struct{}, len(refs))
	for len(stack) > 0 {
		// 3) Iterative DFS along outgoing edges.
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := visited[p]; seen {
			continue
		}
		visited[p] = struct{}{}

		c := s.get(p)
		if c == nil {
			continue
		}
		for next := range c.outgoing {
			// 4) Back at the cell being edited.
			if next == target {
				return true
			}
			if _, seen := visited[next]; !seen {
				stack = append(stack, next)
			}
		}
	}

	return false
}

// link adds c → ref edges for every ref, materializing missing targets as
// Empty cells so both endpoints of every edge are live.
func (s *Sheet) link(c *Cell, refs []position.Position) {
	for _, ref := range refs {
		target := s.cellPtr(ref)
		c.outgoing[ref] = struct{}{}
		target.incoming[c.pos] = struct{}{}
	}
}

// unlink removes every outgoing edge of c together with its mirror in the
// target's incoming set.
func (s *Sheet) unlink(c *Cell) {
	for ref := range c.outgoing {
		if target := s.get(ref); target != nil {
			delete(target.incoming, c.pos)
		}
	}
	clear(c.outgoing)
}

// invalidateDependents clears the cached results of every transitive
// dependent of c, walking incoming edges. A dependent that is already
// uncached is not descended into: a cache is only ever filled after all the
// formula cells it reads were cached, so nothing below it can be cached.
// Complexity: O(number of cached dependents + their edges).
func (s *Sheet) invalidateDependents(c *Cell) {
	stack := make([]position.Position, 0, len(c.incoming))
	for p := range c.incoming {
		stack = append(stack, p)
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		d := s.get(p)
		if d == nil {
			continue
		}
		fc, ok := d.content.(*formulaContent)
		if !ok || fc.cache == nil {
			continue
		}
		fc.cache = nil
		for q := range d.incoming {
			stack = append(stack, q)
		}
	}
}

// lookup resolves a formula reference to the current value of that cell.
// Never-materialized positions read as 0.
func (s *Sheet) lookup(pos position.Position) (formula.Value, error) {
	if !pos.IsValid() {
		return formula.Value{}, fmt.Errorf("%w: %v", errLookupOutOfBounds, pos)
	}
	c := s.get(pos)
	if c == nil {
		return formula.NumberValue(0), nil
	}

	return c.Value(), nil
}
