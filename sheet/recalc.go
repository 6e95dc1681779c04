package sheet

import (
	"context"

	"github.com/katalvlaran/gridcalc/position"
)

// Visitation states for EvaluationOrder.
const (
	white = iota
	gray
	black
)

// frame is one level of the explicit DFS stack.
type frame struct {
	pos  position.Position
	next []position.Position // outgoing neighbours not yet explored
}

// EvaluationOrder returns every live cell such that each cell comes after
// all the cells its formula reads. Ties follow (Row, Col) order, so the
// result is deterministic.
//
// Steps:
//  1. Seed a DFS from every white cell in (Row, Col) order.
//  2. Descend along outgoing edges with an explicit stack.
//  3. Emit a cell once all of its references are emitted (post-order).
//
// Complexity: O(V log V + E log E) for the sorted neighbour lists.
func (s *Sheet) EvaluationOrder() []position.Position {
	state := make(map[position.Position]int, s.count)
	order := make([]position.Position, 0, s.count)

	for seed := range s.All() {
		// 1) Seed.
		if state[seed] != white {
			continue
		}
		state[seed] = gray
		stack := []frame{{pos: seed, next: sortedKeys(s.get(seed).outgoing)}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if len(top.next) == 0 {
				// 3) All references emitted.
				state[top.pos] = black
				order = append(order, top.pos)
				stack = stack[:len(stack)-1]
				continue
			}

			// 2) Descend.
			p := top.next[0]
			top.next = top.next[1:]
			if state[p] != white {
				continue
			}
			state[p] = gray
			stack = append(stack, frame{pos: p, next: sortedKeys(s.get(p).outgoing)})
		}
	}

	return order
}

// Recalculate evaluates every formula cell in EvaluationOrder, so that each
// evaluation finds its inputs already cached. It stops early with ctx's
// error when ctx is cancelled.
func (s *Sheet) Recalculate(ctx context.Context) error {
	for i, p := range s.EvaluationOrder() {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if _, ok := s.get(p).content.(*formulaContent); ok {
			s.get(p).Value()
		}
	}

	return nil
}
