package ontolearn

import (
	"fmt"
	"sort"
)

// SearchSpace maps option names to the candidate values a grid search
// will try for them.
type SearchSpace map[string][]any

// Assignment is one combination of option values drawn from a
// SearchSpace.
type Assignment map[string]any

// GridSearch enumerates every combination of the search space and scores
// each with the supplied function, returning the best assignment and its
// score. Enumeration is deterministic: option names are sorted and each
// option's values are tried in their declared order, with the last
// sorted option varying fastest. The first combination reaching the
// maximum score wins ties.
func GridSearch(space SearchSpace, score func(Assignment) (float64, error)) (Assignment, float64, error) {
	if len(space) == 0 {
		return nil, 0, fmt.Errorf("%w: no options to search", ErrEmptySearchSpace)
	}
	names := make([]string, 0, len(space))
	for name, values := range space {
		if len(values) == 0 {
			return nil, 0, fmt.Errorf("%w: no values for option %q", ErrEmptySearchSpace, name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	indices := make([]int, len(names))
	var (
		best      Assignment
		bestScore float64
	)
	for {
		assignment := make(Assignment, len(names))
		for i, name := range names {
			assignment[name] = space[name][indices[i]]
		}

		s, err := score(assignment)
		if err != nil {
			return nil, 0, err
		}
		if best == nil || s > bestScore {
			best = assignment
			bestScore = s
		}

		// Advance the odometer; the last sorted option varies fastest.
		i := len(indices) - 1
		for ; i >= 0; i-- {
			indices[i]++
			if indices[i] < len(space[names[i]]) {
				break
			}
			indices[i] = 0
		}
		if i < 0 {
			break
		}
	}
	return best, bestScore, nil
}

// AssignTo extracts a typed value from an assignment. It fails with
// ErrBadOption when the name is absent or the value has the wrong type,
// so components can surface misconfigured search spaces descriptively.
func AssignTo[T any](a Assignment, name string, dst *Tunable[T]) error {
	raw, ok := a[name]
	if !ok {
		return nil // option not part of this search
	}
	v, ok := raw.(T)
	if !ok {
		return fmt.Errorf("%w: option %q got %T", ErrBadOption, name, raw)
	}
	dst.Value = v
	return nil
}
