package domain

import "sort"

// NormalizeSeats drops duplicates and sorts ascending. It rejects an empty
// selection and non-positive seat numbers.
func NormalizeSeats(seats []int) ([]int, error) {
	if len(seats) == 0 {
		return nil, ErrNoSeatsSelected
	}

	seen := make(map[int]struct{}, len(seats))
	out := make([]int, 0, len(seats))
	for _, s := range seats {
		if s <= 0 {
			return nil, ErrInvalidSeat
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	sort.Ints(out)
	return out, nil
}

func ContainsSeat(seats []int, seat int) bool {
	for _, s := range seats {
		if s == seat {
			return true
		}
	}
	return false
}
