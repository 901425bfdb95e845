package model

import "strings"

// SeatSet is a set of seat labels such as "A1". Labels are compared exactly
// after trimming.
type SeatSet map[string]struct{}

func NewSeatSet(seats []string) SeatSet {
	s := make(SeatSet, len(seats))
	s.Add(seats...)
	return s
}

func (s SeatSet) Add(seats ...string) {
	for _, seat := range seats {
		s[seat] = struct{}{}
	}
}

func (s SeatSet) Has(seat string) bool {
	_, ok := s[seat]
	return ok
}

// Intersect returns the members of seats that are in s, keeping their order.
func (s SeatSet) Intersect(seats []string) []string {
	var out []string
	for _, seat := range seats {
		if s.Has(seat) {
			out = append(out, seat)
		}
	}
	return out
}

// Missing returns the members of seats that are not in s, keeping their
// order.
func (s SeatSet) Missing(seats []string) []string {
	var out []string
	for _, seat := range seats {
		if !s.Has(seat) {
			out = append(out, seat)
		}
	}
	return out
}

// NormalizeSeats trims labels, drops empties and duplicates, and keeps the
// first-seen order.
func NormalizeSeats(seats []string) []string {
	seen := make(map[string]struct{}, len(seats))
	out := make([]string, 0, len(seats))
	for _, raw := range seats {
		seat := strings.TrimSpace(raw)
		if seat == "" {
			continue
		}
		if _, dup := seen[seat]; dup {
			continue
		}
		seen[seat] = struct{}{}
		out = append(out, seat)
	}
	return out
}

// RemoveSeats returns from without any label in drop, and how many were
// removed.
func RemoveSeats(from, drop []string) ([]string, int) {
	d := NewSeatSet(drop)
	out := make([]string, 0, len(from))
	removed := 0
	for _, seat := range from {
		if d.Has(seat) {
			removed++
			continue
		}
		out = append(out, seat)
	}
	return out, removed
}
