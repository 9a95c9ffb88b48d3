package api

import (
	"strings"
	"sync"
)

// Kind is a logical resource family. The winning base address is cached per
// kind, so once e.g. the bookings endpoints answer from one replica, later
// booking calls go there first instead of re-probing.
type Kind string

const (
	KindUsers    Kind = "users"
	KindCars     Kind = "cars"
	KindBookings Kind = "bookings"
	KindStations Kind = "stations"
	KindPorts    Kind = "chargingports"
	KindAuth     Kind = "auth"
)

// Candidate is one guess at where a resource's API lives.
type Candidate struct {
	Base string
	Path string
}

// URL joins base, path and an optional resource id.
func (c Candidate) URL(resourceID string) string {
	u := strings.TrimRight(c.Base, "/") + c.Path
	if resourceID != "" {
		u = strings.TrimRight(u, "/") + "/" + resourceID
	}
	return u
}

// resolver orders the configured base addresses per resource kind.
// The list order is fixed configuration; first-match-wins, not load-balanced.
type resolver struct {
	bases []string

	mu      sync.Mutex
	winners map[Kind]string
}

func newResolver(bases []string) *resolver {
	return &resolver{bases: bases, winners: make(map[Kind]string)}
}

// candidates returns one candidate per base for the given path, with the
// kind's cached winner (if any) moved to the front.
func (r *resolver) candidates(kind Kind, path string) []Candidate {
	r.mu.Lock()
	winner := r.winners[kind]
	r.mu.Unlock()

	out := make([]Candidate, 0, len(r.bases))
	if winner != "" {
		out = append(out, Candidate{Base: winner, Path: path})
	}
	for _, b := range r.bases {
		if b == winner {
			continue
		}
		out = append(out, Candidate{Base: b, Path: path})
	}
	return out
}

// promote records the base that answered successfully for a kind.
func (r *resolver) promote(kind Kind, base string) {
	r.mu.Lock()
	r.winners[kind] = base
	r.mu.Unlock()
}
