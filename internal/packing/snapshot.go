package packing

import (
	"encoding/json"
	"fmt"
	"io"
)

// Snapshot captures the free parameters of a State, enough to exactly
// reconstruct and re-score the configuration against the same shape and
// group definition.
type Snapshot struct {
	Group string         `json:"group"`
	Shape string         `json:"shape"`
	Cell  CellSnapshot   `json:"cell"`
	Sites []SiteSnapshot `json:"sites"`
	Score float64        `json:"score"`
	Valid bool           `json:"valid"`
}

// CellSnapshot holds the unit cell parameters.
type CellSnapshot struct {
	A     float64 `json:"a"`
	B     float64 `json:"b"`
	Angle float64 `json:"angle"`
}

// SiteSnapshot holds one occupied site's placement.
type SiteSnapshot struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Angle float64 `json:"angle"`
}

// Snapshot captures the state's current parameters and score.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Group: s.group.Name,
		Shape: s.shape.Name,
		Cell: CellSnapshot{
			A:     s.cell.SideA(),
			B:     s.cell.SideB(),
			Angle: s.cell.Angle(),
		},
	}
	for _, site := range s.sites {
		snap.Sites = append(snap.Sites, SiteSnapshot{
			X:     site.X(),
			Y:     site.Y(),
			Angle: site.Angle(),
		})
	}
	if score, err := s.Score(); err == nil {
		snap.Score = score
		snap.Valid = true
	}
	return snap
}

// Restore overwrites the state's parameters from a snapshot. The
// snapshot must come from a state with the same group and site layout.
func (s *State) Restore(snap Snapshot) error {
	if snap.Group != s.group.Name {
		return fmt.Errorf("snapshot is for group %s, state packs under %s", snap.Group, s.group.Name)
	}
	if len(snap.Sites) != len(s.sites) {
		return fmt.Errorf("snapshot has %d sites, state has %d", len(snap.Sites), len(s.sites))
	}
	s.cell.SetParameters(snap.Cell.A, snap.Cell.B, snap.Cell.Angle)
	for i, site := range snap.Sites {
		s.sites[i].SetPlacement(site.X, site.Y, site.Angle)
	}
	return nil
}

// WriteJSON writes the state's snapshot as indented JSON.
func (s *State) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s.Snapshot())
}

// ReadSnapshot decodes a snapshot from JSON.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	return snap, nil
}
