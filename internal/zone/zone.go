// Package zone implements the Zone Index: spatial partitioning of sessions
// by chunk coordinates, used to scope broadcasts to the subset of sessions
// that can plausibly observe an event.
package zone

import (
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultZoneID is the zone any position not matched by a named region
// belongs to.
const DefaultZoneID = "default"

// Region is a named rectangular zone in chunk-coordinate space with
// inclusive bounds.
type Region struct {
	ID   string `yaml:"id"`
	MinX int    `yaml:"min_x"`
	MaxX int    `yaml:"max_x"`
	MinY int    `yaml:"min_y"`
	MaxY int    `yaml:"max_y"`
}

func (r Region) contains(chunkX, chunkY int) bool {
	return chunkX >= r.MinX && chunkX <= r.MaxX && chunkY >= r.MinY && chunkY <= r.MaxY
}

// Table is the ordered list of named regions consulted by zoneOf. The
// first matching region wins; positions matching none fall into
// DefaultZoneID.
type Table struct {
	Zones []Region `yaml:"zones"`
}

// LoadTable parses a zones.yaml document. Absent or malformed input is the
// caller's concern; callers typically fall back to DefaultTable() when
// LoadTable returns an error, per SPEC_FULL.md's ambient-config section.
func LoadTable(data []byte) (Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Table{}, err
	}
	return t, nil
}

// DefaultTable is the built-in zone table used when no zones.yaml is
// present: a "zone_central" region around the origin and a "zone_north"
// region directly above it, with everything else absorbed by the default
// zone.
func DefaultTable() Table {
	return Table{
		Zones: []Region{
			{ID: "zone_central", MinX: -4, MaxX: 4, MinY: -4, MaxY: 4},
			{ID: "zone_north", MinX: -4, MaxX: 4, MinY: -20, MaxY: -5},
		},
	}
}

// Index maintains zone -> set of session ids and chunk coordinate -> zone
// lookups. A session appears in at most one zone's member set at any
// observable instant.
type Index struct {
	mu      sync.RWMutex
	table   Table
	members map[string]map[string]struct{} // zoneID -> sessionID set
	current map[string]string              // sessionID -> current zoneID
}

// NewIndex returns an Index using the given region table.
func NewIndex(table Table) *Index {
	return &Index{
		table:   table,
		members: make(map[string]map[string]struct{}),
		current: make(map[string]string),
	}
}

// ZoneOf returns the id of the zone containing the chunk at (chunkX,
// chunkY): the first matching named region, or DefaultZoneID.
func (ix *Index) ZoneOf(chunkX, chunkY int) string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.zoneOfLocked(chunkX, chunkY)
}

func (ix *Index) zoneOfLocked(chunkX, chunkY int) string {
	for _, r := range ix.table.Zones {
		if r.contains(chunkX, chunkY) {
			return r.ID
		}
	}
	return DefaultZoneID
}

// Assign removes sessionID from its current zone, if any, and adds it to
// the zone containing (chunkX, chunkY). It returns the resulting zone id.
// Assign is idempotent when the zone does not change.
func (ix *Index) Assign(sessionID string, chunkX, chunkY int) string {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	newZone := ix.zoneOfLocked(chunkX, chunkY)
	if old, ok := ix.current[sessionID]; ok {
		if old == newZone {
			return newZone
		}
		ix.removeLocked(sessionID, old)
	}

	if ix.members[newZone] == nil {
		ix.members[newZone] = make(map[string]struct{})
	}
	ix.members[newZone][sessionID] = struct{}{}
	ix.current[sessionID] = newZone
	return newZone
}

// Remove takes sessionID out of whichever zone it currently occupies.
func (ix *Index) Remove(sessionID string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if zoneID, ok := ix.current[sessionID]; ok {
		ix.removeLocked(sessionID, zoneID)
		delete(ix.current, sessionID)
	}
}

func (ix *Index) removeLocked(sessionID, zoneID string) {
	if set, ok := ix.members[zoneID]; ok {
		delete(set, sessionID)
		if len(set) == 0 {
			delete(ix.members, zoneID)
		}
	}
}

// CurrentZone returns the zone a session currently occupies, if any.
func (ix *Index) CurrentZone(sessionID string) (string, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	z, ok := ix.current[sessionID]
	return z, ok
}

// Members returns a point-in-time snapshot of the session ids in zoneID.
func (ix *Index) Members(zoneID string) []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	set := ix.members[zoneID]
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// Populations returns a point-in-time snapshot of session count per
// occupied zone, for debug introspection (spec.md §6 AETHARIA_DEBUG).
func (ix *Index) Populations() map[string]int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	out := make(map[string]int, len(ix.members))
	for zoneID, set := range ix.members {
		out[zoneID] = len(set)
	}
	return out
}
