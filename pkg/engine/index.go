package engine

import (
	"sort"

	"github.com/sirupsen/logrus"
)

// ResourceIndex is a read-only lookup structure over the parsed resource set,
// built once per analysis run.
type ResourceIndex struct {
	byID   map[string]ResourceRecord
	byName map[string][]ResourceRecord
	// ids holds every canonical id in sorted order so that suffix scans in
	// Resolve are deterministic across runs.
	ids []string
}

// NewResourceIndex builds the index. Duplicate canonical ids are resolved
// last-write-wins; the collision is logged as a data-quality warning.
func NewResourceIndex(resources []ResourceRecord) *ResourceIndex {
	ix := &ResourceIndex{
		byID:   make(map[string]ResourceRecord, len(resources)),
		byName: make(map[string][]ResourceRecord),
	}
	for _, r := range resources {
		id := r.CanonicalID()
		if _, dup := ix.byID[id]; dup {
			logrus.WithFields(logrus.Fields{
				"component": "engine",
				"resource":  id,
			}).Warn("duplicate canonical resource id, keeping the later record")
		}
		ix.byID[id] = r
		ix.byName[r.ResourceName] = append(ix.byName[r.ResourceName], r)
	}
	ix.ids = make([]string, 0, len(ix.byID))
	for id := range ix.byID {
		ix.ids = append(ix.ids, id)
	}
	sort.Strings(ix.ids)
	return ix
}

// ByExactID returns the record for a canonical id.
func (ix *ResourceIndex) ByExactID(id string) (ResourceRecord, bool) {
	r, ok := ix.byID[id]
	return r, ok
}

// ByName returns every record sharing a resource name. Names are not unique
// across types or files, so the result may hold more than one record.
func (ix *ResourceIndex) ByName(name string) []ResourceRecord {
	return ix.byName[name]
}

// Len reports how many distinct canonical ids are indexed.
func (ix *ResourceIndex) Len() int {
	return len(ix.byID)
}
