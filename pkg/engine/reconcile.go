package engine

import "strings"

// Resolve maps a scanner-supplied resource reference (full canonical id,
// path-qualified id, bare name, or empty) plus an optional file hint into
// (canonical id, resource type, resource name, file).
//
// The fallback chain trades precision for always returning something usable:
//
//  1. exact canonical id
//  2. suffix match against a known id (scanners that prefix module paths)
//  3. last segment of a dotted reference, when exactly one record owns it
//  4. bare reference equal to a name with exactly one owner
//  5. synthesize from whatever was given
//
// Pure: no I/O, no mutation. Every adapter must resolve through here so that
// grouping downstream stays consistent.
func (ix *ResourceIndex) Resolve(rawResource, rawFile string) (id, resourceType, resourceName, file string) {
	raw := strings.TrimSpace(rawResource)
	fileHint := strings.TrimSpace(rawFile)

	if r, ok := ix.byID[raw]; ok {
		return raw, r.ResourceType, r.ResourceName, r.File
	}

	if raw != "" {
		for _, known := range ix.ids {
			if strings.HasSuffix(raw, known) {
				r := ix.byID[known]
				return known, r.ResourceType, r.ResourceName, r.File
			}
		}
	}

	if raw != "" && strings.Contains(raw, ".") {
		var parts []string
		for _, p := range strings.Split(raw, ".") {
			if p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) >= 2 {
			// Ambiguous multi-match is deliberately rejected here; guessing
			// the wrong record is worse than falling through.
			if owners := ix.byName[parts[len(parts)-1]]; len(owners) == 1 {
				r := owners[0]
				return r.CanonicalID(), r.ResourceType, r.ResourceName, r.File
			}
		}
	}

	if raw != "" {
		if owners := ix.byName[raw]; len(owners) == 1 {
			r := owners[0]
			return r.CanonicalID(), r.ResourceType, r.ResourceName, r.File
		}
	}

	guessedType := "unknown_resource"
	if i := strings.Index(raw, "."); i >= 0 {
		guessedType = raw[:i]
	}
	guessedName := "unmapped"
	if raw != "" {
		guessedName = raw[strings.LastIndex(raw, ".")+1:]
	}
	id = raw
	if id == "" {
		id = guessedType + "." + guessedName
	}
	return id, guessedType, guessedName, fileHint
}
