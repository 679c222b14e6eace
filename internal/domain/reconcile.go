package domain

// Reconcile merges a local and a remote collection under remote precedence.
//
// The result starts as a copy of remote, in remote order. Each local quote
// that has no structurally equal counterpart in remote is appended in its
// original local order; added counts those appends. Local quotes that already
// appear remotely are never duplicated, and no local quote is ever dropped.
func Reconcile(local, remote []Quote) (merged []Quote, added int) {
	present := make(map[Quote]struct{}, len(remote))
	for _, r := range remote {
		present[r] = struct{}{}
	}

	merged = make([]Quote, 0, len(remote)+len(local))
	merged = append(merged, remote...)

	for _, l := range local {
		if _, ok := present[l]; ok {
			continue
		}

		merged = append(merged, l)
		added++
	}

	return merged, added
}
