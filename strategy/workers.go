package strategy

import "strconv"

// WorkerIDs returns the canonical worker IDs "worker-0" … "worker-<count-1>".
//
// Sources that only know their worker index use these IDs as strategy input,
// so that all workers of one execution build the same assignment.
func WorkerIDs(count int) []string {
	if count <= 0 {
		return nil
	}

	ids := make([]string, count)
	for i := range ids {
		ids[i] = "worker-" + strconv.Itoa(i)
	}

	return ids
}
