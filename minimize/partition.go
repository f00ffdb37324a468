package minimize

// batchRange is an inclusive [start, end] pair of row indices into the
// dataset. Ranges exist only during construction; they are materialized
// into batch matrices and discarded.
type batchRange struct {
	start, end int
}

func (r batchRange) size() int {
	return r.end - r.start + 1
}

// partitionRanges splits n rows into contiguous ranges of batchSize.
// batchSize 0 produces a single range covering everything. The last
// range may be shorter. The result is ordered by start index so that
// batch iteration, and with it the stochastic rotation, is deterministic.
// Preconditions (n > 0, 0 <= batchSize <= n) are checked by the caller.
func partitionRanges(n, batchSize int) []batchRange {
	if batchSize == 0 {
		return []batchRange{{start: 0, end: n - 1}}
	}
	ranges := make([]batchRange, 0, (n+batchSize-1)/batchSize)
	for offset := 0; offset < n; offset += batchSize {
		end := offset + batchSize - 1
		if end > n-1 {
			end = n - 1
		}
		ranges = append(ranges, batchRange{start: offset, end: end})
	}
	return ranges
}
