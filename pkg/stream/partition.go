package stream

// Partition is a half-open index range [Start,End) owned by one worker.
type Partition struct {
	Start, End int64
}

// Len returns the number of elements in the partition.
func (p Partition) Len() int64 {
	if p.End <= p.Start {
		return 0
	}
	return p.End - p.Start
}

// SplitIndex divides [0,n) into one partition per worker: chunk = n/workers,
// worker i gets [i*chunk,(i+1)*chunk), and the last worker absorbs the
// remainder. The oversized final chunk is historical behavior this
// benchmark keeps for comparability with existing results. When workers > n
// the leading partitions come out empty and their workers do nothing.
func SplitIndex(n int64, workers int) []Partition {
	chunk := n / int64(workers)
	parts := make([]Partition, workers)
	for i := range parts {
		parts[i] = Partition{Start: int64(i) * chunk, End: int64(i+1) * chunk}
	}
	parts[workers-1].End = n
	return parts
}

// SplitIterations divides a fixed iteration budget fairly: the first
// total%workers workers get one extra pass. The per-worker counts sum to
// total exactly and differ by at most one.
func SplitIterations(total, workers int) []int {
	base := total / workers
	rem := total % workers
	counts := make([]int, workers)
	for i := range counts {
		counts[i] = base
		if i < rem {
			counts[i]++
		}
	}
	return counts
}
