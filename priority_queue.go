package jobengine

// jobHeap is a max-heap over *Job ordered by Meta.Priority, with the
// queue-assigned sequence number as the FIFO tie-break. It implements
// heap.Interface for JobQueue.
type jobHeap []*Job

func (h jobHeap) Len() int { return len(h) }

func (h jobHeap) Less(i, j int) bool {
	if h[i].Meta.Priority != h[j].Meta.Priority {
		return h[i].Meta.Priority > h[j].Meta.Priority // max-heap
	}
	return h[i].seq < h[j].seq
}

func (h jobHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *jobHeap) Push(x any) {
	*h = append(*h, x.(*Job))
}

func (h *jobHeap) Pop() any {
	old := *h
	n := len(old)
	j := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return j
}
