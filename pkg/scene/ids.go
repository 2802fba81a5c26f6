package scene

import "fmt"

// IDAllocator hands out object ids of the form "<name>_<n>", counting per
// name. One allocator is created per run and passed down the placement call
// chain; it is not safe for concurrent use.
type IDAllocator struct {
	counts map[string]int
}

// NewIDAllocator returns an allocator with all counters at zero.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{counts: make(map[string]int)}
}

// Next returns the next unused id for name.
func (a *IDAllocator) Next(name string) string {
	n := a.counts[name]
	a.counts[name] = n + 1
	return fmt.Sprintf("%s_%d", name, n)
}
