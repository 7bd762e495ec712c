package graphicsmanager

import (
	"fmt"
	"strings"

	"github.com/aurora-render/forge/rhi"
)

// DescriptorCache implements §4.12's per-frame descriptor caching: get_descriptors_for(cpu_descriptors,
// types, layout) -> gpu_descriptor, keyed by the full ordered list of CPU descriptor handles within one
// frame slot. A frame slot's cache is append-only for the slot's lifetime and wiped wholesale by Reset when
// the slot is reacquired (§5 Shared-resource policy: "CPU-visible descriptor heaps are append-only within a
// frame slot and reset on pool reset").
type DescriptorCache struct {
	entries map[string]uint64
}

// NewDescriptorCache constructs an empty per-frame-slot descriptor cache.
func NewDescriptorCache() *DescriptorCache {
	return &DescriptorCache{entries: make(map[string]uint64)}
}

// key renders the ordered CPU descriptor list plus the binding layout identity into a single cache key, so
// two calls with the same descriptors in the same order against the same layout collide to one GPU-visible
// allocation.
func key(cpuDescriptors []uint64, types []rhi.DescriptorType, layoutID string) string {
	var b strings.Builder
	b.WriteString(layoutID)
	for i, d := range cpuDescriptors {
		fmt.Fprintf(&b, "|%d:%x", types[i], d)
	}
	return b.String()
}

// GetDescriptorsFor returns the cached GPU-visible descriptor for the given ordered CPU descriptor list
// under layoutID, allocating via create (which both allocates from the resource heap and copies the
// descriptors into it) on a miss.
func (c *DescriptorCache) GetDescriptorsFor(cpuDescriptors []uint64, types []rhi.DescriptorType, layoutID string, create func([]uint64, []rhi.DescriptorType) uint64) uint64 {
	k := key(cpuDescriptors, types, layoutID)
	if gpu, ok := c.entries[k]; ok {
		return gpu
	}
	gpu := create(cpuDescriptors, types)
	c.entries[k] = gpu
	return gpu
}

// Reset discards every cached entry, called when the owning frame slot's command pool is reset at the
// start of a new frame using that slot (§4.12 step 2).
func (c *DescriptorCache) Reset() {
	c.entries = make(map[string]uint64)
}

// Len reports the number of distinct descriptor sets currently cached in this slot.
func (c *DescriptorCache) Len() int {
	return len(c.entries)
}
