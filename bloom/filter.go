// Package bloom provides a probabilistic membership gate for hashed keys.
package bloom

import (
	"encoding/binary"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter answers "definitely absent" or "possibly present" for 64-bit keys.
// It is not safe for concurrent use.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected keys
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	if n == 0 {
		n = 1
	}
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// TestAndAdd records key and reports whether it might have been recorded
// before. False positives are possible; false negatives are not.
func (f *Filter) TestAndAdd(key uint64) bool {
	return f.f.TestAndAdd(binary.LittleEndian.AppendUint64(nil, key))
}
