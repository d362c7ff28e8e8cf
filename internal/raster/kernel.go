package raster

import (
	"sync"

	"github.com/chewxy/math32"
)

// patch is a rasterized 2-D Gaussian splat kernel. Weights are the raw
// (unnormalized) exp falloff so that a splat's peak intensity equals the
// star's intensity regardless of sigma.
type patch struct {
	radius  int
	weights []float32 // (2*radius+1)² row-major
}

// gaussianPatch rasterizes a splat kernel for the given sigma.
func gaussianPatch(sigma float32) *patch {
	if sigma < 0.5 {
		sigma = 0.5
	}
	radius := int(math32.Ceil(sigma * 3))
	if radius < 2 {
		radius = 2
	}
	size := radius*2 + 1
	weights := make([]float32, size*size)
	twoSigmaSq := 2 * sigma * sigma
	for y := 0; y < size; y++ {
		dy := float32(y - radius)
		for x := 0; x < size; x++ {
			dx := float32(x - radius)
			weights[y*size+x] = math32.Exp(-(dx*dx + dy*dy) / twoSigmaSq)
		}
	}
	return &patch{radius: radius, weights: weights}
}

// kernel1D returns a normalized 1-D Gaussian kernel and its radius, for
// separable convolution. Truncated at 3 sigma. sigma <= 0 yields the
// identity kernel.
func kernel1D(sigma float64) ([]float32, int) {
	if sigma <= 0 {
		return []float32{1}, 0
	}
	radius := int(math32.Ceil(float32(sigma) * 3))
	if radius < 1 {
		radius = 1
	}
	size := radius*2 + 1
	kernel := make([]float32, size)
	denom := float32(2 * sigma * sigma)
	var sum float32
	for i := 0; i < size; i++ {
		x := float32(i - radius)
		v := math32.Exp(-(x * x) / denom)
		kernel[i] = v
		sum += v
	}
	if sum <= 0 {
		return []float32{1}, 0
	}
	inv := 1 / sum
	for i := range kernel {
		kernel[i] *= inv
	}
	return kernel, radius
}

// kernelCache memoizes rasterized kernels under quantized sigma keys.
// It is the only state that outlives a render call; entries are pure
// functions of their key, so clearing it never changes output.
type kernelCache struct {
	mu      sync.RWMutex
	patches map[int]*patch
	lines   map[int][]float32
	maxLen  int
}

var sharedKernels = &kernelCache{
	patches: make(map[int]*patch),
	lines:   make(map[int][]float32),
	maxLen:  128,
}

// splatPatch returns a cached splat kernel. Sigma is quantized to 1/64
// so nearby sizes share an entry.
func splatPatch(sigma float64) *patch {
	c := sharedKernels
	key := int(sigma*64 + 0.5)

	c.mu.RLock()
	p, ok := c.patches[key]
	c.mu.RUnlock()
	if ok {
		return p
	}

	p = gaussianPatch(float32(key) / 64)

	c.mu.Lock()
	if len(c.patches) >= c.maxLen {
		evictHalf(c.patches, c.maxLen)
	}
	c.patches[key] = p
	c.mu.Unlock()
	return p
}

// cachedKernel1D returns a cached normalized 1-D kernel. Sigma is
// quantized to 0.01; the kernel is computed from the quantized value, so
// every sigma in a bucket yields the same weights whether it hits or
// misses the cache.
func cachedKernel1D(sigma float64) ([]float32, int) {
	c := sharedKernels
	key := int(sigma * 100)

	c.mu.RLock()
	k, ok := c.lines[key]
	c.mu.RUnlock()
	if ok {
		return k, len(k) / 2
	}

	k, radius := kernel1D(float64(key) / 100)

	c.mu.Lock()
	if len(c.lines) >= c.maxLen {
		evictHalf(c.lines, c.maxLen)
	}
	c.lines[key] = k
	c.mu.Unlock()
	return k, radius
}

// evictHalf drops half the entries of m. Random map order is fine here;
// the cache is a pure memo.
func evictHalf[V any](m map[int]V, maxLen int) {
	n := 0
	for k := range m {
		delete(m, k)
		n++
		if n >= maxLen/2 {
			return
		}
	}
}

// ResetKernelCache clears the shared kernel cache. Output is unaffected;
// exposed so long-lived processes can bound memory explicitly.
func ResetKernelCache() {
	c := sharedKernels
	c.mu.Lock()
	c.patches = make(map[int]*patch)
	c.lines = make(map[int][]float32)
	c.mu.Unlock()
}
