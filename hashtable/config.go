package hashtable

import (
	"log/slog"
	"math"
)

const (
	// DefaultCapacity is the bucket count used for the first
	// allocation when no capacity hint was given.
	DefaultCapacity = 1 << 4

	// MaxCapacity is the largest bucket count a table will grow to.
	// Beyond it, chains simply grow longer.
	MaxCapacity = 1 << 30

	// DefaultLoadFactor is used when no load factor is given
	// or the given one is not a positive number.
	DefaultLoadFactor float32 = 0.75

	// maxThreshold stands in for "never resize again".
	maxThreshold = math.MaxInt32
)

// Config holds the construction parameters of a Table.
// It is populated by Option functions; the zero Config
// describes a table with default settings.
type Config struct {
	sizeHint    int
	hasSizeHint bool
	loadFactor  float32
	logger      *slog.Logger
}

// Option configures a Table at construction time.
type Option func(*Config)

// WithCapacity hints the number of buckets the table should start
// with. The hint is rounded up to a power of two. A negative hint
// is replaced by DefaultCapacity and a hint above MaxCapacity is
// clamped to MaxCapacity.
//
// The bucket array is still allocated lazily, on the first Put.
func WithCapacity(n int) Option {
	return func(c *Config) {
		c.sizeHint = n
		c.hasSizeHint = true
	}
}

// WithLoadFactor sets the ratio of entries to buckets above which
// the table doubles its bucket array. Values that are not positive
// numbers are replaced by DefaultLoadFactor.
func WithLoadFactor(f float32) Option {
	return func(c *Config) {
		c.loadFactor = f
	}
}

// WithLogger makes the table report bucket array allocations and
// growth at debug level, and capacity saturation at warn level.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.logger = l
	}
}

// normalize replaces invalid parameters with defaults.
// Invalid parameters are never reported as errors.
func (c *Config) normalize() {
	if c.loadFactor <= 0 || math.IsNaN(float64(c.loadFactor)) {
		c.loadFactor = DefaultLoadFactor
	}
	if !c.hasSizeHint {
		return
	}
	if c.sizeHint < 0 {
		c.sizeHint = DefaultCapacity
	}
	if c.sizeHint > MaxCapacity {
		c.sizeHint = MaxCapacity
	}
}

// tableSizeFor returns the smallest power of two >= n,
// clamped to [1, MaxCapacity].
func tableSizeFor(n int) int {
	if n <= 1 {
		return 1
	}
	if n >= MaxCapacity {
		return MaxCapacity
	}
	x := uint32(n - 1)
	x |= x >> 1
	x |= x >> 2
	x |= x >> 4
	x |= x >> 8
	x |= x >> 16
	return int(x + 1)
}

// thresholdFor returns the size at which a table with the given
// capacity must grow.
func thresholdFor(capacity int, loadFactor float32) int {
	ft := float64(capacity) * float64(loadFactor)
	if capacity < MaxCapacity && ft < float64(MaxCapacity) {
		return int(ft)
	}
	return maxThreshold
}
