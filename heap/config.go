package heap

import "fmt"

// Config holds the heap's tunable constants (spec.md §6 "Tunables") and
// its diagnostic build flags. Grounded in the teacher's
// compileopts.Options: a plain exported struct of fields, validated by
// a Validate method rather than a schema library.
type Config struct {
	// BlockCells is the number of cells per block (B in spec.md; target
	// 200).
	BlockCells int

	// PreCollectRatio is the available-ratio threshold below which Alloc
	// triggers a collection before allocating (R_pre; target 0.10).
	PreCollectRatio float64

	// PostCollectRatio is the available-ratio a collection must restore
	// by growing the heap if necessary (R_after; target 0.20).
	PostCollectRatio float64

	// CollectOnEveryAlloc forces a collection on every Alloc call
	// (spec.md §6 "collect-on-every-alloc" stress mode), ignoring
	// PreCollectRatio.
	CollectOnEveryAlloc bool

	// Disabled bypasses collection entirely (spec.md §6 "gc-disabled"),
	// for bring-up of unrelated subsystems. Collect becomes a silent
	// no-op while set.
	Disabled bool
}

// DefaultConfig returns the spec's target tunables: 200 cells per block,
// a 10% pre-collection trigger, and a 20% post-collection floor.
func DefaultConfig() Config {
	return Config{
		BlockCells:       200,
		PreCollectRatio:  0.10,
		PostCollectRatio: 0.20,
	}
}

// Option customizes a Config produced by DefaultConfig.
type Option func(*Config)

// WithBlockCells overrides the number of cells per block.
func WithBlockCells(n int) Option {
	return func(c *Config) { c.BlockCells = n }
}

// WithPreCollectRatio overrides the pre-collection trigger ratio.
func WithPreCollectRatio(r float64) Option {
	return func(c *Config) { c.PreCollectRatio = r }
}

// WithPostCollectRatio overrides the post-collection floor ratio.
func WithPostCollectRatio(r float64) Option {
	return func(c *Config) { c.PostCollectRatio = r }
}

// WithCollectOnEveryAlloc enables or disables the collect-on-every-alloc
// stress mode.
func WithCollectOnEveryAlloc(enabled bool) Option {
	return func(c *Config) { c.CollectOnEveryAlloc = enabled }
}

// WithDisabled enables or disables collection entirely.
func WithDisabled(disabled bool) Option {
	return func(c *Config) { c.Disabled = disabled }
}

// Validate reports whether the config describes a usable heap.
func (c Config) Validate() error {
	if c.BlockCells <= 0 {
		return fmt.Errorf("heap: BlockCells must be positive, got %d", c.BlockCells)
	}
	if c.PreCollectRatio < 0 || c.PreCollectRatio > 1 {
		return fmt.Errorf("heap: PreCollectRatio must be in [0,1], got %v", c.PreCollectRatio)
	}
	if c.PostCollectRatio < 0 || c.PostCollectRatio > 1 {
		return fmt.Errorf("heap: PostCollectRatio must be in [0,1], got %v", c.PostCollectRatio)
	}
	return nil
}
