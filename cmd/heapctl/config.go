package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/nat-run/natheap/heap"
)

// fileConfig is the on-disk shape of heapctl.yaml: tunable overrides plus
// operator-facing paths. Grounded on the teacher's own board/target
// descriptor YAML files, repurposed here for heap tunables instead of
// hardware pin maps.
type fileConfig struct {
	BlockCells          int     `yaml:"block_cells"`
	PreCollectRatio     float64 `yaml:"pre_collect_ratio"`
	PostCollectRatio    float64 `yaml:"post_collect_ratio"`
	CollectOnEveryAlloc bool    `yaml:"collect_on_every_alloc"`
	SnapshotDir         string  `yaml:"snapshot_dir"`
}

func defaultFileConfig() fileConfig {
	d := heap.DefaultConfig()
	return fileConfig{
		BlockCells:       d.BlockCells,
		PreCollectRatio:  d.PreCollectRatio,
		PostCollectRatio: d.PostCollectRatio,
		SnapshotDir:      "./snapshots",
	}
}

// loadFileConfig reads path if it exists, overlaying onto the defaults;
// a missing file is not an error, matching the teacher's own tolerant
// "no target file means use defaults" behavior.
func loadFileConfig(path string) (fileConfig, error) {
	cfg := defaultFileConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("heapctl: reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("heapctl: parsing config %s: %w", path, err)
	}
	return cfg, nil
}

func (c fileConfig) heapOptions() []heap.Option {
	return []heap.Option{
		heap.WithBlockCells(c.BlockCells),
		heap.WithPreCollectRatio(c.PreCollectRatio),
		heap.WithPostCollectRatio(c.PostCollectRatio),
		heap.WithCollectOnEveryAlloc(c.CollectOnEveryAlloc),
	}
}
