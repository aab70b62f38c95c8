package model

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if cfg.Scheduling.MaxBatchSize != MaxBatchCeiling {
			t.Errorf("MaxBatchSize = %d, want %d", cfg.Scheduling.MaxBatchSize, MaxBatchCeiling)
		}
		if !cfg.Scheduling.NotifyOnAssignment {
			t.Error("NotifyOnAssignment should default to true")
		}
	})

	t.Run("values from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "storage:\n  path: /var/lib/farmtask/tasks.db\nscheduling:\n  max_batch_size: 25\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing config: %v", err)
		}

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if cfg.Storage.Path != "/var/lib/farmtask/tasks.db" {
			t.Errorf("Storage.Path = %q", cfg.Storage.Path)
		}
		if cfg.Scheduling.MaxBatchSize != 25 {
			t.Errorf("MaxBatchSize = %d, want 25", cfg.Scheduling.MaxBatchSize)
		}
	})

	t.Run("oversized batch size clamped", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("scheduling:\n  max_batch_size: 500\n"), 0o644); err != nil {
			t.Fatalf("writing config: %v", err)
		}
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if cfg.Scheduling.MaxBatchSize != MaxBatchCeiling {
			t.Errorf("MaxBatchSize = %d, want clamped %d", cfg.Scheduling.MaxBatchSize, MaxBatchCeiling)
		}
	})
}
