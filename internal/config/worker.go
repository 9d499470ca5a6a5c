package config

import "time"

// WorkerConfig sizes the queue consumers of the background workers.
type WorkerConfig struct {
	IndexWorkers  int
	ExportWorkers int
	PollInterval  time.Duration
}

func DefaultWorkerConfig() *WorkerConfig {
	return &WorkerConfig{
		IndexWorkers:  getEnvIntWithDefault("INDEX_WORKERS", 2),
		ExportWorkers: getEnvIntWithDefault("EXPORT_WORKERS", 1),
		PollInterval:  getEnvDurationWithDefault("WORKER_POLL_INTERVAL", 5*time.Second),
	}
}
