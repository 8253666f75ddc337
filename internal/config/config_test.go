package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.APIPort != "8080" {
		t.Errorf("APIPort = %q, want 8080", cfg.APIPort)
	}
	if cfg.NATSSubject != "competencies.import" {
		t.Errorf("NATSSubject = %q", cfg.NATSSubject)
	}
	if cfg.QdrantCollection != "competencies" {
		t.Errorf("QdrantCollection = %q", cfg.QdrantCollection)
	}
	if cfg.DenseVectorSize != 1024 {
		t.Errorf("DenseVectorSize = %d, want 1024", cfg.DenseVectorSize)
	}
	if cfg.SearchTopK != 10 {
		t.Errorf("SearchTopK = %d, want 10", cfg.SearchTopK)
	}
	if cfg.WorkerRateLimit != 10 {
		t.Errorf("WorkerRateLimit = %v, want 10", cfg.WorkerRateLimit)
	}
	if cfg.WorkerJobTimeout != 60 {
		t.Errorf("WorkerJobTimeout = %d, want 60", cfg.WorkerJobTimeout)
	}
}

func TestLoadOverridesFromEnvironment(t *testing.T) {
	t.Setenv("API_PORT", "9999")
	t.Setenv("QDRANT_URL", "http://qdrant.internal:6333")
	t.Setenv("DENSE_VECTOR_SIZE", "768")
	t.Setenv("WORKER_RATE_LIMIT", "2.5")

	cfg := Load()

	if cfg.APIPort != "9999" {
		t.Errorf("API_PORT override ignored: %q", cfg.APIPort)
	}
	if cfg.QdrantURL != "http://qdrant.internal:6333" {
		t.Errorf("QDRANT_URL override ignored: %q", cfg.QdrantURL)
	}
	if cfg.DenseVectorSize != 768 {
		t.Errorf("DENSE_VECTOR_SIZE override ignored: %d", cfg.DenseVectorSize)
	}
	if cfg.WorkerRateLimit != 2.5 {
		t.Errorf("WORKER_RATE_LIMIT override ignored: %v", cfg.WorkerRateLimit)
	}
}

func TestLoadFallsBackOnUnparsableNumbers(t *testing.T) {
	t.Setenv("SEARCH_TOP_K", "lots")
	t.Setenv("WORKER_RATE_LIMIT", "fast")

	cfg := Load()

	if cfg.SearchTopK != 10 {
		t.Errorf("SearchTopK = %d, want fallback 10", cfg.SearchTopK)
	}
	if cfg.WorkerRateLimit != 10 {
		t.Errorf("WorkerRateLimit = %v, want fallback 10", cfg.WorkerRateLimit)
	}
}
