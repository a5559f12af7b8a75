package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Store.Dir != "saved_faces" {
		t.Errorf("expected default store dir saved_faces, got %q", cfg.Store.Dir)
	}
	if cfg.Recognizer.Model != "VGG-Face" {
		t.Errorf("expected default model VGG-Face, got %q", cfg.Recognizer.Model)
	}
	if cfg.Recognizer.Analyzer != "deepface" {
		t.Errorf("expected default analyzer deepface, got %q", cfg.Recognizer.Analyzer)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("WEB_PORT", "9090")
	t.Setenv("STORE_DIR", "/tmp/faces")
	t.Setenv("RECOGNIZER_MODEL", "Facenet")

	cfg := Load()

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Store.Dir != "/tmp/faces" {
		t.Errorf("expected store dir /tmp/faces, got %q", cfg.Store.Dir)
	}
	if cfg.Recognizer.Model != "Facenet" {
		t.Errorf("expected model Facenet, got %q", cfg.Recognizer.Model)
	}
}

func TestLoad_InvalidPortFallsBack(t *testing.T) {
	t.Setenv("WEB_PORT", "not-a-number")

	cfg := Load()
	if cfg.Server.Port != 8080 {
		t.Errorf("expected fallback port 8080, got %d", cfg.Server.Port)
	}
}

func TestModelThreshold(t *testing.T) {
	cfg := Load()

	if got := cfg.ModelThreshold("VGG-Face"); got != 0.68 {
		t.Errorf("expected VGG-Face threshold 0.68, got %f", got)
	}
	if got := cfg.ModelThreshold("Facenet"); got != 0.40 {
		t.Errorf("expected Facenet threshold 0.40, got %f", got)
	}
	// Unknown models fall back to the VGG-Face threshold.
	if got := cfg.ModelThreshold("NoSuchModel"); got != 0.68 {
		t.Errorf("expected fallback threshold 0.68, got %f", got)
	}
}
