package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/binzume/gltfasm/assemble"
)

func writeTempYAML(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "opts.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverlaysOnlyMentionedFields(t *testing.T) {
	path := writeTempYAML(t, "unlit: true\nlong_indices: always\n")

	base := assemble.DefaultOptions()
	base.UsePBRMetRough = true

	opts, err := Load(path, base)
	if err != nil {
		t.Fatal(err)
	}
	if !opts.UseKHRMaterialsUnlit {
		t.Error("expected unlit overridden to true")
	}
	if !opts.UsePBRMetRough {
		t.Error("expected fields absent from the YAML to keep their base value")
	}
}

func TestLoadDracoOverlay(t *testing.T) {
	path := writeTempYAML(t, "draco:\n  enabled: true\n  level: 9\n")

	opts, err := Load(path, assemble.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !opts.Draco.Enabled || opts.Draco.CompressionLevel != 9 {
		t.Errorf("expected draco overlay applied, got %+v", opts.Draco)
	}
}

func TestLoadReturnsErrorForMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), assemble.DefaultOptions())
	if err == nil {
		t.Fatal("expected an error for a nonexistent config file")
	}
}
