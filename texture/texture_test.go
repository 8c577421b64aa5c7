package texture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/binzume/gltfasm/scene"
)

func writeTestPNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return name
}

func TestSimpleReturnsNilForNegativeIndex(t *testing.T) {
	doc := gltf.NewDocument()
	src := &scene.Source{}
	b := NewFileBuilder(doc, src, ".", "", nil)
	if b.Simple(-1, "albedo") != nil {
		t.Error("Simple(-1, ...) should return nil")
	}
}

func TestCombineReturnsNilWhenAllIndicesNegative(t *testing.T) {
	doc := gltf.NewDocument()
	src := &scene.Source{}
	b := NewFileBuilder(doc, src, ".", "", nil)
	got := b.Combine([]int64{-1, -1, -1}, "ao_met_rough", func(p []Pixel) Pixel {
		return Pixel{p[0][0], p[1][1], p[2][2], 1}
	}, false)
	if got != nil {
		t.Error("Combine with all-negative indices should return nil")
	}
}

func TestSimpleEmbeddingTexturePopulatesDefaultSampler(t *testing.T) {
	dir := t.TempDir()
	loc := writeTestPNG(t, dir, "albedo.png")

	doc := gltf.NewDocument()
	src := &scene.Source{Textures: []*scene.Texture{{FileLocation: loc}}}
	b := NewFileBuilder(doc, src, dir, "", nil)

	ref := b.Simple(0, "albedo")
	if ref == nil {
		t.Fatal("expected a texture ref for a valid source index")
	}
	if len(doc.Samplers) != 1 {
		t.Fatalf("expected exactly one default sampler, got %d", len(doc.Samplers))
	}
	if doc.Textures[ref.TextureIndex].Sampler == nil || *doc.Textures[ref.TextureIndex].Sampler != 0 {
		t.Error("expected the created texture to reference sampler 0")
	}

	// a second, distinct texture must not add a second sampler.
	loc2 := writeTestPNG(t, dir, "normal.png")
	src.Textures = append(src.Textures, &scene.Texture{FileLocation: loc2})
	if b.Simple(1, "normal") == nil {
		t.Fatal("expected a texture ref for the second valid source index")
	}
	if len(doc.Samplers) != 1 {
		t.Fatalf("expected the default sampler to be reused, got %d samplers", len(doc.Samplers))
	}
}

func TestMimeForExt(t *testing.T) {
	cases := map[string]string{
		".jpg":  "image/jpeg",
		".JPEG": "image/jpeg",
		".png":  "image/png",
		".tga":  "",
	}
	for ext, want := range cases {
		if got := mimeForExt(ext); got != want {
			t.Errorf("mimeForExt(%q) = %q, want %q", ext, got, want)
		}
	}
}
