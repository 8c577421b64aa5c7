package material

import (
	"math"
	"testing"

	"github.com/binzume/gltfasm/scene"
	"github.com/binzume/gltfasm/texture"
)

type fakeBuilder struct {
	simpleCalls  []int64
	combineCalls []string
}

func (f *fakeBuilder) Simple(sourceTextureIndex int64, purposeTag string) *texture.Ref {
	if sourceTextureIndex < 0 {
		return nil
	}
	f.simpleCalls = append(f.simpleCalls, sourceTextureIndex)
	return &texture.Ref{TextureIndex: uint32(sourceTextureIndex)}
}

func (f *fakeBuilder) Combine(sourceIndices []int64, outputTag string, combine texture.Combiner, srgb bool) *texture.Ref {
	f.combineCalls = append(f.combineCalls, outputTag)
	return &texture.Ref{TextureIndex: 99}
}

func newMaterial(usages map[scene.TextureUsage]scene.ID) *scene.Material {
	m := &scene.Material{}
	for i := range m.Textures {
		m.Textures[i] = -1
	}
	for u, id := range usages {
		m.Textures[u] = id
	}
	return m
}

func TestBlinnShininessConversion(t *testing.T) {
	fb := &fakeBuilder{}
	m := newMaterial(nil)
	m.ShadingModel = scene.ShadingBlinn
	m.Traditional = &scene.TraditionalProps{DiffuseFactor: [4]float32{1, 1, 1, 1}, Shininess: 6}

	r := New(fb, &scene.Source{}, Options{PBRMetRough: true})
	out := r.Resolve(m)

	want := float32(math.Sqrt(2.0 / 8.0))
	if diff := *out.PBRMetallicRoughness.RoughnessFactor - want; diff > 1e-5 || diff < -1e-5 {
		t.Error("expected roughness ~= sqrt(2/8), got", *out.PBRMetallicRoughness.RoughnessFactor)
	}
	if *out.PBRMetallicRoughness.MetallicFactor != 0.4 {
		t.Error("expected metallic 0.4, got", *out.PBRMetallicRoughness.MetallicFactor)
	}
}

func TestORMPassThroughWhenSameFile(t *testing.T) {
	fb := &fakeBuilder{}
	src := &scene.Source{Textures: []*scene.Texture{{FileLocation: "orm.png"}}}
	m := newMaterial(map[scene.TextureUsage]scene.ID{
		scene.TextureUsageOcclusion: 0,
		scene.TextureUsageRoughness: 0,
		scene.TextureUsageMetallic:  0,
	})
	m.ShadingModel = scene.ShadingPBRMetRough
	m.MetRough = &scene.MetRoughProps{DiffuseFactor: [4]float32{1, 1, 1, 1}, Metallic: 1, Roughness: 1}

	r := New(fb, src, Options{PBRMetRough: true})
	r.Resolve(m)

	if len(fb.combineCalls) != 0 {
		t.Error("expected pass-through (Simple), not Combine, got combine calls", fb.combineCalls)
	}
}

func TestORMCombineWhenDifferentFiles(t *testing.T) {
	fb := &fakeBuilder{}
	src := &scene.Source{Textures: []*scene.Texture{{FileLocation: "occ.png"}, {FileLocation: "rough.png"}, {FileLocation: "metal.png"}}}
	m := newMaterial(map[scene.TextureUsage]scene.ID{
		scene.TextureUsageOcclusion: 0,
		scene.TextureUsageRoughness: 1,
		scene.TextureUsageMetallic:  2,
	})
	m.ShadingModel = scene.ShadingPBRMetRough
	m.MetRough = &scene.MetRoughProps{DiffuseFactor: [4]float32{1, 1, 1, 1}}

	r := New(fb, src, Options{PBRMetRough: true})
	out := r.Resolve(m)

	if len(fb.combineCalls) != 1 || fb.combineCalls[0] != "ao_met_rough" {
		t.Error("expected one ao_met_rough combine call, got", fb.combineCalls)
	}
	if out.OcclusionTexture == nil {
		t.Error("expected occlusion texture to be set from the combined ORM map")
	}
}

func TestUnlitOverride(t *testing.T) {
	fb := &fakeBuilder{}
	m := newMaterial(map[scene.TextureUsage]scene.ID{scene.TextureUsageNormal: 0, scene.TextureUsageEmissive: 1})
	m.ShadingModel = scene.ShadingPBRMetRough
	m.MetRough = &scene.MetRoughProps{DiffuseFactor: [4]float32{1, 0, 0, 1}}

	r := New(fb, &scene.Source{Textures: make([]*scene.Texture, 2)}, Options{PBRMetRough: true, Unlit: true})
	out := r.Resolve(m)

	if out.NormalTexture != nil || out.EmissiveTexture != nil {
		t.Error("unlit override should drop normal/emissive textures")
	}
	if out.EmissiveFactor != [3]float32{} {
		t.Error("unlit override should zero emissive factor")
	}
	if out.Extensions[unlitExtension] == nil {
		t.Error("expected KHR_materials_unlit extension marker")
	}
}

func TestUnlitOverrideWithoutPBRMetRoughStillResolvesDiffuse(t *testing.T) {
	fb := &fakeBuilder{}
	m := newMaterial(map[scene.TextureUsage]scene.ID{scene.TextureUsageDiffuse: 0})
	m.ShadingModel = scene.ShadingPhong
	m.Traditional = &scene.TraditionalProps{DiffuseFactor: [4]float32{0.2, 0.4, 0.6, 1}}

	r := New(fb, &scene.Source{Textures: make([]*scene.Texture, 1)}, Options{PBRMetRough: false, Unlit: true})
	out := r.Resolve(m)

	if out.PBRMetallicRoughness == nil {
		t.Fatal("expected a PBR block even with PBRMetRough disabled, to carry the unlit base color")
	}
	if *out.PBRMetallicRoughness.BaseColorFactor != [4]float32{0.2, 0.4, 0.6, 1} {
		t.Error("expected the traditional diffuse factor to survive into the unlit base color", *out.PBRMetallicRoughness.BaseColorFactor)
	}
	if out.PBRMetallicRoughness.BaseColorTexture == nil {
		t.Error("expected the diffuse texture to survive into the unlit base color texture")
	}
	if out.Extensions[unlitExtension] == nil {
		t.Error("expected KHR_materials_unlit extension marker")
	}
}
