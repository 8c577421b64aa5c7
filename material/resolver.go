// Package material translates a source scene material's shading model
// into a glTF material, resolving textures through the TextureBuilder
// collaborator.
package material

import (
	"math"
	"strings"

	"github.com/qmuntal/gltf"

	"github.com/binzume/gltfasm/scene"
	"github.com/binzume/gltfasm/texture"
)

const unlitExtension = "KHR_materials_unlit"

// Options controls which output shading path the resolver takes.
type Options struct {
	PBRMetRough bool // emit metallic-roughness materials (the common case)
	Unlit       bool // override to KHR_materials_unlit
}

// Resolver converts scene.Material values into gltf.Material values,
// one call per source material.
type Resolver struct {
	Tex texture.Builder
	Src *scene.Source
	Opt Options
}

// New returns a Resolver that resolves textures through tex, comparing
// source file locations (for the ORM pass-through optimization) against
// src's texture table.
func New(tex texture.Builder, src *scene.Source, opt Options) *Resolver {
	return &Resolver{Tex: tex, Src: src, Opt: opt}
}

// Resolve implements the five-step algorithm: normal/emissive textures,
// PBR-met-rough or traditional shading conversion (with ORM
// combination), unlit override, and occlusion fallback.
func (r *Resolver) Resolve(m *scene.Material) *gltf.Material {
	out := &gltf.Material{
		Name:        m.Name,
		DoubleSided: m.IsDoubleSided,
	}
	if m.Type.IsTransparent() {
		out.AlphaMode = gltf.AlphaBlend
	}

	var normalTex *texture.Ref
	var emissiveTex *texture.Ref
	if id := m.Texture(scene.TextureUsageNormal); id >= 0 {
		normalTex = r.Tex.Simple(id, "normal")
	}
	if id := m.Texture(scene.TextureUsageEmissive); id >= 0 {
		emissiveTex = r.Tex.Simple(id, "emissive")
	}
	var occlusionTex *texture.Ref

	emissiveFactor := m.EmissiveFactor
	emissiveIntensity := m.EmissiveIntensity

	var pbr *gltf.PBRMetallicRoughness

	if r.Opt.PBRMetRough {
		if m.ShadingModel == scene.ShadingPBRMetRough && m.MetRough != nil {
			pbr, occlusionTex = r.resolveMetRough(m)
		} else {
			pbr, occlusionTex = r.resolveTraditional(m)
			emissiveIntensity = 1
		}
	}

	if r.Opt.Unlit {
		normalTex = nil
		emissiveTex = nil
		emissiveFactor = [3]float32{}
		diffuse := [4]float32{1, 1, 1, 1}
		var baseColorTex *gltf.TextureInfo
		if pbr != nil {
			if pbr.BaseColorFactor != nil {
				diffuse = *pbr.BaseColorFactor
			}
			baseColorTex = pbr.BaseColorTexture
		} else {
			// PBRMetRough is off, so pbr was never populated above; the
			// unlit material still needs a base color, resolved straight
			// from the material's own shading data rather than reused
			// from a pbr value that doesn't exist.
			factor, tex := r.resolveDiffuseSource(m)
			diffuse = factor
			if tex != nil {
				baseColorTex = &gltf.TextureInfo{Index: tex.TextureIndex}
			}
		}
		pbr = &gltf.PBRMetallicRoughness{
			BaseColorTexture: baseColorTex,
			BaseColorFactor:  &diffuse,
			RoughnessFactor:  gltf.Float(1),
			MetallicFactor:   gltf.Float(0),
		}
		out.Extensions = map[string]interface{}{unlitExtension: map[string]string{}}
	}

	if occlusionTex == nil {
		if id := m.Texture(scene.TextureUsageOcclusion); id >= 0 {
			occlusionTex = r.Tex.Simple(id, "occlusion")
		}
	}

	if normalTex != nil {
		out.NormalTexture = &gltf.NormalTexture{Index: gltf.Index(normalTex.TextureIndex)}
	}
	if occlusionTex != nil {
		out.OcclusionTexture = &gltf.OcclusionTexture{Index: gltf.Index(occlusionTex.TextureIndex)}
	}
	if emissiveTex != nil {
		out.EmissiveTexture = &gltf.TextureInfo{Index: emissiveTex.TextureIndex}
	}
	out.EmissiveFactor = [3]float32{
		emissiveFactor[0] * emissiveIntensity,
		emissiveFactor[1] * emissiveIntensity,
		emissiveFactor[2] * emissiveIntensity,
	}
	out.PBRMetallicRoughness = pbr

	return out
}

func (r *Resolver) resolveMetRough(m *scene.Material) (*gltf.PBRMetallicRoughness, *texture.Ref) {
	props := m.MetRough
	occID := m.Texture(scene.TextureUsageOcclusion)
	roughID := m.Texture(scene.TextureUsageRoughness)
	metalID := m.Texture(scene.TextureUsageMetallic)
	hasOcc, hasRough, hasMetal := occID >= 0, roughID >= 0, metalID >= 0

	var aoMetRough *texture.Ref
	switch {
	case !hasOcc && !hasRough && !hasMetal:
		aoMetRough = nil
	case hasOcc && hasRough && hasMetal && r.sameLocation(occID, roughID, metalID):
		aoMetRough = r.Tex.Simple(metalID, "ao_met_rough")
	default:
		roughness, metallic, invert := props.Roughness, props.Metallic, props.InvertRoughnessMap
		combiner := func(pixels []texture.Pixel) texture.Pixel {
			occ := float32(1)
			if hasOcc {
				occ = pixels[0][0]
			}
			rough := pixels[1][1]
			if !hasRough {
				rough *= roughness
			}
			metal := pixels[2][2]
			if !hasMetal {
				metal *= metallic
			}
			if invert {
				rough = 1 - rough
			}
			return texture.Pixel{occ, rough, metal, 1}
		}
		aoMetRough = r.Tex.Combine([]int64{occID, roughID, metalID}, "ao_met_rough", combiner, false)
	}

	albedoTex := r.Tex.Simple(m.Texture(scene.TextureUsageAlbedo), "albedo")
	pbr := &gltf.PBRMetallicRoughness{
		BaseColorFactor: floatPtr4(props.DiffuseFactor),
		MetallicFactor:  gltf.Float(props.Metallic),
		RoughnessFactor: gltf.Float(props.Roughness),
	}
	if albedoTex != nil {
		pbr.BaseColorTexture = &gltf.TextureInfo{Index: albedoTex.TextureIndex}
	}
	if aoMetRough != nil {
		pbr.MetallicRoughnessTexture = &gltf.TextureInfo{Index: aoMetRough.TextureIndex}
	}
	return pbr, aoMetRough
}

func roughnessFromShininess(s float32) float32 {
	return float32(math.Sqrt(2 / (2 + float64(s))))
}

func (r *Resolver) resolveTraditional(m *scene.Material) (*gltf.PBRMetallicRoughness, *texture.Ref) {
	props := m.Traditional
	if props == nil {
		props = &scene.TraditionalProps{DiffuseFactor: [4]float32{1, 1, 1, 1}}
	}

	var metallic, roughness float32
	var aoMetRough *texture.Ref

	switch m.ShadingModel {
	case scene.ShadingBlinn, scene.ShadingPhong:
		metallic = 0.4
		shininessID := m.Texture(scene.TextureUsageShininess)
		if shininessID >= 0 {
			shininess := props.Shininess
			// Open question, preserved from source behavior: this combiner
			// always writes occlusion = 0 to the R channel, which darkens
			// any consumer that reads occlusion from this combined map.
			combiner := func(pixels []texture.Pixel) texture.Pixel {
				return texture.Pixel{0, roughnessFromShininess(shininess * pixels[0][0]), 0.4, 1}
			}
			aoMetRough = r.Tex.Combine([]int64{shininessID}, "shininess_met_rough", combiner, false)
			if aoMetRough != nil {
				metallic = 1
				roughness = 1
			} else {
				roughness = roughnessFromShininess(props.Shininess)
			}
		} else {
			roughness = roughnessFromShininess(props.Shininess)
		}
	default:
		metallic, roughness = 0.2, 0.8
	}

	diffuseTex := r.Tex.Simple(m.Texture(scene.TextureUsageDiffuse), "diffuse")
	pbr := &gltf.PBRMetallicRoughness{
		BaseColorFactor: floatPtr4(props.DiffuseFactor),
		MetallicFactor:  gltf.Float(metallic),
		RoughnessFactor: gltf.Float(roughness),
	}
	if diffuseTex != nil {
		pbr.BaseColorTexture = &gltf.TextureInfo{Index: diffuseTex.TextureIndex}
	}
	if aoMetRough != nil {
		pbr.MetallicRoughnessTexture = &gltf.TextureInfo{Index: aoMetRough.TextureIndex}
	}
	return pbr, aoMetRough
}

// resolveDiffuseSource resolves a material's base color factor and
// texture straight from its shading data, independent of whichever
// PBR-conversion branch (if any) already ran. Used by the unlit
// override when PBRMetRough is off and pbr was never populated.
func (r *Resolver) resolveDiffuseSource(m *scene.Material) (factor [4]float32, tex *texture.Ref) {
	if m.ShadingModel == scene.ShadingPBRMetRough && m.MetRough != nil {
		return m.MetRough.DiffuseFactor, r.Tex.Simple(m.Texture(scene.TextureUsageAlbedo), "albedo")
	}
	props := m.Traditional
	if props == nil {
		props = &scene.TraditionalProps{DiffuseFactor: [4]float32{1, 1, 1, 1}}
	}
	return props.DiffuseFactor, r.Tex.Simple(m.Texture(scene.TextureUsageDiffuse), "diffuse")
}

func floatPtr4(v [4]float32) *[4]float32 {
	return &v
}

func (r *Resolver) sameLocation(ids ...scene.ID) bool {
	if r.Src == nil || len(ids) == 0 {
		return false
	}
	first := strings.ToLower(r.Src.Textures[ids[0]].FileLocation)
	for _, id := range ids[1:] {
		if strings.ToLower(r.Src.Textures[id].FileLocation) != first {
			return false
		}
	}
	return true
}
