// Package config loads a YAML overlay for assemble.Options, the way
// package unity decodes Unity's YAML scene documents for the teacher.
package config

import (
	"os"

	yaml "gopkg.in/yaml.v2"

	"github.com/binzume/gltfasm/assemble"
	"github.com/binzume/gltfasm/mesh"
)

// document mirrors assemble.Options with yaml tags; a field absent from
// the document keeps whatever value was already in the Options the
// caller starts from (see Load).
type document struct {
	LongIndices *string `yaml:"long_indices"`

	KeepNormal  *bool `yaml:"keep_normal"`
	KeepTangent *bool `yaml:"keep_tangent"`
	KeepColor   *bool `yaml:"keep_color"`
	KeepUV0     *bool `yaml:"keep_uv0"`
	KeepUV1     *bool `yaml:"keep_uv1"`
	KeepJoints  *int  `yaml:"keep_joints"`

	Unlit                    *bool `yaml:"unlit"`
	LightsPunctual           *bool `yaml:"lights"`
	PBRMetRough              *bool `yaml:"pbr_met_rough"`
	UserProperties           *bool `yaml:"user_properties"`
	DisableSparseBlendShapes *bool `yaml:"no_sparse_morph"`
	BlendShapeNormals        *bool `yaml:"morph_normals"`
	BlendShapeTangents       *bool `yaml:"morph_tangents"`

	Binary       *bool   `yaml:"glb"`
	OutputFolder *string `yaml:"output_folder"`

	Draco *dracoDocument `yaml:"draco"`

	Verbose *bool `yaml:"verbose"`
}

type dracoDocument struct {
	Enabled           *bool `yaml:"enabled"`
	CompressionLevel  *int  `yaml:"level"`
	QuantBitsPosition *int  `yaml:"quant_position"`
	QuantBitsTexCoord *int  `yaml:"quant_texcoord"`
	QuantBitsNormal   *int  `yaml:"quant_normal"`
	QuantBitsColor    *int  `yaml:"quant_color"`
	QuantBitsGeneric  *int  `yaml:"quant_generic"`
}

// Load reads path and applies its fields onto base, leaving any field
// the YAML document doesn't mention untouched. A caller that wants
// pure defaults for everything else should pass assemble.DefaultOptions().
func Load(path string, base assemble.Options) (assemble.Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, err
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return base, err
	}
	applyOverlay(&base, &doc)
	return base, nil
}

func applyOverlay(opts *assemble.Options, doc *document) {
	if doc.LongIndices != nil {
		opts.LongIndices = parseIndexWidth(*doc.LongIndices)
	}
	if doc.KeepNormal != nil {
		opts.KeepAttribs.Normal = *doc.KeepNormal
	}
	if doc.KeepTangent != nil {
		opts.KeepAttribs.Tangent = *doc.KeepTangent
	}
	if doc.KeepColor != nil {
		opts.KeepAttribs.Color = *doc.KeepColor
	}
	if doc.KeepUV0 != nil {
		opts.KeepAttribs.UV0 = *doc.KeepUV0
	}
	if doc.KeepUV1 != nil {
		opts.KeepAttribs.UV1 = *doc.KeepUV1
	}
	if doc.KeepJoints != nil {
		opts.KeepAttribs.Joints = *doc.KeepJoints
	}
	if doc.Unlit != nil {
		opts.UseKHRMaterialsUnlit = *doc.Unlit
	}
	if doc.LightsPunctual != nil {
		opts.UseKHRLightsPunctual = *doc.LightsPunctual
	}
	if doc.PBRMetRough != nil {
		opts.UsePBRMetRough = *doc.PBRMetRough
	}
	if doc.UserProperties != nil {
		opts.EnableUserProperties = *doc.UserProperties
	}
	if doc.DisableSparseBlendShapes != nil {
		opts.DisableSparseBlendShapes = *doc.DisableSparseBlendShapes
	}
	if doc.BlendShapeNormals != nil {
		opts.UseBlendShapeNormals = *doc.BlendShapeNormals
	}
	if doc.BlendShapeTangents != nil {
		opts.UseBlendShapeTangents = *doc.BlendShapeTangents
	}
	if doc.Binary != nil {
		opts.OutputBinary = *doc.Binary
	}
	if doc.OutputFolder != nil {
		opts.OutputFolder = *doc.OutputFolder
	}
	if doc.Verbose != nil {
		opts.Verbose = *doc.Verbose
	}
	if doc.Draco != nil {
		applyDracoOverlay(&opts.Draco, doc.Draco)
	}
}

func applyDracoOverlay(d *mesh.DracoOptions, doc *dracoDocument) {
	if doc.Enabled != nil {
		d.Enabled = *doc.Enabled
	}
	if doc.CompressionLevel != nil {
		d.CompressionLevel = *doc.CompressionLevel
	}
	if doc.QuantBitsPosition != nil {
		d.QuantBitsPosition = *doc.QuantBitsPosition
	}
	if doc.QuantBitsTexCoord != nil {
		d.QuantBitsTexCoord = *doc.QuantBitsTexCoord
	}
	if doc.QuantBitsNormal != nil {
		d.QuantBitsNormal = *doc.QuantBitsNormal
	}
	if doc.QuantBitsColor != nil {
		d.QuantBitsColor = *doc.QuantBitsColor
	}
	if doc.QuantBitsGeneric != nil {
		d.QuantBitsGeneric = *doc.QuantBitsGeneric
	}
}

func parseIndexWidth(s string) mesh.IndexWidth {
	switch s {
	case "never":
		return mesh.IndexWidthNever
	case "always":
		return mesh.IndexWidthAlways
	default:
		return mesh.IndexWidthAuto
	}
}
