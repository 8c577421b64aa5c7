// Command gltfasm turns an already-parsed scene (a JSON-encoded
// scene.Source) into a glTF 2.0 document, writing plain-JSON glTF or a
// single .glb depending on the output file's extension (-glb makes the
// default output name end in .glb).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/binzume/gltfasm/assemble"
	"github.com/binzume/gltfasm/internal/config"
	"github.com/binzume/gltfasm/internal/diag"
	"github.com/binzume/gltfasm/mesh"
	"github.com/binzume/gltfasm/scene"
)

func defaultOutputFile(input string, glb bool) string {
	ext := filepath.Ext(input)
	base := input[0 : len(input)-len(ext)]
	if glb {
		return base + ".glb"
	}
	return base + ".gltf"
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s input.json [output]\n", os.Args[0])
		flag.PrintDefaults()
	}

	longIndices := flag.String("long-indices", "auto", "index width: auto, never, always")
	unlit := flag.Bool("unlit", false, "force KHR_materials_unlit on every material")
	lights := flag.Bool("lights", false, "emit KHR_lights_punctual for source lights")
	pbrMetRough := flag.Bool("pbr-met-rough", true, "emit metallic-roughness materials")
	noSparseMorph := flag.Bool("no-sparse-morph", false, "emit dense morph target accessors instead of sparse")
	morphNormals := flag.Bool("morph-normals", true, "include normal deltas in morph targets")
	morphTangents := flag.Bool("morph-tangents", false, "include tangent deltas in morph targets")
	userProperties := flag.Bool("user-properties", false, "carry source user properties into extras")
	glb := flag.Bool("glb", false, "name the default output .glb (single binary container) instead of .gltf")
	outputFolder := flag.String("out-dir", "", "folder for resource files referenced by a text .gltf")
	verbose := flag.Bool("v", false, "print per-component input counts and per-material notes during assembly")

	draco := flag.Bool("draco", false, "enable geometry compression")
	dracoLevel := flag.Int("draco-level", 7, "compression level, 0 (fast) to 10 (small)")
	dracoQuantPosition := flag.Int("draco-quant-position", 14, "quantization bits for POSITION")
	dracoQuantTexCoord := flag.Int("draco-quant-texcoord", 12, "quantization bits for TEXCOORD_n")
	dracoQuantNormal := flag.Int("draco-quant-normal", 10, "quantization bits for NORMAL/TANGENT")
	dracoQuantColor := flag.Int("draco-quant-color", 8, "quantization bits for COLOR_0")
	dracoQuantGeneric := flag.Int("draco-quant-generic", 12, "quantization bits for JOINTS_n/WEIGHTS_n")

	configPath := flag.String("config", "", "YAML options overlay (default: <input>.gltfasm.yaml if present)")

	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	input := flag.Arg(0)

	opts := assemble.DefaultOptions()

	confFile := *configPath
	if confFile == "" {
		candidate := input[0:len(input)-len(filepath.Ext(input))] + ".gltfasm.yaml"
		if _, err := os.Stat(candidate); err == nil {
			confFile = candidate
		}
	}
	if confFile != "" {
		var err error
		opts, err = config.Load(confFile, opts)
		if err != nil {
			log.Fatal(err)
		}
	}

	applyFlagOverrides(&opts, flagsSet{
		longIndices: longIndices, unlit: unlit, lights: lights, pbrMetRough: pbrMetRough,
		noSparseMorph: noSparseMorph, morphNormals: morphNormals, morphTangents: morphTangents,
		userProperties: userProperties, glb: glb, outputFolder: outputFolder, verbose: verbose,
		draco: draco, dracoLevel: dracoLevel, dracoQuantPosition: dracoQuantPosition,
		dracoQuantTexCoord: dracoQuantTexCoord, dracoQuantNormal: dracoQuantNormal,
		dracoQuantColor: dracoQuantColor, dracoQuantGeneric: dracoQuantGeneric,
	})

	output := ""
	if flag.NArg() > 1 {
		output = flag.Arg(1)
	} else {
		output = defaultOutputFile(input, opts.OutputBinary)
	}

	f, err := os.Open(input)
	if err != nil {
		log.Fatal(err)
	}
	src, err := scene.LoadSource(f)
	f.Close()
	if err != nil {
		log.Fatal(err)
	}

	warn := diag.NewLogger()
	asm := assemble.New(filepath.Dir(input), warn)
	doc, err := asm.Run(src, opts)
	if err != nil {
		log.Fatal(err)
	}

	out, err := os.Create(output)
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()

	if strings.EqualFold(filepath.Ext(output), ".glb") {
		err = assemble.WriteGLB(doc, out)
	} else {
		err = assemble.WriteText(doc, out)
	}
	if err != nil {
		log.Fatal(err)
	}
	log.Print("wrote ", output)
}

// flagsSet bundles every flag.Value pointer main defines so
// applyFlagOverrides can check flag.Visit's explicitly-set names
// without a giant positional parameter list.
type flagsSet struct {
	longIndices                                                                         *string
	unlit, lights, pbrMetRough, noSparseMorph, morphNormals, morphTangents              *bool
	userProperties, glb, verbose, draco                                                 *bool
	outputFolder                                                                        *string
	dracoLevel, dracoQuantPosition, dracoQuantTexCoord, dracoQuantNormal, dracoQuantColor, dracoQuantGeneric *int
}

// applyFlagOverrides overlays only the flags the user actually passed
// on the command line onto opts, so a YAML config's values survive
// for every flag left at its default.
func applyFlagOverrides(opts *assemble.Options, fs flagsSet) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "long-indices":
			opts.LongIndices = parseIndexWidthFlag(*fs.longIndices)
		case "unlit":
			opts.UseKHRMaterialsUnlit = *fs.unlit
		case "lights":
			opts.UseKHRLightsPunctual = *fs.lights
		case "pbr-met-rough":
			opts.UsePBRMetRough = *fs.pbrMetRough
		case "no-sparse-morph":
			opts.DisableSparseBlendShapes = *fs.noSparseMorph
		case "morph-normals":
			opts.UseBlendShapeNormals = *fs.morphNormals
		case "morph-tangents":
			opts.UseBlendShapeTangents = *fs.morphTangents
		case "user-properties":
			opts.EnableUserProperties = *fs.userProperties
		case "glb":
			opts.OutputBinary = *fs.glb
		case "out-dir":
			opts.OutputFolder = *fs.outputFolder
		case "v":
			opts.Verbose = *fs.verbose
		case "draco":
			opts.Draco.Enabled = *fs.draco
		case "draco-level":
			opts.Draco.CompressionLevel = *fs.dracoLevel
		case "draco-quant-position":
			opts.Draco.QuantBitsPosition = *fs.dracoQuantPosition
		case "draco-quant-texcoord":
			opts.Draco.QuantBitsTexCoord = *fs.dracoQuantTexCoord
		case "draco-quant-normal":
			opts.Draco.QuantBitsNormal = *fs.dracoQuantNormal
		case "draco-quant-color":
			opts.Draco.QuantBitsColor = *fs.dracoQuantColor
		case "draco-quant-generic":
			opts.Draco.QuantBitsGeneric = *fs.dracoQuantGeneric
		}
	})
}

func parseIndexWidthFlag(s string) mesh.IndexWidth {
	switch s {
	case "never":
		return mesh.IndexWidthNever
	case "always":
		return mesh.IndexWidthAlways
	default:
		return mesh.IndexWidthAuto
	}
}
