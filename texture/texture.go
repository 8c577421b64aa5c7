// Package texture builds glTF textures/images/samplers from source
// scene texture references, deduplicating by usage and composing
// multi-channel maps (ORM) on demand. It is the concrete implementation
// of the external TextureBuilder collaborator: material resolution
// depends only on the Builder interface, never on this package's
// image-decoding details.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/blezek/tga"
	_ "github.com/oov/psd"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/text/unicode/norm"

	"github.com/binzume/gltfasm/internal/diag"
	"github.com/binzume/gltfasm/scene"
)

// Pixel is an RGBA sample in [0,1], the shape Combine's pixelCombiner
// callback both receives and returns.
type Pixel [4]float32

// Combiner computes one output texel from the correspondingly sampled
// input pixel of each source index passed to Combine.
type Combiner func(pixels []Pixel) Pixel

// Ref is what Simple/Combine return: the index of the glTF texture
// created (or reused) for the request. It carries no sRGB flag.
type Ref struct {
	TextureIndex uint32
}

// Builder is the external TextureBuilder collaborator. Simple and
// Combine both return nil when there's nothing to build.
type Builder interface {
	Simple(sourceTextureIndex int64, purposeTag string) *Ref
	Combine(sourceIndices []int64, outputTag string, combine Combiner, srgb bool) *Ref
}

// FileBuilder loads textures from files on disk relative to srcDir,
// decodes them lazily and caches by (sourceIndex, purposeTag) /
// (outputTag, source file locations) as required by the deduplication
// keys.
type FileBuilder struct {
	Doc    *gltf.Document
	Src    *scene.Source
	SrcDir string
	OutDir string
	Warn   diag.Sink

	// ReCompress forces every simple texture through the PNG
	// re-encode path even when the source file could be embedded
	// verbatim; Combine always re-encodes since its pixels are
	// synthesized.
	ReCompress bool

	imgCache    map[int64]cachedImage
	simpleCache map[simpleKey]*Ref
	combineKeys map[string]*Ref
}

type cachedImage struct {
	img image.Image
	err error
}

type simpleKey struct {
	srcIndex int64
	purpose  string
}

// NewFileBuilder returns a FileBuilder writing into doc, reading source
// textures relative to srcDir and writing combined output images into
// outDir (when outDir is non-empty).
func NewFileBuilder(doc *gltf.Document, src *scene.Source, srcDir, outDir string, warn diag.Sink) *FileBuilder {
	if warn == nil {
		warn = diag.Nop{}
	}
	return &FileBuilder{
		Doc:         doc,
		Src:         src,
		SrcDir:      srcDir,
		OutDir:      outDir,
		Warn:        warn,
		imgCache:    map[int64]cachedImage{},
		simpleCache: map[simpleKey]*Ref{},
		combineKeys: map[string]*Ref{},
	}
}

// ensureDefaultSampler guarantees doc.Samplers[0] exists before any
// gltf.Texture references it, mirroring the teacher's own
// `m.Document.Samplers = []*gltf.Sampler{{}}` guard in
// converter/mqo2gltf.go and converter/mqo2glb.go.
func (b *FileBuilder) ensureDefaultSampler() {
	if len(b.Doc.Samplers) == 0 {
		b.Doc.Samplers = []*gltf.Sampler{{}}
	}
}

func (b *FileBuilder) image(sourceIndex int64) (image.Image, error) {
	if c, ok := b.imgCache[sourceIndex]; ok {
		return c.img, c.err
	}
	if sourceIndex < 0 || int(sourceIndex) >= len(b.Src.Textures) {
		err := fmt.Errorf("texture: source index %d out of range", sourceIndex)
		b.imgCache[sourceIndex] = cachedImage{err: err}
		return nil, err
	}
	loc := b.Src.Textures[sourceIndex].FileLocation
	f, err := os.Open(filepath.Join(b.SrcDir, loc))
	if err != nil {
		b.imgCache[sourceIndex] = cachedImage{err: err}
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil && strings.EqualFold(filepath.Ext(loc), ".tga") {
		f.Seek(0, io.SeekStart)
		img, err = tga.Decode(f)
	}
	b.imgCache[sourceIndex] = cachedImage{img: img, err: err}
	return img, err
}

// Simple returns a glTF texture for sourceTextureIndex, deduplicating by
// (sourceTextureIndex, purposeTag). Returns nil when the source index is
// negative.
func (b *FileBuilder) Simple(sourceTextureIndex int64, purposeTag string) *Ref {
	if sourceTextureIndex < 0 {
		return nil
	}
	key := simpleKey{sourceTextureIndex, purposeTag}
	if ref, ok := b.simpleCache[key]; ok {
		return ref
	}
	loc := b.Src.Textures[sourceTextureIndex].FileLocation
	mime := mimeForExt(filepath.Ext(loc))

	var r io.Reader
	if b.ReCompress || mime == "" {
		img, err := b.image(sourceTextureIndex)
		if err != nil {
			b.Warn.Warnf("texture read error for %q: %v", loc, err)
			return nil
		}
		buf := new(bytes.Buffer)
		if err := png.Encode(buf, img); err != nil {
			b.Warn.Warnf("texture encode error for %q: %v", loc, err)
			return nil
		}
		mime = "image/png"
		r = buf
	} else {
		f, err := os.Open(filepath.Join(b.SrcDir, loc))
		if err != nil {
			b.Warn.Warnf("texture file not found: %q", loc)
			return nil
		}
		defer f.Close()
		r = f
	}

	imgIdx, err := modeler.WriteImage(b.Doc, filepath.Base(loc), mime, r)
	if err != nil {
		b.Warn.Warnf("texture embed error for %q: %v", loc, err)
		return nil
	}
	b.Doc.Buffers[0].ByteLength = uint32(len(b.Doc.Buffers[0].Data))
	b.ensureDefaultSampler()
	b.Doc.Textures = append(b.Doc.Textures, &gltf.Texture{
		Sampler: gltf.Index(0),
		Source:  gltf.Index(imgIdx),
	})
	ref := &Ref{TextureIndex: uint32(len(b.Doc.Textures) - 1)}
	b.simpleCache[key] = ref
	return ref
}

// Combine builds a texture whose pixels are produced by invoking
// combine once per output texel, sampling the corresponding pixel of
// each entry in sourceIndices (or a neutral default pixel for negative
// entries). Returns nil only when every entry of sourceIndices is
// negative.
func (b *FileBuilder) Combine(sourceIndices []int64, outputTag string, combine Combiner, srgb bool) *Ref {
	anyValid := false
	locs := make([]string, len(sourceIndices))
	for i, idx := range sourceIndices {
		if idx >= 0 {
			anyValid = true
			locs[i] = strings.ToLower(b.Src.Textures[idx].FileLocation)
		}
	}
	if !anyValid {
		return nil
	}

	key := outputTag + "|" + strings.Join(locs, "|")
	if ref, ok := b.combineKeys[key]; ok {
		return ref
	}

	imgs := make([]image.Image, len(sourceIndices))
	w, h := 1, 1
	for i, idx := range sourceIndices {
		if idx < 0 {
			continue
		}
		img, err := b.image(idx)
		if err != nil {
			b.Warn.Warnf("combine: source %d unreadable: %v", idx, err)
			continue
		}
		imgs[i] = img
		if r := img.Bounds(); r.Dx() > w || r.Dy() > h {
			w, h = r.Dx(), r.Dy()
		}
	}

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	scaled := make([]image.Image, len(imgs))
	for i, img := range imgs {
		if img == nil {
			continue
		}
		if img.Bounds().Dx() == w && img.Bounds().Dy() == h {
			scaled[i] = img
			continue
		}
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
		scaled[i] = dst
	}

	pixels := make([]Pixel, len(scaled))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for i, img := range scaled {
				if img == nil {
					pixels[i] = Pixel{0, 0, 0, 1}
					continue
				}
				r, g, bl, a := img.At(x, y).RGBA()
				pixels[i] = Pixel{float32(r) / 65535, float32(g) / 65535, float32(bl) / 65535, float32(a) / 65535}
			}
			p := combine(pixels)
			out.Set(x, y, color.NRGBA{
				R: clamp8(p[0]),
				G: clamp8(p[1]),
				B: clamp8(p[2]),
				A: clamp8(p[3]),
			})
		}
	}

	name := norm.NFC.String(outputTag) + ".png"
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, out); err != nil {
		b.Warn.Warnf("combine: encode error for %q: %v", name, err)
		return nil
	}

	if b.OutDir != "" {
		if err := os.WriteFile(filepath.Join(b.OutDir, name), buf.Bytes(), 0644); err != nil {
			b.Warn.Warnf("combine: write error for %q: %v", name, err)
		}
	}

	imgIdx, err := modeler.WriteImage(b.Doc, name, "image/png", bytes.NewReader(buf.Bytes()))
	if err != nil {
		b.Warn.Warnf("combine: embed error for %q: %v", name, err)
		return nil
	}
	b.Doc.Buffers[0].ByteLength = uint32(len(b.Doc.Buffers[0].Data))
	b.ensureDefaultSampler()
	b.Doc.Textures = append(b.Doc.Textures, &gltf.Texture{
		Sampler: gltf.Index(0),
		Source:  gltf.Index(imgIdx),
	})
	ref := &Ref{TextureIndex: uint32(len(b.Doc.Textures) - 1)}
	b.combineKeys[key] = ref
	return ref
}

func clamp8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

func mimeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return ""
	}
}
