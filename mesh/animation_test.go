package mesh

import (
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/binzume/gltfasm/scene"
)

func TestAddAnimationBuildsSharedTimeAccessor(t *testing.T) {
	a, doc := newAssembler(t, Options{})
	doc.Nodes = []*gltf.Node{{}}
	a.nodeIndex[1] = 0

	anim := &scene.Animation{
		Name:  "walk",
		Times: []float32{0, 0.5, 1},
		Channels: []scene.Channel{
			{
				NodeID:       1,
				Translations: [][3]float32{{0, 0, 0}, {0, 1, 0}, {0, 0, 0}},
				Weights:      [][]float32{{0, 1}, {0.5, 0.5}, {1, 0}},
			},
		},
	}

	a.AddAnimations(&scene.Source{Animations: []*scene.Animation{anim}})

	if len(doc.Animations) != 1 {
		t.Fatalf("expected one animation, got %d", len(doc.Animations))
	}
	ga := doc.Animations[0]
	if len(ga.Channels) != 2 {
		t.Fatalf("expected translation + weights channels, got %d", len(ga.Channels))
	}

	timeAcc := doc.Accessors[*ga.Samplers[0].Input]
	if timeAcc.Min[0] != 0 || timeAcc.Max[0] != 1 {
		t.Errorf("expected time accessor min/max from first/last sample, got min=%v max=%v", timeAcc.Min, timeAcc.Max)
	}
	for _, s := range ga.Samplers {
		if *s.Input != *ga.Samplers[0].Input {
			t.Error("expected every sampler to share the same time-input accessor")
		}
	}

	weightsAcc := doc.Accessors[*ga.Samplers[1].Output]
	if weightsAcc.Count != 6 {
		t.Errorf("expected flattened weights accessor of length 6, got %d", weightsAcc.Count)
	}
}

func TestAddAnimationSkipsUnknownNodeChannel(t *testing.T) {
	a, doc := newAssembler(t, Options{})
	anim := &scene.Animation{
		Name:  "orphan",
		Times: []float32{0, 1},
		Channels: []scene.Channel{
			{NodeID: 999, Translations: [][3]float32{{0, 0, 0}, {1, 0, 0}}},
		},
	}

	a.AddAnimations(&scene.Source{Animations: []*scene.Animation{anim}})

	if len(doc.Animations) != 0 {
		t.Error("expected animation with only an unresolvable channel to be skipped entirely")
	}
}

func TestAddAnimationSkipsEmptyTimes(t *testing.T) {
	a, doc := newAssembler(t, Options{})
	a.AddAnimations(&scene.Source{Animations: []*scene.Animation{{Name: "empty"}}})
	if len(doc.Animations) != 0 {
		t.Error("expected animation with no keyframe times to be skipped")
	}
}
