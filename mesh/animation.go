package mesh

import (
	"github.com/qmuntal/gltf"

	"github.com/binzume/gltfasm/internal/accessor"
	"github.com/binzume/gltfasm/scene"
)

// AddAnimations calls addAnimation for every source animation.
func (a *Assembler) AddAnimations(src *scene.Source) {
	for _, anim := range src.Animations {
		a.addAnimation(anim)
	}
}

// addAnimation appends one glTF animation per source animation: a
// single shared SCALAR time-input accessor plus one output accessor,
// sampler and channel for each non-empty translation/rotation/scale/
// weights track, per §4.7's animation paragraph. Animations with no
// resulting channels are skipped and warned about rather than emitted
// empty.
func (a *Assembler) addAnimation(anim *scene.Animation) {
	if len(anim.Times) == 0 {
		a.warn.Warnf("animation %q has no keyframe times, skipping", anim.Name)
		return
	}

	ga := &gltf.Animation{Name: anim.Name}
	timeAcc := a.acc.AddAccessorAndView(gltf.ComponentFloat, gltf.TargetNone, accessor.Scalar(anim.Times))
	a.acc.SetMinMax(timeAcc, []float32{anim.Times[0]}, []float32{anim.Times[len(anim.Times)-1]})

	for _, ch := range anim.Channels {
		nodeIx, ok := a.nodeIndex[ch.NodeID]
		if !ok {
			a.warn.Warnf("animation %q channel references unknown node %d, skipping channel", anim.Name, ch.NodeID)
			continue
		}

		if len(ch.Translations) > 0 {
			a.addTRSChannel(ga, timeAcc, nodeIx, gltf.TRSTranslation, accessor.Vec3(ch.Translations))
		}
		if len(ch.Rotations) > 0 {
			a.addTRSChannel(ga, timeAcc, nodeIx, gltf.TRSRotation, accessor.Vec4(ch.Rotations))
		}
		if len(ch.Scales) > 0 {
			a.addTRSChannel(ga, timeAcc, nodeIx, gltf.TRSScale, accessor.Vec3(ch.Scales))
		}
		if len(ch.Weights) > 0 {
			a.addWeightsChannel(ga, timeAcc, nodeIx, ch.Weights)
		}
	}

	if len(ga.Channels) == 0 {
		a.warn.Warnf("animation %q produced no channels, skipping", anim.Name)
		return
	}
	a.animations.Add(ga)
}

func (a *Assembler) addTRSChannel(ga *gltf.Animation, timeAcc uint32, nodeIx uint32, path gltf.TRSProperty, data accessor.Data) {
	outAcc := a.acc.AddAccessorAndView(gltf.ComponentFloat, gltf.TargetNone, data)
	ga.Samplers = append(ga.Samplers, &gltf.AnimationSampler{
		Input:         gltf.Index(timeAcc),
		Output:        gltf.Index(outAcc),
		Interpolation: gltf.InterpolationLinear,
	})
	ga.Channels = append(ga.Channels, &gltf.Channel{
		Sampler: gltf.Index(uint32(len(ga.Samplers) - 1)),
		Target: gltf.ChannelTarget{
			Node: gltf.Index(nodeIx),
			Path: path,
		},
	})
}

// addWeightsChannel flattens a per-time slice of per-morph-target
// weight vectors into the single interleaved scalar array the weights
// output accessor expects.
func (a *Assembler) addWeightsChannel(ga *gltf.Animation, timeAcc uint32, nodeIx uint32, weights [][]float32) {
	flat := make(accessor.Scalar, 0, len(weights)*len(weights[0]))
	for _, sample := range weights {
		flat = append(flat, sample...)
	}
	a.addTRSChannel(ga, timeAcc, nodeIx, gltf.TRSWeights, flat)
}
