package mesh

import (
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/ext/lightspuntual"

	"github.com/binzume/gltfasm/scene"
)

const lightsPunctualExtension = "KHR_lights_punctual"

// AddCameras creates one glTF camera per source camera and attaches it
// by nodeId, warning and skipping cameras that reference an unknown
// node.
func (a *Assembler) AddCameras(src *scene.Source) {
	for _, cam := range src.Cameras {
		nodeIx, ok := a.nodeIndex[cam.NodeID]
		if !ok {
			a.warn.Warnf("camera %q references unknown node %d, skipping", cam.Name, cam.NodeID)
			continue
		}
		gc := &gltf.Camera{Name: cam.Name}
		if cam.Mode == scene.CameraOrthographic {
			gc.Orthographic = &gltf.Orthographic{
				Xmag:  cam.MagX,
				Ymag:  cam.MagY,
				Znear: cam.NearZ,
				Zfar:  cam.FarZ,
			}
		} else {
			gc.Perspective = &gltf.Perspective{
				Yfov:        radians(cam.FovDegreesY),
				AspectRatio: gltf.Float(cam.AspectRatio),
				Znear:       cam.NearZ,
				Zfar:        gltf.Float(cam.FarZ),
			}
		}
		camIx := a.cameras.Add(gc)
		a.doc.Nodes[nodeIx].Camera = gltf.Index(camIx)
	}
}

// AddLights creates one KHR_lights_punctual light per source light,
// scaling intensity by 1/100 (candela vs. the source's watt-ish unit,
// same conversion Raw2Gltf.cpp applies), and attaches it to every node
// whose LightIndex matches.
func (a *Assembler) AddLights(src *scene.Source) {
	if !a.opt.UseLightsPunctual || len(src.Lights) == 0 {
		return
	}
	lights, _ := a.doc.Extensions[lightsPunctualExtension].(lightspuntual.Lights)

	for i, l := range src.Lights {
		gl := &lightspuntual.Light{
			Name:      l.Name,
			Color:     &l.Color,
			Intensity: gltf.Float(l.Intensity / 100),
			Type:      lightTypeFor(l.Type),
		}
		if l.Type == scene.LightSpot {
			gl.Spot = &lightspuntual.Spot{
				InnerConeAngle: l.InnerConeAngle,
				OuterConeAngle: gltf.Float(l.OuterConeAngle),
			}
		}
		lights = append(lights, gl)
		lightIx := lightspuntual.LightIndex(len(lights) - 1)

		for _, n := range src.Nodes {
			if n.LightIndex == i {
				if nodeIx, ok := a.nodeIndex[n.ID]; ok {
					attachLight(a.doc.Nodes[nodeIx], lightIx)
				}
			}
		}
	}

	if a.doc.Extensions == nil {
		a.doc.Extensions = gltf.Extensions{}
	}
	a.doc.Extensions[lightsPunctualExtension] = lights
	a.doc.ExtensionsUsed = appendUnique(a.doc.ExtensionsUsed, lightsPunctualExtension)
}

func lightTypeFor(t scene.LightType) string {
	switch t {
	case scene.LightPoint:
		return lightspuntual.TypePoint
	case scene.LightSpot:
		return lightspuntual.TypeSpot
	default:
		return lightspuntual.TypeDirectional
	}
}

func attachLight(node *gltf.Node, lightIx lightspuntual.LightIndex) {
	if node.Extensions == nil {
		node.Extensions = gltf.Extensions{}
	}
	node.Extensions[lightsPunctualExtension] = lightIx
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
