package assemble

import (
	"github.com/qmuntal/gltf"

	"github.com/binzume/gltfasm/internal/diag"
	"github.com/binzume/gltfasm/internal/holder"
	"github.com/binzume/gltfasm/scene"
)

// buildNodes creates one glTF node per source node (Node holder
// population, the first step of the data-flow order in §2), stamping
// each with its dense index before resolving any child references, and
// returns the source-id → glTF-index map every downstream component
// (mesh assignment, cameras, lights, animations, skins) resolves
// against.
func buildNodes(doc *gltf.Document, src *scene.Source, warn diag.Sink) map[scene.ID]uint32 {
	nodeIndex := make(map[scene.ID]uint32, len(src.Nodes))
	nodes := holder.New(&doc.Nodes)
	for _, n := range src.Nodes {
		nodeIndex[n.ID] = nodes.Add(&gltf.Node{
			Name:        n.Name,
			Translation: n.Translation,
			Rotation:    n.Rotation,
			Scale:       nonZeroScale(n.Scale),
		})
	}
	for _, n := range src.Nodes {
		if len(n.ChildIDs) == 0 {
			continue
		}
		node := doc.Nodes[nodeIndex[n.ID]]
		for _, cid := range n.ChildIDs {
			if cix, ok := nodeIndex[cid]; ok {
				node.Children = append(node.Children, cix)
			} else {
				warn.Warnf("node %q references unknown child node %d, skipping", n.Name, cid)
			}
		}
	}
	return nodeIndex
}

// nonZeroScale defaults an all-zero source scale to identity: a source
// scene that never set scale on a node means "unscaled", not
// "collapsed to a point".
func nonZeroScale(s [3]float32) [3]float32 {
	if s == ([3]float32{}) {
		return [3]float32{1, 1, 1}
	}
	return s
}
