package assemble

import (
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/binzume/gltfasm/scene"
)

type collectingSink struct {
	warnings []string
}

func (c *collectingSink) Warnf(format string, args ...interface{}) {
	c.warnings = append(c.warnings, format)
}
func (c *collectingSink) Summaryf(format string, args ...interface{}) {}

func TestBuildNodesWarnsOnUnknownChild(t *testing.T) {
	src := &scene.Source{
		Nodes: []*scene.Node{
			{ID: 0, Name: "root", ChildIDs: []scene.ID{1, 999}},
			{ID: 1, Name: "known"},
		},
	}
	sink := &collectingSink{}

	nodeIndex := buildNodes(gltf.NewDocument(), src, sink)

	if len(nodeIndex) != 2 {
		t.Fatalf("expected 2 resolved nodes, got %d", len(nodeIndex))
	}
	if len(sink.warnings) != 1 {
		t.Fatalf("expected exactly one warning for the unknown child, got %d: %v", len(sink.warnings), sink.warnings)
	}
}

func TestBuildNodesNoWarningWhenAllChildrenResolve(t *testing.T) {
	src := &scene.Source{
		Nodes: []*scene.Node{
			{ID: 0, Name: "root", ChildIDs: []scene.ID{1}},
			{ID: 1, Name: "known"},
		},
	}
	sink := &collectingSink{}

	buildNodes(gltf.NewDocument(), src, sink)

	if len(sink.warnings) != 0 {
		t.Errorf("expected no warnings, got %v", sink.warnings)
	}
}
