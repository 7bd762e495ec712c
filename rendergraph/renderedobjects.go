package rendergraph

import (
	"sort"

	"github.com/aurora-render/forge/capability"
	"github.com/aurora-render/forge/container"
	"github.com/aurora-render/forge/gpuscene"
)

// RenderedObjectListDesc selects which drawables Builder.AddRenderedObjectList pulls from the scene.
type RenderedObjectListDesc struct {
	Scene     *gpuscene.Scene
	Opaque    bool // true selects the opaque/alpha-test bucket, false selects everything else
}

// RenderedObjectItem is one contiguous run of drawables sharing the same (mesh type, base material,
// topology) key - a single pipeline's worth of work (Data Model §3).
type RenderedObjectItem struct {
	MeshTypeName      string
	BaseMaterial      string
	Topology          capability.PrimitiveTopology
	Drawables         []container.Handle
}

// RenderedObjectList is the ordered, grouped draw list Builder.AddRenderedObjectList produces.
type RenderedObjectList struct {
	Items []RenderedObjectItem
}

type drawableKey struct {
	meshType string
	material string
	topology capability.PrimitiveTopology
}

// AddRenderedObjectList queries desc.Scene for drawables in the requested blend-mode bucket, sorts them by
// (mesh identity, base material, topology), and groups contiguous equal-key runs into items (§4.7).
func (b *Builder) AddRenderedObjectList(desc RenderedObjectListDesc) RenderedObjectList {
	type entry struct {
		key    drawableKey
		handle container.Handle
	}
	var entries []entry

	desc.Scene.EachDrawable(func(h container.Handle, d *gpuscene.Drawable) bool {
		if d.Material == nil || d.Mesh == nil {
			return true
		}
		if d.Material.BlendMode().Opaque() != desc.Opaque {
			return true
		}
		entries = append(entries, entry{
			key: drawableKey{
				meshType: d.Mesh.MeshTypeName(),
				material: d.Material.BaseMaterial(),
				topology: d.Mesh.PrimitiveTopology(),
			},
			handle: h,
		})
		return true
	})

	sort.SliceStable(entries, func(i, j int) bool {
		a, c := entries[i].key, entries[j].key
		if a.meshType != c.meshType {
			return a.meshType < c.meshType
		}
		if a.material != c.material {
			return a.material < c.material
		}
		return a.topology < c.topology
	})

	var list RenderedObjectList
	for _, e := range entries {
		n := len(list.Items)
		if n > 0 {
			last := &list.Items[n-1]
			if last.MeshTypeName == e.key.meshType && last.BaseMaterial == e.key.material && last.Topology == e.key.topology {
				last.Drawables = append(last.Drawables, e.handle)
				continue
			}
		}
		list.Items = append(list.Items, RenderedObjectItem{
			MeshTypeName: e.key.meshType,
			BaseMaterial: e.key.material,
			Topology:     e.key.topology,
			Drawables:    []container.Handle{e.handle},
		})
	}
	return list
}
