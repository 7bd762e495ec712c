package rendergraph

import (
	"testing"

	"github.com/aurora-render/forge/gpuresource"
	"github.com/aurora-render/forge/rhi"
)

func newTestResources() *Resources {
	return &Resources{
		Buffers: NewBufferPool(1,
			func(gpuresource.BufferDesc) *rhi.Buffer { return &rhi.Buffer{} },
			func(uint64, string) *rhi.Buffer { return &rhi.Buffer{} },
			func() int { return 0 }),
		Textures: NewTexturePool(func(TextureSetup) *rhi.Texture { return &rhi.Texture{} }),
	}
}

// barrierFor returns the single barrier in barriers labeled name, failing the test if there is not exactly
// one.
func barrierFor(t *testing.T, barriers []Barrier, name string) Barrier {
	t.Helper()
	var found []Barrier
	for _, b := range barriers {
		if b.Label == name {
			found = append(found, b)
		}
	}
	if len(found) != 1 {
		t.Fatalf("expected exactly one barrier labeled %q, got %+v (all: %+v)", name, found, barriers)
	}
	return found[0]
}

// TestExecuteBarrierVisibleFromWriterToReader is testable property 3: for two adjacent passes sharing a
// resource, the barrier the reader observes has src_access equal to the writer's prior state and dst_access
// equal to the reader's computed target, and both passes' barriers are visible via ExecContext in
// pass-execution order.
func TestExecuteBarrierVisibleFromWriterToReader(t *testing.T) {
	b := NewBuilder()

	tex := b.AddTexture(TextureSetup{Label: "tex", Usages: rhi.TextureUsageColorAttachment | rhi.TextureUsageSampled})

	_, writer := AddGraphicsPass(b, "writer", new(struct{}))
	afterWrite := writer.AddColorTarget(ColorAttachment{Target: tex, Clear: true, Store: true})

	output := b.AddBuffer(BufferSetup{Label: "output", Usages: rhi.BufferUsageStorageReadWrite})

	_, reader := AddComputePass(b, "reader", new(struct{}))
	reader.Read(afterWrite)
	afterRead := reader.Write(output)

	b.AddPresentPass(afterRead)

	g := b.Compile()
	if !g.Valid {
		t.Fatalf("expected a valid graph")
	}

	var order []string
	captured := map[string][]Barrier{}
	g.nodes[writer.pass].execute = func(ctx *ExecContext) {
		order = append(order, "writer")
		captured["writer"] = ctx.Barriers
	}
	g.nodes[reader.pass].execute = func(ctx *ExecContext) {
		order = append(order, "reader")
		captured["reader"] = ctx.Barriers
	}

	g.Execute(nil, newTestResources())

	if len(order) != 2 || order[0] != "writer" || order[1] != "reader" {
		t.Fatalf("expected writer to execute before reader, got %v", order)
	}

	writerBarrier := barrierFor(t, captured["writer"], "tex")
	if writerBarrier.From != rhi.AccessNone || writerBarrier.To != rhi.AccessColorAttachmentWrite {
		t.Fatalf("writer: expected none->color_write, got %+v", writerBarrier)
	}

	readerBarrier := barrierFor(t, captured["reader"], "tex")
	if readerBarrier.From != rhi.AccessColorAttachmentWrite {
		t.Fatalf("reader barrier src_access = %v, want the writer's prior state (color_write)", readerBarrier.From)
	}
	if readerBarrier.To != rhi.AccessSampledTextureRead {
		t.Fatalf("reader barrier dst_access = %v, want the reader's computed target (sampled_read)", readerBarrier.To)
	}
}

// TestExecuteStorageWriteAfterWriteHazard is testable property 4: two passes that both write the same
// storage buffer must still see a barrier between them even though the access type never changes.
func TestExecuteStorageWriteAfterWriteHazard(t *testing.T) {
	b := NewBuilder()

	buf := b.AddBuffer(BufferSetup{Label: "buf", Usages: rhi.BufferUsageStorageReadWrite})

	_, first := AddComputePass(b, "first", new(struct{}))
	afterFirst := first.Write(buf)

	_, second := AddComputePass(b, "second", new(struct{}))
	afterSecond := second.Write(afterFirst)

	b.AddPresentPass(afterSecond)

	g := b.Compile()
	if !g.Valid {
		t.Fatalf("expected a valid graph")
	}

	var secondBarriers []Barrier
	g.nodes[first.pass].execute = func(ctx *ExecContext) {}
	g.nodes[second.pass].execute = func(ctx *ExecContext) {
		secondBarriers = ctx.Barriers
	}

	g.Execute(nil, newTestResources())

	barrier := barrierFor(t, secondBarriers, "buf")
	if barrier.From != rhi.AccessStorageResourceWrite || barrier.To != rhi.AccessStorageResourceWrite {
		t.Fatalf("expected a storage_write->storage_write barrier even with no access-type change, got %+v", barrier)
	}
}

// TestExecuteSkipsBarrierBetweenConsecutiveReads confirms two consecutive reads of the same access type
// against the same resource produce no barrier between them, the complement of testable properties 3 and
// 4: a barrier is needed only when the access type changes, or when both sides are a storage write.
func TestExecuteSkipsBarrierBetweenConsecutiveReads(t *testing.T) {
	b := NewBuilder()

	tex := b.ImportTexture(&rhi.Texture{}, rhi.AccessSampledTextureRead)
	b.nodes[int(tex)].name = "tex"
	b.nodes[int(tex)].textureSetup = TextureSetup{Label: "tex", Usages: rhi.TextureUsageSampled}

	outputA := b.AddBuffer(BufferSetup{Label: "outputA", Usages: rhi.BufferUsageStorageReadWrite})
	outputB := b.AddBuffer(BufferSetup{Label: "outputB", Usages: rhi.BufferUsageStorageReadWrite})

	_, readerA := AddComputePass(b, "reader-a", new(struct{}))
	readerA.Read(tex)
	afterA := readerA.Write(outputA)

	_, readerB := AddComputePass(b, "reader-b", new(struct{}))
	readerB.Read(tex)
	readerB.Read(afterA)
	afterB := readerB.Write(outputB)

	b.AddPresentPass(afterB)

	g := b.Compile()
	if !g.Valid {
		t.Fatalf("expected a valid graph")
	}

	var barriersA, barriersB []Barrier
	g.nodes[readerA.pass].execute = func(ctx *ExecContext) { barriersA = ctx.Barriers }
	g.nodes[readerB.pass].execute = func(ctx *ExecContext) { barriersB = ctx.Barriers }

	g.Execute(nil, newTestResources())

	for _, barriers := range [][]Barrier{barriersA, barriersB} {
		for _, bar := range barriers {
			if bar.Label == "tex" {
				t.Fatalf("consecutive reads of the same access type must not emit a barrier, got %+v", bar)
			}
		}
	}
}
