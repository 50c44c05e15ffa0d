package renderer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy2d/common"
	"github.com/Carmen-Shannon/oxy2d/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy2d/engine/renderer/gpu/gputest"
	"github.com/Carmen-Shannon/oxy2d/engine/renderer/pipeline"
)

type fakeBackend struct {
	device     *gputest.Device
	pass       *gputest.RenderPass
	width      int
	height     int
	present    PresentMode
	clear      ClearColor
	begins     int
	ends       int
	presents   int
	released   bool
	failBegin  error
	sampleSize uint32
}

var _ RendererBackend = &fakeBackend{}

func (f *fakeBackend) ConfigureSurface(width, height int) { f.width, f.height = width, height }
func (f *fakeBackend) SetPresentMode(mode PresentMode)    { f.present = mode }
func (f *fakeBackend) SetClearColor(c ClearColor)         { f.clear = c }

func (f *fakeBackend) BeginFrame() error {
	if f.failBegin != nil {
		return f.failBegin
	}
	f.begins++
	f.pass = &gputest.RenderPass{}
	return nil
}

func (f *fakeBackend) FramePass() gpu.RenderPassEncoder {
	if f.pass == nil {
		return nil
	}
	return f.pass
}

func (f *fakeBackend) EndFrame() error                  { f.ends++; f.pass = nil; return nil }
func (f *fakeBackend) Present()                         { f.presents++ }
func (f *fakeBackend) Device() gpu.Device               { return f.device }
func (f *fakeBackend) SurfaceFormat() gpu.TextureFormat { return gpu.TextureFormatBGRA8UnormSrgb }
func (f *fakeBackend) SampleCount() uint32              { return f.sampleSize }
func (f *fakeBackend) Release()                         { f.released = true }

func newTestRenderer(options ...RendererBuilderOption) (*renderer, *fakeBackend) {
	r := newRenderer(BackendTypeWGPU, options...)
	fb := &fakeBackend{device: gputest.NewDevice(), sampleSize: 1}
	r.backend = fb
	r.applyPending()
	return r, fb
}

func TestRegisterPipelinesSkipsKnownKeys(t *testing.T) {
	r, fb := newTestRenderer()
	p := pipeline.NewPipeline("sprites")

	if err := r.RegisterPipelines(p, p); err != nil {
		t.Fatalf("RegisterPipelines: %v", err)
	}
	if err := r.RegisterPipelines(p); err != nil {
		t.Fatalf("RegisterPipelines: %v", err)
	}
	if len(fb.device.Pipelines) != 1 {
		t.Errorf("GPU pipelines = %d, want 1", len(fb.device.Pipelines))
	}
	if r.Pipeline("sprites") != p {
		t.Error("pipeline not cached under its key")
	}
	if r.Pipeline("missing") != nil {
		t.Error("unknown key returned a pipeline")
	}

	// Pipelines returns a copy.
	delete(r.Pipelines(), "sprites")
	if r.Pipeline("sprites") == nil {
		t.Error("mutating the Pipelines result changed the cache")
	}
}

func TestRegisterPipelinesError(t *testing.T) {
	r, fb := newTestRenderer()
	fb.device.FailCreatePipeline = errors.New("bad shader")

	err := r.RegisterPipelines(pipeline.NewPipeline("broken"))
	if err == nil || !errors.Is(err, fb.device.FailCreatePipeline) {
		t.Fatalf("err = %v, want wrapping bad shader", err)
	}
	if r.Pipeline("broken") != nil {
		t.Error("failed pipeline was cached")
	}
}

func TestFrameLifecycle(t *testing.T) {
	r, fb := newTestRenderer()

	if r.FramePass() != nil {
		t.Error("FramePass outside a frame should be nil")
	}
	if err := r.EndFrame(); err == nil {
		t.Error("EndFrame without BeginFrame should fail")
	}

	if err := r.BeginFrame(); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	if err := r.BeginFrame(); err == nil {
		t.Error("nested BeginFrame should fail")
	}
	if r.FramePass() == nil {
		t.Fatal("FramePass inside a frame is nil")
	}
	if err := r.EndFrame(); err != nil {
		t.Fatalf("EndFrame: %v", err)
	}
	r.Present()

	if fb.begins != 1 || fb.ends != 1 || fb.presents != 1 {
		t.Errorf("begins %d ends %d presents %d, want 1 each", fb.begins, fb.ends, fb.presents)
	}
}

func TestBeginFrameFailureLeavesNoFrameOpen(t *testing.T) {
	r, fb := newTestRenderer()
	fb.failBegin = errors.New("surface lost")

	if err := r.BeginFrame(); err == nil {
		t.Fatal("expected an error")
	}
	fb.failBegin = nil
	if err := r.BeginFrame(); err != nil {
		t.Errorf("BeginFrame after a failed one: %v", err)
	}
}

func TestPendingOptionsApplied(t *testing.T) {
	c := ClearColor{R: 1, A: 1}
	_, fb := newTestRenderer(WithPresentMode(PresentModeUncapped), WithClearColor(c))
	if fb.present != PresentModeUncapped {
		t.Errorf("present mode = %v, want uncapped", fb.present)
	}
	if fb.clear != c {
		t.Errorf("clear color = %+v, want %+v", fb.clear, c)
	}
}

func TestLoadTexture(t *testing.T) {
	r, fb := newTestRenderer()
	pixels := common.SolidTexture(2, 3, [4]byte{255, 0, 0, 255})

	tex, err := r.LoadTexture("red", pixels, common.SamplerStagingData{MagFilter: common.FilterNearest})
	if err != nil {
		t.Fatalf("LoadTexture: %v", err)
	}
	if tex.Width() != 2 || tex.Height() != 3 || tex.Label() != "red" {
		t.Errorf("texture = %s %dx%d", tex.Label(), tex.Width(), tex.Height())
	}
	if fb.device.Textures[0].Desc.Sampler.MagFilter != common.FilterNearest {
		t.Error("sampler configuration not forwarded")
	}

	fb.device.FailCreateTexture = errors.New("oom")
	if _, err := r.LoadTexture("x", pixels, common.SamplerStagingData{}); err == nil {
		t.Error("expected an error")
	}
	if _, err := r.LoadTextureFile("does/not/exist.png", common.SamplerStagingData{}); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestReleaseReleasesPipelines(t *testing.T) {
	r, fb := newTestRenderer()
	p := pipeline.NewPipeline("sprites")
	if err := r.RegisterPipelines(p); err != nil {
		t.Fatal(err)
	}

	r.Release()
	if !fb.device.Pipelines[0].Released || !fb.released {
		t.Error("Release did not free the pipeline and backend")
	}
	if len(r.Pipelines()) != 0 {
		t.Error("pipeline cache not cleared")
	}
}
