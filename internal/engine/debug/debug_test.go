package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Faultbox/midgard-terrain/internal/engine/gpu"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

func TestAppendBBoxWireframe(t *testing.T) {
	b := math.AABB{Min: math.Vec3{X: 0, Y: 0, Z: 0}, Max: math.Vec3{X: 2, Y: 3, Z: 4}}
	out := AppendBBoxWireframe(nil, b, 0, Color{1, 0, 0})

	if len(out) != BBoxWireframeVertexCount*LineVertexStride {
		t.Fatalf("expected %d floats, got %d", BBoxWireframeVertexCount*LineVertexStride, len(out))
	}
	for i := 0; i < len(out); i += LineVertexStride {
		x, y, z := out[i], out[i+1], out[i+2]
		if (x != 0 && x != 2) || (y != 0 && y != 3) || (z != 0 && z != 4) {
			t.Errorf("vertex %d (%f, %f, %f) is not a corner", i/LineVertexStride, x, y, z)
		}
		if out[i+3] != 1 || out[i+4] != 0 || out[i+5] != 0 {
			t.Errorf("vertex %d has wrong color", i/LineVertexStride)
		}
	}

	padded := AppendBBoxWireframe(nil, b, 1, Color{})
	if padded[0] != -1 || padded[1] != -1 || padded[2] != -1 {
		t.Errorf("expected padded first corner at -1, got %v", padded[:3])
	}

	if got := AppendBBoxWireframe(out, math.EmptyAABB(), 0, Color{}); len(got) != len(out) {
		t.Error("empty box should append nothing")
	}
}

func TestLevelColor(t *testing.T) {
	if c := LevelColor(0, 8); c != (Color{0, 0, 1}) {
		t.Errorf("expected blue at level 0, got %v", c)
	}
	if c := LevelColor(8, 8); c != (Color{1, 0, 0}) {
		t.Errorf("expected red at max level, got %v", c)
	}
	if c := LevelColor(4, 8); c != (Color{0.5, 1, 0.5}) {
		t.Errorf("expected green midpoint, got %v", c)
	}
	if LevelColor(20, 8) != LevelColor(8, 8) {
		t.Error("levels above max should clamp")
	}
	if c := LevelColor(3, 0); c != (Color{0, 0, 1}) {
		t.Errorf("expected blue without levels, got %v", c)
	}
}

func TestPatchOverlay(t *testing.T) {
	heights := make([]float32, 17*17)
	hm, err := terrain.NewHeightmap(17, 17, heights, 0)
	if err != nil {
		t.Fatal(err)
	}
	root, err := terrain.NewRoot(hm, terrain.Options{PatchSize: 4, LODScale: 1}, gpu.NewMemoryDevice())
	if err != nil {
		t.Fatal(err)
	}
	defer root.Close()
	root.UpdateLod(math.Vec3{X: 2, Z: 2})

	out := PatchOverlay(root.Patches(), root.MaxLevel())
	want := len(root.Patches()) * BBoxWireframeVertexCount * LineVertexStride
	if len(out) != want {
		t.Fatalf("expected %d floats, got %d", want, len(out))
	}

	// Vertices of the first patch carry its level or stitched color
	p := root.Patches()[0]
	c := LevelColor(p.Level(), root.MaxLevel())
	if p.Version() != 0 {
		c = StitchedColor
	}
	if out[3] != c[0] || out[4] != c[1] || out[5] != c[2] {
		t.Errorf("expected color %v, got %v", c, out[3:6])
	}
}

func TestCaptureFromPixels(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	sc := NewScreenshotCapture(dir, "terrain")
	sc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }

	// 1x2 image: bottom row red, top row blue in GL order
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	path, err := sc.CaptureFromPixels(pixels, 1, 2)
	if err != nil {
		t.Fatalf("capture failed: %v", err)
	}
	if want := filepath.Join(dir, "terrain_2024-05-01_12-30-00.000.png"); path != want {
		t.Errorf("expected %s, got %s", want, path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if r, _, b, _ := img.At(0, 0).RGBA(); r != 0 || b != 0xffff {
		t.Errorf("expected blue on top after flip, got r=%d b=%d", r, b)
	}

	if _, err := sc.CaptureFromPixels(pixels, 2, 2); err == nil {
		t.Error("expected size mismatch error")
	}
}
