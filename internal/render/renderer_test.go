package render

import (
	"bytes"
	"image/png"
	"testing"

	"latticeflow/internal/lbm"
)

func TestParseField(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"density", false},
		{"speed", false},
		{"vorticity", false},
		{"pressure", true},
		{"", true},
	}
	for _, tt := range tests {
		f, err := ParseField(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseField(%q): expected error, got %q", tt.name, f)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseField(%q): unexpected error %v", tt.name, err)
		}
		if string(f) != tt.name {
			t.Errorf("ParseField(%q) = %q", tt.name, f)
		}
	}
}

func TestFieldColorStandardValueIsBlack(t *testing.T) {
	c := fieldColor(1.0, 1.0, 0.5, false)
	if c.R != 0 || c.G != 0 || c.B != 0 {
		t.Errorf("standard value should render black, got %v", c)
	}
}

func TestFieldColorHueSplit(t *testing.T) {
	below := fieldColor(0.5, 1.0, 0.5, false)
	above := fieldColor(1.5, 1.0, 0.5, false)
	// Hue 180 at full deviation is cyan, hue 360 is red.
	if below.R != 0 || below.G == 0 || below.B == 0 {
		t.Errorf("below-standard color should be cyan, got %v", below)
	}
	if above.R == 0 || above.G != 0 || above.B != 0 {
		t.Errorf("above-standard color should be red, got %v", above)
	}
}

func TestFieldColorAmplify(t *testing.T) {
	plain := fieldColor(1.1, 1.0, 1.0, false)
	boosted := fieldColor(1.1, 1.0, 1.0, true)
	// sqrt lifts small deviations, so the amplified color is brighter.
	if boosted.R <= plain.R {
		t.Errorf("amplified color should be brighter: plain=%v boosted=%v", plain, boosted)
	}
}

func testSnapshot(w, h int) *lbm.FieldSnapshot {
	n := w * h
	snap := &lbm.FieldSnapshot{
		Width:     w,
		Height:    h,
		Density:   make([]float64, n),
		Speed:     make([]float64, n),
		Vorticity: make([]float64, n),
		Kinds:     make([]lbm.CellKind, n),
	}
	for c := range snap.Density {
		snap.Density[c] = 1.0
	}
	for x := 0; x < w; x++ {
		snap.Kinds[x] = lbm.Wall
		snap.Kinds[(h-1)*w+x] = lbm.Wall
	}
	return snap
}

func TestRenderFieldMasksWalls(t *testing.T) {
	snap := testSnapshot(4, 4)
	snap.Density[1*4+1] = 1.2

	r := NewFieldRenderer(4, 4, 2)
	img := r.RenderField(snap, FieldDensity)

	if got := img.RGBAAt(0, 0); got != wallColor {
		t.Errorf("wall cell pixel = %v, want %v", got, wallColor)
	}
	// The perturbed cell is above the standard density, so it gets color.
	if got := img.RGBAAt(2, 2); got.R == 0 {
		t.Errorf("perturbed cell should be colored, got %v", got)
	}
	// An undisturbed fluid cell sits at the standard value: black.
	if got := img.RGBAAt(4, 4); got.R != 0 || got.G != 0 || got.B != 0 {
		t.Errorf("rest cell should be black, got %v", got)
	}
}

func TestRenderFieldScale(t *testing.T) {
	r := NewFieldRenderer(3, 5, 4)
	w, h := r.Size()
	if w != 12 || h != 20 {
		t.Errorf("Size() = %dx%d, want 12x20", w, h)
	}
}

func TestEncodePNG(t *testing.T) {
	snap := testSnapshot(8, 8)
	r := NewFieldRenderer(8, 8, 4)
	o := NewOverlay(r.Size())

	var buf bytes.Buffer
	if err := EncodePNG(&buf, r, o, snap, FieldSpeed); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decoding produced PNG: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 32 || b.Dy() != 32 {
		t.Errorf("decoded size = %dx%d, want 32x32", b.Dx(), b.Dy())
	}
}

func TestOverlayCompose(t *testing.T) {
	snap := testSnapshot(8, 8)
	// One bright cell under the status strip, one below it.
	snap.Density[1*8+1] = 1.2
	snap.Density[6*8+1] = 1.2

	r := NewFieldRenderer(8, 8, 4)
	frame := r.RenderField(snap, FieldDensity)

	o := NewOverlay(r.Size())
	img := o.Compose(frame, FieldDensity, 42, 60.0, 0.1, false)
	if img == nil {
		t.Fatal("Compose returned nil image")
	}
	b := img.Bounds()
	if b.Dx() != 32 || b.Dy() != 32 {
		t.Errorf("composed size = %dx%d, want 32x32", b.Dx(), b.Dy())
	}

	// The strip dims the top bright cell; the bottom one keeps full color.
	top, _, _, _ := img.At(5, 5).RGBA()
	bottom, _, _, _ := img.At(5, 25).RGBA()
	if top >= bottom {
		t.Errorf("status strip did not darken the frame: top=%d bottom=%d", top, bottom)
	}
}
