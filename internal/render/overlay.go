package render

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"latticeflow/internal/lbm"

	"github.com/fogleman/gg"
)

// Overlay draws a status bar on top of a rendered field frame using a gg
// context that wraps the frame. gg falls back to a builtin bitmap font when
// no font face is loaded, which is all a status line needs.
type Overlay struct {
	dc *gg.Context
}

// NewOverlay wraps a frame-sized context around the renderer's output.
func NewOverlay(frameW, frameH int) *Overlay {
	return &Overlay{dc: gg.NewContext(frameW, frameH)}
}

// Compose draws the frame, the status line and, when the solver went
// unstable, a warning banner. It returns the composed image.
func (o *Overlay) Compose(frame *image.RGBA, field Field, step uint64, mass, maxSpeed float64, unstable bool) image.Image {
	dc := o.dc
	dc.DrawImage(frame, 0, 0)

	status := fmt.Sprintf("%s  step %d  mass %.4f  max|u| %.4f", field, step, mass, maxSpeed)

	// Dark strip behind the text so it stays readable over bright cells.
	dc.SetRGBA(0, 0, 0, 0.6)
	dc.DrawRectangle(0, 0, float64(dc.Width()), 18)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	dc.DrawString(status, 6, 13)

	if unstable {
		dc.SetRGB(1, 0.3, 0.3)
		dc.DrawStringAnchored("UNSTABLE", float64(dc.Width())/2, float64(dc.Height())/2, 0.5, 0.5)
	}
	return dc.Image()
}

// ComposeSnapshot draws the status overlay for a published snapshot.
func (o *Overlay) ComposeSnapshot(frame *image.RGBA, snap *lbm.FieldSnapshot, field Field) image.Image {
	return o.Compose(frame, field, snap.Step, snap.TotalMass, snap.MaxSpeed, snap.Unstable)
}

// EncodePNG renders the chosen field of the snapshot, composes the status
// overlay on top and writes the result as PNG. This is the one frame path
// shared by the HTTP frame endpoint and the offline renderer.
func EncodePNG(w io.Writer, r *FieldRenderer, o *Overlay, snap *lbm.FieldSnapshot, f Field) error {
	img := o.ComposeSnapshot(r.RenderField(snap, f), snap, f)
	return png.Encode(w, img)
}
