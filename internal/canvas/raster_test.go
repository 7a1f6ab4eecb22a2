package canvas

import (
	"image/color"
	"testing"
)

func TestRasterStrokeLinePaintsAlongSegment(t *testing.T) {
	r := NewRaster(20, 10)
	r.SetStrokeColor(color.RGBA{R: 255, A: 255})
	r.SetLineWidth(4)
	r.StrokeLine(2, 5, 17, 5)

	img := r.Image()
	if got := img.RGBAAt(10, 5); got.R != 255 || got.A != 255 {
		t.Fatalf("centre of line = %+v, want opaque red", got)
	}
	if got := img.RGBAAt(10, 0); got.A != 0 {
		t.Fatalf("pixel away from line painted: %+v", got)
	}
}

func TestRasterDestinationOutErases(t *testing.T) {
	r := NewRaster(10, 10)
	r.SetFillColor(color.RGBA{G: 255, A: 255})
	r.FillRect(0, 0, 10, 10)

	r.SetComposite(DestinationOut)
	r.FillRect(0, 0, 5, 10)

	img := r.Image()
	if got := img.RGBAAt(2, 5); got.A != 0 {
		t.Fatalf("erased pixel alpha = %d, want 0", got.A)
	}
	if got := img.RGBAAt(8, 5); got.A != 255 {
		t.Fatalf("untouched pixel alpha = %d, want 255", got.A)
	}
}

func TestRasterTransformApplies(t *testing.T) {
	r := NewRaster(40, 40)
	r.SetFillColor(color.RGBA{B: 255, A: 255})
	r.Translate(10, 10)
	r.Scale(2, 2)
	r.FillRect(0, 0, 5, 5)

	img := r.Image()
	if got := img.RGBAAt(15, 15); got.A != 255 {
		t.Fatalf("pixel inside transformed rect alpha = %d", got.A)
	}
	if got := img.RGBAAt(5, 5); got.A != 0 {
		t.Fatalf("pixel outside transformed rect alpha = %d", got.A)
	}
	if got := img.RGBAAt(25, 25); got.A != 0 {
		t.Fatalf("pixel past scaled rect alpha = %d", got.A)
	}
}

func TestRasterSaveRestore(t *testing.T) {
	r := NewRaster(10, 10)
	r.Save()
	r.Translate(100, 100)
	r.Restore()
	r.SetFillColor(color.RGBA{R: 255, A: 255})
	r.FillRect(0, 0, 2, 2)
	if got := r.Image().RGBAAt(1, 1); got.A != 255 {
		t.Fatalf("restore did not reset transform, alpha = %d", got.A)
	}
}

func TestRasterBlurSoftensEdge(t *testing.T) {
	hard := NewRaster(30, 30)
	hard.SetFillColor(color.RGBA{A: 255})
	hard.FillCircle(15, 15, 8)

	soft := NewRaster(30, 30)
	soft.SetFillColor(color.RGBA{A: 255})
	soft.SetBlur(3)
	soft.FillCircle(15, 15, 8)

	if got := hard.Image().RGBAAt(15, 4).A; got != 0 {
		t.Fatalf("hard circle leaked outside radius: %d", got)
	}
	if got := soft.Image().RGBAAt(15, 5).A; got == 0 {
		t.Fatal("blurred circle has no falloff outside radius")
	}
}

func TestRasterGlobalAlpha(t *testing.T) {
	r := NewRaster(4, 4)
	r.SetFillColor(color.RGBA{R: 255, A: 255})
	r.SetGlobalAlpha(0.5)
	r.FillRect(0, 0, 4, 4)
	a := r.Image().RGBAAt(2, 2).A
	if a < 120 || a > 135 {
		t.Fatalf("half alpha fill = %d", a)
	}
}
