package gui

import (
	"fyne.io/fyne/v2"
)

// flowLayout places objects left to right and wraps them into rows like
// words of a paragraph
type flowLayout struct {
	hgap, vgap float32

	// width is the width of the last layout; the height of a flow
	// depends on it. Zero means not laid out yet.
	width float32
	// height is the height last reported by MinSize
	height float32

	// OnReflow is called on the UI goroutine when a layout needs a
	// different height than MinSize reported, so the parent can refresh
	OnReflow func()
}

func newFlowLayout() *flowLayout {
	return &flowLayout{hgap: 4, vgap: 4}
}

// Layout implements fyne.Layout
func (f *flowLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	f.width = size.Width
	height := f.place(objects, size.Width, true)
	if height != f.height && f.OnReflow != nil {
		fyne.Do(f.OnReflow)
	}
}

// MinSize implements fyne.Layout. The width is that of the widest
// object; the height is what the objects need at the last laid out width,
// or a single row before the first layout.
func (f *flowLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	var widest, tallest float32
	for _, o := range objects {
		if !o.Visible() {
			continue
		}
		min := o.MinSize()
		if min.Width > widest {
			widest = min.Width
		}
		if min.Height > tallest {
			tallest = min.Height
		}
	}

	if f.width == 0 {
		f.height = tallest
		return fyne.NewSize(widest, tallest)
	}

	width := f.width
	if width < widest {
		width = widest
	}
	f.height = f.place(objects, width, false)
	return fyne.NewSize(widest, f.height)
}

// place lays out objects within width and returns the total height
func (f *flowLayout) place(objects []fyne.CanvasObject, width float32, move bool) float32 {
	var x, y, rowHeight float32
	for _, o := range objects {
		if !o.Visible() {
			continue
		}
		min := o.MinSize()
		if x > 0 && x+min.Width > width {
			x = 0
			y += rowHeight + f.vgap
			rowHeight = 0
		}
		if move {
			o.Move(fyne.NewPos(x, y))
			o.Resize(min)
		}
		x += min.Width + f.hgap
		if min.Height > rowHeight {
			rowHeight = min.Height
		}
	}
	return y + rowHeight
}
