package waveform

// Canvas is the drawing surface the renderer paints each frame. The UI layer
// supplies an implementation backed by its actual drawing context; the
// renderer only issues path commands.
type Canvas interface {
	// Size returns the drawable width and height in pixels.
	Size() (width, height float64)

	// Clear erases the previous frame.
	Clear()

	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadraticCurveTo(cx, cy, x, y float64)
	ClosePath()

	// Fill paints the current path as a filled shape.
	Fill()
}

// NullCanvas discards all drawing commands. It keeps the renderer loop
// running when no UI surface is attached.
type NullCanvas struct {
	Width  float64
	Height float64
}

// Size returns the configured virtual size.
func (c *NullCanvas) Size() (float64, float64) {
	w, h := c.Width, c.Height
	if w <= 0 {
		w = 640
	}
	if h <= 0 {
		h = 160
	}
	return w, h
}

func (c *NullCanvas) Clear()                               {}
func (c *NullCanvas) MoveTo(x, y float64)                  {}
func (c *NullCanvas) LineTo(x, y float64)                  {}
func (c *NullCanvas) QuadraticCurveTo(cx, cy, x, y float64) {}
func (c *NullCanvas) ClosePath()                           {}
func (c *NullCanvas) Fill()                                {}
