package render

// Bitmap is a width x height RGB image with 3 bytes per pixel, laid out
// row-major. Dimensions are constant for the whole job; the pixel format
// matches the rawvideo rgb24 stream the encoder consumes.
type Bitmap struct {
	Width  int
	Height int
	// Pix holds R, G, B bytes per pixel, rows top to bottom.
	Pix []byte
}

// NewBitmap allocates a bitmap filled with the background color.
func NewBitmap(width, height int, bg RGB) *Bitmap {
	b := &Bitmap{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*3),
	}
	for i := 0; i < len(b.Pix); i += 3 {
		b.Pix[i] = bg.R
		b.Pix[i+1] = bg.G
		b.Pix[i+2] = bg.B
	}
	return b
}

// Set writes a pixel, silently clipping coordinates outside the bitmap.
func (b *Bitmap) Set(x, y int, c RGB) {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return
	}
	i := (y*b.Width + x) * 3
	b.Pix[i] = c.R
	b.Pix[i+1] = c.G
	b.Pix[i+2] = c.B
}

// Bytes returns the raw rgb24 pixel data, suitable for streaming to the
// encoder.
func (b *Bitmap) Bytes() []byte {
	return b.Pix
}

// At returns the pixel color, or the zero color outside the bitmap.
func (b *Bitmap) At(x, y int) RGB {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return RGB{}
	}
	i := (y*b.Width + x) * 3
	return RGB{b.Pix[i], b.Pix[i+1], b.Pix[i+2]}
}

// FillRect fills the rectangle [x0,x1) x [y0,y1), clipped to the bitmap.
func (b *Bitmap) FillRect(x0, y0, x1, y1 int, c RGB) {
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > b.Width {
		x1 = b.Width
	}
	if y1 > b.Height {
		y1 = b.Height
	}
	for y := y0; y < y1; y++ {
		row := (y*b.Width + x0) * 3
		for x := x0; x < x1; x++ {
			b.Pix[row] = c.R
			b.Pix[row+1] = c.G
			b.Pix[row+2] = c.B
			row += 3
		}
	}
}

// HSpan fills a horizontal run of pixels on one row.
func (b *Bitmap) HSpan(x0, x1, y int, c RGB) {
	b.FillRect(x0, y, x1, y+1, c)
}

// Line draws a 1-pixel line between two points using Bresenham's
// algorithm, clipped to the bitmap.
func (b *Bitmap) Line(x0, y0, x1, y1 int, c RGB) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		b.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// ThickLine draws a line of the given stroke width by stacking vertical
// offsets around the ideal line.
func (b *Bitmap) ThickLine(x0, y0, x1, y1, width int, c RGB) {
	if width <= 1 {
		b.Line(x0, y0, x1, y1, c)
		return
	}
	half := width / 2
	for off := -half; off <= width-1-half; off++ {
		b.Line(x0, y0+off, x1, y1+off, c)
	}
}

// FillCircle fills a disc centered at (cx, cy), clipped to the bitmap.
func (b *Bitmap) FillCircle(cx, cy, r int, c RGB) {
	if r <= 0 {
		b.Set(cx, cy, c)
		return
	}
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				b.Set(cx+dx, cy+dy, c)
			}
		}
	}
}

// Equal reports whether two bitmaps have identical dimensions and pixels.
func (b *Bitmap) Equal(other *Bitmap) bool {
	if b.Width != other.Width || b.Height != other.Height {
		return false
	}
	if len(b.Pix) != len(other.Pix) {
		return false
	}
	for i := range b.Pix {
		if b.Pix[i] != other.Pix[i] {
			return false
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
