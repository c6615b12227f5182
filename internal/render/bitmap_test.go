package render

import "testing"

func TestNewBitmapFillsBackground(t *testing.T) {
	bg := RGB{10, 20, 30}
	b := NewBitmap(4, 3, bg)

	if len(b.Pix) != 4*3*3 {
		t.Fatalf("pixel buffer length = %d", len(b.Pix))
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			if b.At(x, y) != bg {
				t.Fatalf("pixel (%d,%d) = %+v, want background", x, y, b.At(x, y))
			}
		}
	}
}

func TestSetClipsOutOfBounds(t *testing.T) {
	b := NewBitmap(4, 4, Black)
	before := make([]byte, len(b.Pix))
	copy(before, b.Pix)

	b.Set(-1, 0, White)
	b.Set(0, -1, White)
	b.Set(4, 0, White)
	b.Set(0, 4, White)
	b.Set(100, -100, White)

	for i := range b.Pix {
		if b.Pix[i] != before[i] {
			t.Fatal("out-of-bounds Set modified the bitmap")
		}
	}
}

func TestFillRectClips(t *testing.T) {
	b := NewBitmap(4, 4, Black)
	b.FillRect(-10, -10, 100, 100, White)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if b.At(x, y) != White {
				t.Fatalf("pixel (%d,%d) not filled", x, y)
			}
		}
	}
}

func TestLineEndpoints(t *testing.T) {
	b := NewBitmap(10, 10, Black)
	b.Line(1, 1, 8, 6, Lime)

	if b.At(1, 1) != Lime || b.At(8, 6) != Lime {
		t.Error("line endpoints not drawn")
	}
}

func TestLineClipsOutOfBounds(t *testing.T) {
	b := NewBitmap(5, 5, Black)
	// Must terminate and not panic even with endpoints far outside.
	b.Line(-20, -20, 30, 30, White)
	if b.At(2, 2) != White {
		t.Error("diagonal through the bitmap not drawn")
	}
}

func TestFillCircleContained(t *testing.T) {
	b := NewBitmap(9, 9, Black)
	b.FillCircle(4, 4, 3, White)

	if b.At(4, 4) != White {
		t.Error("circle center not filled")
	}
	if b.At(0, 0) != Black {
		t.Error("corner outside the circle was painted")
	}
}

func TestBrightenedClamps(t *testing.T) {
	c := RGB{250, 100, 0}.Brightened(70)
	want := RGB{255, 170, 70}
	if c != want {
		t.Errorf("Brightened = %+v, want %+v", c, want)
	}
}

func TestLerpRGB(t *testing.T) {
	a, b := RGB{0, 0, 0}, RGB{100, 200, 50}
	if lerpRGB(a, b, 0) != a {
		t.Error("t=0 should return the first color")
	}
	if lerpRGB(a, b, 1) != b {
		t.Error("t=1 should return the second color")
	}
	mid := lerpRGB(a, b, 0.5)
	if mid != (RGB{50, 100, 25}) {
		t.Errorf("midpoint = %+v", mid)
	}
}
