package grove

import (
	"image/color"
	"testing"
)

func TestColorToRGBAPremultiplies(t *testing.T) {
	got := Color{R: 1, G: 0.5, B: 0, A: 0.5}.toRGBA()
	want := color.RGBA{R: 127, G: 63, B: 0, A: 127}
	if got != want {
		t.Errorf("toRGBA = %v, want %v", got, want)
	}
}

func TestColorToRGBAClamps(t *testing.T) {
	got := Color{R: 2, G: -1, B: 1, A: 1}.toRGBA()
	want := color.RGBA{R: 255, G: 0, B: 255, A: 255}
	if got != want {
		t.Errorf("toRGBA = %v, want %v", got, want)
	}
}

func TestDrawRectSkipsEmpty(t *testing.T) {
	// Neither call may touch the graphics driver.
	drawRect(nil, 0, 0, 10, 10, ColorWhite, 1)
	if whitePixel != nil {
		t.Error("pixel created for a nil target")
	}
}
