package display

import "github.com/example/kapture/internal/geometry"

// cursorImage is a decoded hardware cursor: one ARGB word per pixel with
// alpha in the high byte, the hotspot offset within the image, and the
// absolute on-screen position of the pointer.
type cursorImage struct {
	pixels []uint32
	width  int
	height int
	xhot   int
	yhot   int
	x      int
	y      int
}

// overlayCursor draws the cursor onto a captured monitor's raw pixel
// buffer in place. The buffer holds 4 bytes per pixel (colour in the low
// three, padding last) and is bounds.W pixels wide.
func overlayCursor(cursor cursorImage, shot []byte, bounds geometry.Rectangle) {
	boundsW := int(bounds.W)
	boundsH := int(bounds.H)

	// Top-left corner of the cursor in buffer coordinates. Near the left
	// and top screen edges the hotspot offset can exceed the pointer
	// coordinate, so the subtraction clamps at zero instead of wrapping.
	cx := clampNonNegative(cursor.x - cursor.xhot - int(bounds.X))
	cy := clampNonNegative(cursor.y - cursor.yhot - int(bounds.Y))

	// Clip to the buffer so a cursor hanging off a screen edge draws
	// partially instead of wrapping to the far side.
	wDraw := min(cursor.width, boundsW-cx)
	hDraw := min(cursor.height, boundsH-cy)
	if wDraw <= 0 || hDraw <= 0 {
		return
	}

	for x := 0; x < wDraw; x++ {
		for y := 0; y < hDraw; y++ {
			word := cursor.pixels[y*cursor.width+x]
			c0 := word & 0xff
			c1 := word >> 8 & 0xff
			c2 := word >> 16 & 0xff
			a := word >> 24 & 0xff

			idx := 4*boundsW*(cy+y) + 4*(cx+x)

			switch {
			case a == 255:
				shot[idx+0] = byte(c0)
				shot[idx+1] = byte(c1)
				shot[idx+2] = byte(c2)
			case a == 0:
				// Fully transparent; leave the screenshot untouched.
			default:
				shot[idx+0] = blendChannel(c0, uint32(shot[idx+0]), a)
				shot[idx+1] = blendChannel(c1, uint32(shot[idx+1]), a)
				shot[idx+2] = blendChannel(c2, uint32(shot[idx+2]), a)
			}
		}
	}
}

// blendChannel pastes a cursor channel over a screenshot channel. The
// +127 bias rounds the weighted screenshot contribution before the
// integer divide.
func blendChannel(src, dst, alpha uint32) byte {
	return byte(src + (dst*(255-alpha)+127)/255)
}

func clampNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
