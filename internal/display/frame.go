package display

import (
	"github.com/jezek/xgb"

	"github.com/example/kapture/internal/geometry"
)

// frameExtents holds the widths of the window-manager-drawn decoration
// borders around a window's content area.
type frameExtents struct {
	left, right, top, bottom float64
}

// outerRect grows the content rect by the decoration borders on each
// side. Fullscreen windows never have decorations drawn, so their outer
// rect is the content rect regardless of what the extents property says.
func outerRect(content geometry.Rectangle, extents frameExtents, fullscreen bool) geometry.Rectangle {
	if fullscreen {
		return content
	}
	return geometry.Rectangle{
		X: content.X - extents.left,
		Y: content.Y - extents.top,
		W: content.W + extents.left + extents.right,
		H: content.H + extents.top + extents.bottom,
	}
}

// words32FromProperty decodes 32-bit values from a property reply,
// preserving server order. Short replies yield fewer values.
func words32FromProperty(value []byte, valueLen uint32) []uint32 {
	words := make([]uint32, 0, valueLen)
	for i := 0; i < int(valueLen) && (i+1)*4 <= len(value); i++ {
		words = append(words, xgb.Get32(value[i*4:]))
	}
	return words
}
