//go:build linux || freebsd || openbsd || netbsd || dragonfly

package display

import (
	"fmt"
	"image"

	"github.com/jezek/xgb/xproto"
)

// decodeZPixmap turns a raw z-pixmap GetImage reply into an RGBA image.
// The server sends BGRx rows padded to the scanline unit; the stride is
// recovered from the reply length.
func decodeZPixmap(setup *xproto.SetupInfo, reply *xproto.GetImageReply, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, decodeErr("decode screenshot", fmt.Errorf("empty geometry %dx%d", width, height))
	}
	if reply == nil || len(reply.Data) == 0 {
		return nil, decodeErr("decode screenshot", fmt.Errorf("empty image data"))
	}

	bitsPerPixel := 0
	for _, format := range setup.PixmapFormats {
		if format.Depth == reply.Depth {
			bitsPerPixel = int(format.BitsPerPixel)
			break
		}
	}
	if bitsPerPixel == 0 {
		return nil, decodeErr("decode screenshot", fmt.Errorf("unsupported depth %d", reply.Depth))
	}
	bytesPerPixel := bitsPerPixel / 8
	if bytesPerPixel < 3 {
		return nil, decodeErr("decode screenshot", fmt.Errorf("unsupported pixel format %d bpp", bitsPerPixel))
	}

	stride := len(reply.Data) / height
	if stride*height != len(reply.Data) {
		return nil, decodeErr("decode screenshot", fmt.Errorf("unexpected stride for %d bytes over %d rows", len(reply.Data), height))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := reply.Data[y*stride : (y+1)*stride]
		for x := 0; x < width; x++ {
			off := x * bytesPerPixel
			if off+3 > len(row) {
				break
			}
			b := row[off]
			g := row[off+1]
			r := row[off+2]
			pix := img.PixOffset(x, y)
			img.Pix[pix+0] = r
			img.Pix[pix+1] = g
			img.Pix[pix+2] = b
			img.Pix[pix+3] = 0xFF
		}
	}
	return img, nil
}
