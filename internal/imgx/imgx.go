// Package imgx scales extracted frames down to what the vision model
// actually consumes before they are shipped over the wire.
package imgx

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"
)

// ResizeInPlace rewrites the PNG at path so it fits inside a box×box
// bounding square, preserving aspect ratio: the limiting dimension lands
// exactly on box, the other is scaled proportionally. The original file is
// overwritten; the operation is not reversible.
func ResizeInPlace(path string, box int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	src, err := png.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	b := src.Bounds()
	w, h := targetSize(b.Dx(), b.Dy(), box)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(out, dst); err != nil {
		out.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return out.Close()
}

// targetSize fits (w, h) inside a box-sized square. Equal dimensions map
// to the full box.
func targetSize(w, h, box int) (int, int) {
	switch {
	case w > h:
		return box, box * h / w
	case w < h:
		return box * w / h, box
	default:
		return box, box
	}
}
