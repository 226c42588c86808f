package occupancy

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/golang/freetype"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	cellSize  = 14
	fontSize  = 10
	charWidth = 7
	margin    = 4
)

var (
	emptyCell = color.RGBA{0xf2, 0xf2, 0xf2, 0xff}
	fullCell  = color.RGBA{0x08, 0x30, 0x6b, 0xff}
)

// WritePNG draws the report as a heatmap: one row per taxon, one column
// per partition, with darker cells for higher occupancy. Taxon names label
// the rows. All-gap cells are drawn in light grey.
func (r *Report) WritePNG(w io.Writer) error {
	labelWidth := 0
	for _, taxon := range r.Taxa {
		if len(taxon) > labelWidth {
			labelWidth = len(taxon)
		}
	}
	left := labelWidth*charWidth + 2*margin
	width := left + len(r.Partitions)*cellSize + margin
	height := len(r.Taxa)*cellSize + 2*margin

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	for i := range r.Taxa {
		for j := range r.Partitions {
			x, y := left+j*cellSize, margin+i*cellSize
			cell := image.Rect(x, y, x+cellSize-1, y+cellSize-1)
			fill := image.NewUniform(shade(r.Fraction(i, j)))
			draw.Draw(img, cell, fill, image.Point{}, draw.Src)
		}
	}

	font, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return err
	}
	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(font)
	ctx.SetFontSize(fontSize)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.Black)
	for i, taxon := range r.Taxa {
		baseline := margin + i*cellSize + cellSize - 3
		if _, err := ctx.DrawString(taxon, freetype.Pt(margin, baseline)); err != nil {
			return err
		}
	}
	return png.Encode(w, img)
}

// shade interpolates between the empty and full colors. A fraction of
// exactly 0 is always the empty color.
func shade(fraction float64) color.Color {
	if fraction <= 0 {
		return emptyCell
	}
	if fraction > 1 {
		fraction = 1
	}
	lerp := func(a, b uint8) uint8 {
		// Start a quarter of the way along so that any residue is visible.
		f := 0.25 + 0.75*fraction
		return uint8(float64(a) + (float64(b)-float64(a))*f)
	}
	return color.RGBA{
		lerp(emptyCell.R, fullCell.R),
		lerp(emptyCell.G, fullCell.G),
		lerp(emptyCell.B, fullCell.B),
		0xff,
	}
}
