package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/otmetrics/ot"
	"github.com/npillmayer/otmetrics/otquery"
	"github.com/thatisuday/commando"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

func runViewCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	fontPath := strings.TrimSpace(args["font"].Value)
	if fontPath == "" {
		fatalf("font path is required")
	}
	otf, sf := mustLoadFont(fontPath)
	input := strings.ReplaceAll(args["text"].Value, ",", " ")
	if input == "" {
		fatalf("input text is empty")
	}
	outPath, err := flags["output"].GetString()
	if err != nil {
		fatalf("invalid --output flag: %v", err)
	}
	outPath = strings.TrimSpace(outPath)
	if outPath == "" {
		fatalf("output path is empty")
	}
	opts := renderOptions{
		ppem:         mustFlagInt(flags["ppem"], "ppem"),
		width:        mustFlagInt(flags["width"], "width"),
		height:       mustFlagInt(flags["height"], "height"),
		showAdvances: mustFlagBool(flags["show-advances"], "show-advances"),
	}
	glyphs := make([]ot.GlyphIndex, 0, len(input))
	for _, r := range input {
		glyphs = append(glyphs, otquery.GlyphIndex(otf, r))
	}
	img, err := renderGlyphRun(otf, sf.SFNT, glyphs, opts)
	if err != nil {
		fatalf("render failed: %v", err)
	}
	if err := writePNG(img, outPath); err != nil {
		fatalf("%v", err)
	}
	fmt.Printf("wrote %d glyphs to %s\n", len(glyphs), outPath)
}

type renderOptions struct {
	ppem          int
	width, height int
	showAdvances  bool
}

// renderGlyphRun draws glyph outlines from package sfnt, placing each glyph
// at the pen position accumulated from hmtx advances. The baseline is placed
// at the font's ascender.
func renderGlyphRun(otf *ot.Font, sf *sfnt.Font, glyphs []ot.GlyphIndex, opts renderOptions) (*image.RGBA, error) {
	if len(glyphs) == 0 {
		return nil, errors.New("empty glyph run")
	}
	if opts.width <= 0 || opts.height <= 0 || opts.ppem <= 0 {
		return nil, fmt.Errorf("invalid image geometry %dx%d at %d ppem", opts.width, opts.height, opts.ppem)
	}
	upem := float32(otf.UnitsPerEm())
	if upem <= 0 {
		return nil, errors.New("invalid units-per-em")
	}
	scale := float32(opts.ppem) / upem
	metrics := otquery.FontMetrics(otf)
	baseline := float32(opts.height)/2 + float32(metrics.Ascent+metrics.Descent)*scale/2
	advances, err := otquery.Advances(otf, glyphs)
	if err != nil {
		return nil, err
	}
	var runWidth float32
	for _, a := range advances {
		runWidth += float32(a) * scale
	}
	penX := (float32(opts.width) - runWidth) / 2

	img := image.NewRGBA(image.Rect(0, 0, opts.width, opts.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{255, 255, 255, 255}), image.Point{}, draw.Src)
	rast := vector.NewRasterizer(opts.width, opts.height)
	rast.DrawOp = draw.Over
	var buf sfnt.Buffer
	for i, gid := range glyphs {
		segs, err := sf.LoadGlyph(&buf, sfnt.GlyphIndex(gid), fixed.I(opts.ppem), nil)
		if err == nil { // glyphs without outline are skipped
			drawSegments(rast, segs, penX, baseline)
		}
		advance := float32(advances[i]) * scale
		if opts.showAdvances {
			top := baseline - float32(metrics.Ascent)*scale
			bottom := baseline - float32(metrics.Descent)*scale
			drawRectOutline(img, int(penX), int(top), int(penX+advance), int(bottom), color.RGBA{0, 0, 255, 255})
		}
		penX += advance
	}
	rast.Draw(img, img.Bounds(), image.Black, image.Point{})
	return img, nil
}

func drawSegments(rast *vector.Rasterizer, segs sfnt.Segments, dx, dy float32) {
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			rast.MoveTo(dx+float32(seg.Args[0].X)/64, dy+float32(seg.Args[0].Y)/64)
		case sfnt.SegmentOpLineTo:
			rast.LineTo(dx+float32(seg.Args[0].X)/64, dy+float32(seg.Args[0].Y)/64)
		case sfnt.SegmentOpQuadTo:
			rast.QuadTo(
				dx+float32(seg.Args[0].X)/64, dy+float32(seg.Args[0].Y)/64,
				dx+float32(seg.Args[1].X)/64, dy+float32(seg.Args[1].Y)/64,
			)
		case sfnt.SegmentOpCubeTo:
			rast.CubeTo(
				dx+float32(seg.Args[0].X)/64, dy+float32(seg.Args[0].Y)/64,
				dx+float32(seg.Args[1].X)/64, dy+float32(seg.Args[1].Y)/64,
				dx+float32(seg.Args[2].X)/64, dy+float32(seg.Args[2].Y)/64,
			)
		}
	}
}

func drawRectOutline(img *image.RGBA, minX int, minY int, maxX int, maxY int, c color.RGBA) {
	if img == nil {
		return
	}
	if maxX < minX {
		minX, maxX = maxX, minX
	}
	if maxY < minY {
		minY, maxY = maxY, minY
	}
	b := img.Bounds()
	minX, minY = max(minX, b.Min.X), max(minY, b.Min.Y)
	maxX, maxY = min(maxX, b.Max.X), min(maxY, b.Max.Y)
	if minX >= maxX || minY >= maxY {
		return
	}
	// top and bottom
	for x := minX; x < maxX; x++ {
		img.SetRGBA(x, minY, c)
		img.SetRGBA(x, maxY-1, c)
	}
	// left and right
	for y := minY; y < maxY; y++ {
		img.SetRGBA(minX, y, c)
		img.SetRGBA(maxX-1, y, c)
	}
}

func writePNG(img image.Image, outPath string) error {
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create output directory: %w", err)
		}
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("cannot encode png: %w", err)
	}
	return nil
}
