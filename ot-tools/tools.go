package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/npillmayer/otmetrics/internal/fontload"
	"github.com/npillmayer/otmetrics/ot"
	"github.com/thatisuday/commando"
)

func main() {
	commando.
		SetExecutableName("ot-tools").
		SetVersion("v0.0.1").
		SetDescription("CLI for OpenType horizontal metrics and character mapping diagnostics.")

	commando.
		Register(nil).
		AddFlag("verbose,V", "display additional output", commando.Bool, nil)

	commando.
		Register("font").
		SetDescription("Print diagnostics and table information for an OpenType font.").
		SetShortDescription("font diagnostics").
		AddArgument("font", "OpenType font file path", "").
		AddArgument("tables...", "optional list of table tags (e.g. hmtx,cmap,head)", "").
		AddFlag("errors,e", "print parse errors and warnings", commando.Bool, nil).
		SetAction(runFontCommand)

	commando.
		Register("metrics").
		SetDescription("Print horizontal metrics from table hmtx for a list of glyphs.").
		SetShortDescription("glyph metrics").
		AddArgument("font", "OpenType font file path", "").
		AddArgument("glyphs...", "glyph indices (comma/space separated, ranges like 3-7 allowed)", "").
		AddFlag("compare,c", "cross-check advances with golang.org/x/image/font/sfnt", commando.Bool, nil).
		SetAction(runMetricsCommand)

	commando.
		Register("cmap").
		SetDescription("Map code-points to glyphs with a format 12 cmap subtable.").
		SetShortDescription("character mapping").
		AddArgument("font", "OpenType font file path", "").
		AddArgument("text...", "text to map to glyphs", "").
		AddFlag("codepoints,c", "codepoints instead of text (comma/space separated, e.g. U+0041,U+1F600)", commando.String, "-").
		AddFlag("groups,g", "list the format 12 map groups", commando.Bool, nil).
		SetAction(runCMapCommand)

	commando.
		Register("view").
		SetDescription("Render text to a PNG image, positioning glyphs by their hmtx advances.").
		SetShortDescription("metrics to image").
		AddArgument("font", "OpenType font file path", "").
		AddArgument("text...", "text to render", "").
		AddFlag("output,o", "output PNG file", commando.String, "ot-tools-view.png").
		AddFlag("show-advances,A", "draw blue advance boxes per rendered glyph", commando.Bool, nil).
		AddFlag("ppem,p", "render scale in pixels-per-em", commando.Int, 96).
		AddFlag("width,W", "image width in pixels", commando.Int, 640).
		AddFlag("height,H", "image height in pixels", commando.Int, 240).
		SetAction(runViewCommand)

	commando.Parse(nil)
}

// parseGlyphList parses glyph indices, separated by comma or space.
// Ranges like "3-7" are expanded.
func parseGlyphList(spec string) ([]ot.GlyphIndex, error) {
	parts := splitCSVSpace(spec)
	out := make([]ot.GlyphIndex, 0, len(parts))
	for _, p := range parts {
		from, to, isRange := strings.Cut(p, "-")
		first, err := strconv.ParseUint(from, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid glyph index %q: %w", p, err)
		}
		last := first
		if isRange {
			if last, err = strconv.ParseUint(to, 10, 16); err != nil {
				return nil, fmt.Errorf("invalid glyph range %q: %w", p, err)
			}
			if last < first {
				return nil, fmt.Errorf("invalid glyph range %q", p)
			}
		}
		for g := first; g <= last; g++ {
			out = append(out, ot.GlyphIndex(g))
		}
	}
	return out, nil
}

// parseMappingInput returns the code-points to map, either from the text
// argument or from the --codepoints flag.
func parseMappingInput(textArg commando.ArgValue, cpFlag commando.FlagValue) ([]rune, error) {
	cpSpec, err := cpFlag.GetString()
	if err != nil {
		return nil, fmt.Errorf("invalid --codepoints flag: %w", err)
	}
	cpSpec = strings.TrimSpace(cpSpec)
	if cpSpec != "" && cpSpec != "-" {
		return parseCodepoints(cpSpec)
	}
	// commando joins variadic argument parts by comma
	text := strings.ReplaceAll(textArg.Value, ",", " ")
	return []rune(text), nil
}

func parseCodepoints(spec string) ([]rune, error) {
	parts := splitCSVSpace(spec)
	out := make([]rune, 0, len(parts))
	for _, p := range parts {
		r, err := parseCodepointToken(p)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func parseCodepointToken(token string) (rune, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, errors.New("empty codepoint token")
	}
	hex := token
	switch {
	case strings.HasPrefix(hex, "U+"), strings.HasPrefix(hex, "u+"):
		hex = hex[2:]
	case strings.HasPrefix(hex, "0x"), strings.HasPrefix(hex, "0X"):
		hex = hex[2:]
	}
	u, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid codepoint %q: %w", token, err)
	}
	if u > 0x10FFFF {
		return 0, fmt.Errorf("codepoint %q out of range", token)
	}
	return rune(u), nil
}

func splitCSVSpace(spec string) []string {
	return strings.FieldsFunc(spec, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

func mustLoadFont(path string) (*ot.Font, *fontload.ScalableFont) {
	sf, err := fontload.LoadOpenTypeFont(path)
	if err != nil {
		fatalf("cannot load font %s: %v", path, err)
	}
	otf, err := ot.Parse(sf.Binary)
	if err != nil {
		fatalf("cannot parse font %s: %v", path, err)
	}
	return otf, sf
}

func mustFlagInt(flag commando.FlagValue, name string) int {
	n, err := flag.GetInt()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return n
}

func mustFlagBool(flag commando.FlagValue, name string) bool {
	b, err := flag.GetBool()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return b
}

func fatalf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, "ot-tools: "+format+"\n", args...)
	os.Exit(1)
}
