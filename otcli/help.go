package main

import (
	"strings"

	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, op *Op) (error, bool) {
	help(op.arg)
	return nil, false
}

func help(topic string) {
	tracer().Infof("help %v", topic)
	t := strings.ToLower(topic)
	switch t {
	case "hmtx", "metrics", "glyph":
		pterm.Info.Println("hmtx / Horizontal Metrics")
		pterm.Println(`
	Table hmtx holds numberOfHMetrics (from table hhea) long metric records,
	followed by left side bearings for the remaining glyphs:
	+--------------+-----------------+
	| AdvanceWidth | LeftSideBearing |   x numberOfHMetrics
	+--------------+-----------------+
	| LeftSideBearing                |   x numGlyphs - numberOfHMetrics
	+--------------------------------+
	Glyphs after the last long record share its advance width.

	hmtx:<gid>     shows the metrics of glyph <gid>
	glyph:<gid>    additionally shows the code-point mapped to <gid>
	`)
	case "cmap", "groups":
		pterm.Info.Println("cmap / Format 12")
		pterm.Println(`
	A format 12 cmap subtable holds a list of sequential map groups:
	+----------------+--------------+--------------+
	| StartCharCode  | EndCharCode  | StartGlyphID |
	+----------------+--------------+--------------+
	Code-point c in [start..end] maps to glyph StartGlyphID + (c - start).

	cmap:<cp>          looks up a code-point, given as U+0041, 0x41, 65 or A
	groups[:<from>[:<n>]]  lists map groups
	`)
	case "table", "tables", "info", "errors":
		pterm.Info.Println("Font")
		pterm.Println(`
	info           shows the font's metrics and table directory
	table:<tag>    selects a table and shows its extent
	errors         lists errors and warnings found when parsing the font
	`)
	default:
		pterm.Info.Println("Commands")
		pterm.Println(`
	quit, help[:<topic>], info, table:<tag>, errors,
	hmtx:<gid>, glyph:<gid>, cmap:<cp>, groups[:<from>[:<n>]]

	Topics are: hmtx, cmap, table
	Commands may be chained on one line, separated by spaces.
	`)
	}
}
