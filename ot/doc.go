/*
Package ot provides lazy access to the metric tables of OpenType fonts.

Intended audience for this package are text shapers and glyph rasterizers which
need glyph advances and character-to-glyph mappings, but do not want to decode
complete tables up front. Package `ot` keeps the font's binary in memory and
interprets table records only when they are asked for:

▪︎ Horizontal metrics ('hmtx'): advance width and left side bearing per glyph,
including the trailing compression of the table, where glyphs beyond
`numberOfHMetrics` share the advance of the last long metric record.

▪︎ Character mapping ('cmap') in subtable format 12 (segmented coverage), which
maps ranges of 32-bit character codes to runs of glyph IDs.

The central functions `LookupHorizontalMetrics` and `LookupGlyphForCodePoint`
operate on plain byte slices and scalar parameters. They allocate nothing, never
read past the end of the data they are handed, and may be called concurrently on
the same (read-only) bytes. Type `Font` is a thin layer on top, locating the
tables within a font binary and supplying the scalar parameters from tables
'hhea' and 'maxp'.

Fonts in the wild contain bugs. Malformed or truncated tables will never lead to
a panic; they either produce an error (for 'hmtx') or an empty result
(for 'cmap', where "no glyph for this code-point" is a regular answer).

# Status

Other cmap formats, vertical metrics and glyph outlines are not interpreted.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ot

/*
Both tables are consulted for every glyph of every line of text, so there is no
point in copying them out into Go structures: the font binary already is the
best possible lookup structure, we just have to read it carefully.

Valuable resources:
https://docs.microsoft.com/en-us/typography/opentype/spec/hmtx
https://docs.microsoft.com/en-us/typography/opentype/spec/cmap#format-12-segmented-coverage
*/

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'font.opentype'
func tracer() tracing.Trace {
	return tracing.Select("font.opentype")
}
