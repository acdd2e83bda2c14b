/*
Package otmetrics provides horizontal glyph metrics and character-to-glyph
mapping for OpenType fonts.

Lookups are lazy: table bytes are kept as they are read from the font binary,
and individual records are decoded on demand, every access bounds-checked
against the table size. Horizontal metrics are served from table 'hmtx',
character mapping from cmap subtables of format 12 (segmented coverage).

Package ot contains the table level parser and lookups. Package otquery builds
typed query views on top of it. This package is a thin convenience layer for
the most common use-cases.

# Links

OpenType explained:
https://docs.microsoft.com/en-us/typography/opentype/

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otmetrics

import (
	"fmt"
	"os"

	"github.com/npillmayer/otmetrics/ot"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'opentype'
func tracer() tracing.Trace {
	return tracing.Select("opentype")
}

// LoadFont reads an OpenType font (TTF or OTF) from a file and parses it.
//
// Parsing does not fail for inconsistencies between the metrics tables. Clients
// should check the font's Errors() if they need a fully consistent font.
func LoadFont(fontfile string) (*ot.Font, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	otf, err := FromBinary(bytez)
	if err != nil {
		return nil, fmt.Errorf("font %s: %w", fontfile, err)
	}
	tracer().Infof("loaded font %s with %d glyphs", fontfile, otf.NumGlyphs())
	if otf.HasCriticalErrors() {
		tracer().Errorf("font %s has critical errors", fontfile)
	}
	return otf, nil
}
