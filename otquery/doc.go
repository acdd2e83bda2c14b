/*
Package otquery queries fonts parsed by package ot for metrics and glyph
information.

Functions in this package return values in font design units (sfnt.Units), as
is common for clients of golang.org/x/image/font.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otquery

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'opentype'
func tracer() tracing.Trace {
	return tracing.Select("opentype")
}
