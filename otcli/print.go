package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/otmetrics/ot"
	"github.com/npillmayer/otmetrics/otquery"
	"github.com/pterm/pterm"
	"golang.org/x/text/unicode/runenames"
)

func hmtxOp(intp *Intp, op *Op) (err error, stop bool) {
	var gid ot.GlyphIndex
	if gid, err = intp.glyphArg(op); err != nil {
		return
	}
	m, err := otquery.GlyphMetrics(intp.font, gid)
	if err != nil {
		return err, false
	}
	pterm.Printf("glyph %d: advance=%d lsb=%d\n", gid, m.Advance, m.LSB)
	return nil, false
}

func glyphOp(intp *Intp, op *Op) (err error, stop bool) {
	var gid ot.GlyphIndex
	if gid, err = intp.glyphArg(op); err != nil {
		return
	}
	data := [][]string{{"Glyph", "Code-point", "Name", "Advance", "LSB"}}
	row := []string{fmt.Sprintf("%d", gid), "-", "-", "-", "-"}
	if r := otquery.CodePointForGlyph(intp.font, gid); r != 0 {
		row[1], row[2] = fmt.Sprintf("%#U", r), runenames.Name(r)
	}
	if m, err := otquery.GlyphMetrics(intp.font, gid); err == nil {
		row[3], row[4] = fmt.Sprintf("%d", m.Advance), fmt.Sprintf("%d", m.LSB)
	} else {
		tracer().Infof("glyph %d: %v", gid, err)
	}
	data = append(data, row)
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

func cmapOp(intp *Intp, op *Op) (err error, stop bool) {
	if err = intp.checkFont(); err != nil {
		return
	}
	arg, ok := op.hasArg()
	if !ok {
		return errors.New("cmap needs a code-point argument"), false
	}
	var r rune
	if r, err = parseCodePoint(arg); err != nil {
		return
	}
	g := intp.font.GlyphIndex(r)
	if gid, ok := g.Unwrap(); ok {
		pterm.Printf("%#U (%s) => glyph %d\n", r, runenames.Name(r), gid)
	} else {
		pterm.Printf("%#U (%s) is not mapped\n", r, runenames.Name(r))
	}
	return nil, false
}

// groupsOp lists format 12 map groups, starting at group `arg` and showing at
// most `format` entries.
func groupsOp(intp *Intp, op *Op) (err error, stop bool) {
	if err = intp.checkFont(); err != nil {
		return
	}
	groups := intp.font.CMap.Groups()
	if groups.Len() == 0 {
		pterm.Println("font has no format 12 map groups")
		return nil, false
	}
	from, count := 0, 16
	if op.arg != "" {
		if from, err = strconv.Atoi(op.arg); err != nil || from < 0 {
			return fmt.Errorf("group index not numeric: %v", op.arg), false
		}
	}
	if op.format != "" {
		if count, err = strconv.Atoi(op.format); err != nil || count < 0 {
			return fmt.Errorf("group count not numeric: %v", op.format), false
		}
	}
	pterm.Printf("cmap has %d map groups\n", groups.Len())
	data := [][]string{{"Group", "Start", "End", "Start glyph"}}
	for i := from; i < groups.Len() && i < from+count; i++ {
		g, _ := groups.Get(i)
		data = append(data, []string{
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%#U", rune(g.StartCharCode)),
			fmt.Sprintf("%#U", rune(g.EndCharCode)),
			fmt.Sprintf("%d", g.StartGlyphID),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

// --- Argument parsing --------------------------------------------------

func (intp *Intp) glyphArg(op *Op) (ot.GlyphIndex, error) {
	if err := intp.checkFont(); err != nil {
		return 0, err
	}
	arg, ok := op.hasArg()
	if !ok {
		return 0, errors.New("missing glyph index argument")
	}
	gid, err := strconv.ParseUint(arg, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("glyph index not numeric: %v", arg)
	}
	return ot.GlyphIndex(gid), nil
}

// parseCodePoint accepts code-points in notations U+0041, 0x41, 65 or as a
// single character.
func parseCodePoint(arg string) (rune, error) {
	var cp uint64
	var err error
	upper := strings.ToUpper(arg)
	switch {
	case strings.HasPrefix(upper, "U+"):
		cp, err = strconv.ParseUint(arg[2:], 16, 32)
	case strings.HasPrefix(upper, "0X"):
		cp, err = strconv.ParseUint(arg[2:], 16, 32)
	case utf8.RuneCountInString(arg) == 1 && (arg[0] < '0' || arg[0] > '9'):
		r, _ := utf8.DecodeRuneInString(arg)
		return r, nil
	default:
		cp, err = strconv.ParseUint(arg, 10, 32)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid code-point: %v", arg)
	}
	if cp > utf8.MaxRune {
		return 0, fmt.Errorf("code-point out of range: %v", arg)
	}
	return rune(cp), nil
}
