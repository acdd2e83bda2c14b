package main

import (
	"errors"
	"fmt"

	"github.com/npillmayer/otmetrics"
	"github.com/npillmayer/otmetrics/ot"
	"github.com/npillmayer/otmetrics/otquery"
	"github.com/pterm/pterm"
)

func tableOp(intp *Intp, op *Op) (error, bool) {
	if err := intp.checkFont(); err != nil {
		return err, false
	}
	tag, ok := op.hasArg()
	if !ok {
		if intp.table == nil {
			return ErrNoTable, false
		}
		return nil, false
	}
	if intp.table = intp.font.Table(ot.T(tag)); intp.table == nil {
		return errors.New("table not found in font"), false
	}
	off, size := intp.table.Extent()
	pterm.Printf("table %s at offset %d, size %d bytes\n", ot.T(tag), off, size)
	tracer().Infof("setting table: %v", tag)
	return nil, false
}

func infoOp(intp *Intp, op *Op) (error, bool) {
	if err := intp.checkFont(); err != nil {
		return err, false
	}
	otf := intp.font
	family, subfamily := otmetrics.FamilyName(otf)
	m := otquery.FontMetrics(otf)
	data := [][]string{
		{"Property", "Value"},
		{"Family", fmt.Sprintf("%s %s", family, subfamily)},
		{"Units per em", fmt.Sprintf("%d", m.UnitsPerEm)},
		{"Ascent", fmt.Sprintf("%d", m.Ascent)},
		{"Descent", fmt.Sprintf("%d", m.Descent)},
		{"Line gap", fmt.Sprintf("%d", m.LineGap)},
		{"Max advance", fmt.Sprintf("%d", m.MaxAdvance)},
		{"Glyphs", fmt.Sprintf("%d", otf.NumGlyphs())},
		{"Long metrics", fmt.Sprintf("%d", otf.NumberOfHMetrics())},
		{"cmap groups", fmt.Sprintf("%d", otf.CMap.GroupCount())},
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	tables := [][]string{{"Tag", "Offset", "Size"}}
	for _, tag := range otf.TableTags() {
		off, size := otf.Table(tag).Extent()
		tables = append(tables, []string{tag.String(), fmt.Sprintf("%d", off), fmt.Sprintf("%d", size)})
	}
	pterm.DefaultTable.WithHasHeader().WithData(tables).Render()
	return nil, false
}

func errorsOp(intp *Intp, op *Op) (error, bool) {
	if err := intp.checkFont(); err != nil {
		return err, false
	}
	errs, warnings := intp.font.Errors(), intp.font.Warnings()
	if len(errs) == 0 && len(warnings) == 0 {
		pterm.Println("font parsed without errors or warnings")
		return nil, false
	}
	data := [][]string{{"Kind", "Table", "Issue"}}
	for _, e := range errs {
		data = append(data, []string{e.Severity.String(), e.Table.String(), e.Error()})
	}
	for _, w := range warnings {
		data = append(data, []string{"warning", w.Table.String(), w.String()})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}
