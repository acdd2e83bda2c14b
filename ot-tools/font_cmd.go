package main

import (
	"fmt"
	"strings"

	"github.com/npillmayer/otmetrics/ot"
	"github.com/npillmayer/otmetrics/otquery"
	"github.com/thatisuday/commando"
)

func runFontCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	fontPath := strings.TrimSpace(args["font"].Value)
	if fontPath == "" {
		fatalf("font path is required")
	}
	otf, sf := mustLoadFont(fontPath)

	fmt.Printf("Path: %s\n", fontPath)
	fmt.Printf("Name: %s\n", sf.Fontname)
	family, subfamily := otquery.FamilyName(otf)
	if family != "" {
		fmt.Printf("Family: %s\n", family)
	}
	if subfamily != "" {
		fmt.Printf("Subfamily: %s\n", subfamily)
	}
	if maxp, ok := otquery.MaxPInfo(otf); ok {
		outlines := "CFF"
		if maxp.TrueType() {
			outlines = "TrueType"
		}
		fmt.Printf("Outlines: %s\n", outlines)
	}
	if head, ok := otquery.HeadInfo(otf); ok {
		fmt.Printf("Modified: %s\n", head.Modified.Format("2006-01-02"))
	}

	tags := otf.TableTags()
	fmt.Printf("Tables (%d):", len(tags))
	for _, tag := range tags {
		fmt.Printf(" %s", tag.String())
	}
	fmt.Println()

	m := otquery.FontMetrics(otf)
	fmt.Printf("Metrics: upem=%d ascent=%d descent=%d linegap=%d\n",
		m.UnitsPerEm, m.Ascent, m.Descent, m.LineGap)
	fmt.Printf("Glyphs: %d, long metrics: %d, cmap groups: %d\n",
		otf.NumGlyphs(), otf.NumberOfHMetrics(), otf.CMap.GroupCount())

	errs := otf.Errors()
	warns := otf.Warnings()
	crit := otf.CriticalErrors()
	fmt.Printf("Issues: errors=%d warnings=%d critical=%d\n", len(errs), len(warns), len(crit))

	if len(args["tables"].Value) > 0 {
		printSelectedTables(otf, args["tables"].Value)
	}
	if mustFlagBool(flags["errors"], "errors") {
		for _, e := range errs {
			fmt.Printf("error: %s\n", e.Error())
		}
		for _, w := range warns {
			fmt.Printf("warning: %s\n", w.String())
		}
	}
}

func printSelectedTables(otf *ot.Font, raw string) {
	requested := splitCSVSpace(raw)
	for _, t := range requested {
		tagName := strings.TrimSpace(t)
		if tagName == "" {
			continue
		}
		tag := ot.T(tagName)
		table := otf.Table(tag)
		if table == nil {
			fmt.Printf("table %s: missing\n", tagName)
			continue
		}
		off, size := table.Extent()
		fmt.Printf("table %s: offset=%d size=%d\n", tagName, off, size)
	}
}
