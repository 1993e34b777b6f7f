package xbrl

import (
	"strings"
	"testing"
)

func TestReducePassthrough(t *testing.T) {
	doc := "<xbrl>\n<fsa:Revenue contextRef=\"c\">1</fsa:Revenue>\n</xbrl>"
	if got := Reduce(doc); got != doc {
		t.Error("Expected a small document to pass through unchanged")
	}
}

func TestReduceOversized(t *testing.T) {
	var lines []string
	lines = append(lines, "<xbrl>")
	for i := 1; i < preambleLines; i++ {
		lines = append(lines, `<xbrli:context id="c"><xbrli:period><xbrli:instant>2023-12-31</xbrli:instant></xbrli:period></xbrli:context>`)
	}
	for i := 0; i < 400; i++ {
		lines = append(lines, "<p>decorative narrative text</p>")
		lines = append(lines, `<fsa:ProfitLoss contextRef="c" unitRef="u">5</fsa:ProfitLoss>`)
	}
	lines = append(lines, "</xbrl>")
	doc := strings.Join(lines, "\n")

	reduced := Reduce(doc)
	got := strings.Split(reduced, "\n")

	if len(got) != preambleLines+400+1 {
		t.Errorf("Expected %d lines, got %d", preambleLines+400+1, len(got))
	}
	if got[0] != "<xbrl>" {
		t.Errorf("Expected the preamble to survive, first line is %q", got[0])
	}
	if got[len(got)-1] != "</xbrl>" {
		t.Errorf("Expected the closing root to survive, last line is %q", got[len(got)-1])
	}
	if strings.Contains(reduced, "decorative") {
		t.Error("Expected narrative lines after the preamble to be dropped")
	}
	if !strings.Contains(reduced, "fsa:ProfitLoss") {
		t.Error("Expected fact lines to be kept")
	}
}

func TestReduceFactLineCap(t *testing.T) {
	var lines []string
	for i := 0; i < preambleLines; i++ {
		lines = append(lines, "<!-- preamble -->")
	}
	for i := 0; i < factLineCap+200; i++ {
		lines = append(lines, `<fsa:Assets contextRef="c">1</fsa:Assets>`)
	}
	lines = append(lines, "</xbrl>")

	reduced := strings.Split(Reduce(strings.Join(lines, "\n")), "\n")
	if len(reduced) != preambleLines+factLineCap+1 {
		t.Errorf("Expected fact lines capped at %d, got %d total lines", factLineCap, len(reduced))
	}
}
