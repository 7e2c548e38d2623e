package diag

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
)

const unnamedSource = "<input>"

// Formatter formats diagnostics in a Rust-style format with source code snippets.
type Formatter struct {
	w       io.Writer
	sources map[string]string // source text by filename; "" is unnamed input

	severityColors map[Severity]*color.Color
	primary        *color.Color
	secondary      *color.Color
	gutter         *color.Color
	bold           *color.Color
}

// NewFormatter creates a formatter writing to w. Colors are emitted only when
// useColor is set.
func NewFormatter(w io.Writer, useColor bool) *Formatter {
	f := &Formatter{
		w:       w,
		sources: make(map[string]string),
		severityColors: map[Severity]*color.Color{
			SeverityError:   color.New(color.FgRed, color.Bold),
			SeverityWarning: color.New(color.FgYellow, color.Bold),
			SeverityNote:    color.New(color.FgCyan, color.Bold),
		},
		primary:   color.New(color.FgRed, color.Bold),
		secondary: color.New(color.FgBlue),
		gutter:    color.New(color.FgBlue, color.Bold),
		bold:      color.New(color.Bold),
	}

	all := []*color.Color{f.primary, f.secondary, f.gutter, f.bold}
	for _, c := range f.severityColors {
		all = append(all, c)
	}
	for _, c := range all {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return f
}

// AddSource registers the text spans in filename refer to.
func (f *Formatter) AddSource(filename, src string) {
	f.sources[filename] = src
}

// Format writes one diagnostic.
func (f *Formatter) Format(d Diagnostic) {
	spans := f.collectSpans(d)
	if len(spans) == 0 {
		f.formatSimple(d)
		return
	}

	spansByFile := make(map[string][]LabeledSpan)
	var files []string
	for _, span := range spans {
		name := span.Span.Filename
		if _, seen := spansByFile[name]; !seen {
			files = append(files, name)
		}
		spansByFile[name] = append(spansByFile[name], span)
	}

	f.printHeader(d)

	for _, name := range files {
		src, ok := f.sources[name]
		if !ok {
			f.printLocation(d.Span)
			continue
		}
		f.printFileSpans(name, src, spansByFile[name])
	}

	f.printHelp(d)
}

// collectSpans collects all spans from the diagnostic, prioritizing LabeledSpans.
func (f *Formatter) collectSpans(d Diagnostic) []LabeledSpan {
	if len(d.LabeledSpans) > 0 {
		return d.LabeledSpans
	}
	if d.Span.IsValid() {
		return []LabeledSpan{{Span: d.Span, Style: "primary"}}
	}
	return nil
}

// printHeader prints the error header (error[CODE]: message).
func (f *Formatter) printHeader(d Diagnostic) {
	severity := d.Severity
	if severity == "" {
		severity = SeverityError
	}
	c, ok := f.severityColors[severity]
	if !ok {
		c = f.severityColors[SeverityError]
	}

	if d.Code != "" {
		fmt.Fprintf(f.w, "%s: %s\n", c.Sprintf("%s[%s]", severity, d.Code), f.bold.Sprint(d.Message))
	} else {
		fmt.Fprintf(f.w, "%s: %s\n", c.Sprint(severity), f.bold.Sprint(d.Message))
	}
}

func (f *Formatter) printLocation(span Span) {
	if span.IsValid() {
		fmt.Fprintf(f.w, "  %s %s\n", f.gutter.Sprint("-->"), span.String())
	}
}

// printFileSpans prints source code with underlines for spans in a file.
func (f *Formatter) printFileSpans(filename string, src string, spans []LabeledSpan) {
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Span.Line != spans[j].Span.Line {
			return spans[i].Span.Line < spans[j].Span.Line
		}
		return spans[i].Span.Column < spans[j].Span.Column
	})

	lines := strings.Split(src, "\n")
	maxLine := len(lines)

	spansByLine := make(map[int][]LabeledSpan)
	for _, span := range spans {
		line := span.Span.Line
		if line > 0 && line <= maxLine {
			spansByLine[line] = append(spansByLine[line], span)
		}
	}

	lineNumbers := make([]int, 0, len(spansByLine))
	for line := range spansByLine {
		lineNumbers = append(lineNumbers, line)
	}
	sort.Ints(lineNumbers)

	if len(lineNumbers) == 0 {
		return
	}

	// One line of context around the reported lines.
	contextStart := max(1, lineNumbers[0]-1)
	contextEnd := min(maxLine, lineNumbers[len(lineNumbers)-1]+1)

	lineNumWidth := len(fmt.Sprintf("%d", contextEnd))
	pad := strings.Repeat(" ", lineNumWidth)

	if filename == "" {
		filename = unnamedSource
	}
	first := spans[0].Span
	fmt.Fprintf(f.w, "  %s %s:%d:%d\n", f.gutter.Sprint("-->"), filename, first.Line, first.Column)
	fmt.Fprintf(f.w, " %s %s\n", pad, f.gutter.Sprint("|"))

	for lineNum := contextStart; lineNum <= contextEnd; lineNum++ {
		lineSpans := spansByLine[lineNum]
		if len(lineSpans) == 0 && lineNum != contextStart && lineNum != contextEnd {
			continue
		}
		lineContent := strings.TrimRight(lines[lineNum-1], "\r")

		fmt.Fprintf(f.w, " %s %s %s\n", f.gutter.Sprintf("%*d", lineNumWidth, lineNum), f.gutter.Sprint("|"), lineContent)

		if len(lineSpans) > 0 {
			f.printUnderlines(pad, lineContent, lineSpans)
		}
	}

	fmt.Fprintf(f.w, " %s %s\n", pad, f.gutter.Sprint("|"))
}

// printUnderlines prints underlines (^ primary, - secondary) for spans on a line.
func (f *Formatter) printUnderlines(pad string, lineContent string, spans []LabeledSpan) {
	// One extra cell so a span at end of line (e.g. EOF) stays visible.
	marks := make([]byte, len(lineContent)+1)
	for i := range marks {
		marks[i] = ' '
	}

	mark := func(span LabeledSpan, ch byte) {
		start := max(0, span.Span.Column-1)
		end := min(len(marks), start+max(1, span.Span.End-span.Span.Start))
		for i := start; i < end; i++ {
			if marks[i] == ' ' {
				marks[i] = ch
			}
		}
	}
	for _, span := range spans {
		if span.Style == "primary" {
			mark(span, '^')
		}
	}
	for _, span := range spans {
		if span.Style != "primary" {
			mark(span, '-')
		}
	}

	rightmost := strings.LastIndexFunc(string(marks), func(r rune) bool { return r != ' ' })
	if rightmost == -1 {
		return
	}

	var b strings.Builder
	for _, m := range marks[:rightmost+1] {
		switch m {
		case '^':
			b.WriteString(f.primary.Sprint("^"))
		case '-':
			b.WriteString(f.secondary.Sprint("-"))
		default:
			b.WriteByte(m)
		}
	}

	var labels []string
	for _, span := range spans {
		if span.Label == "" {
			continue
		}
		if span.Style == "primary" {
			labels = append([]string{f.primary.Sprint(span.Label)}, labels...)
		} else {
			labels = append(labels, f.secondary.Sprint(span.Label))
		}
	}

	fmt.Fprintf(f.w, " %s %s %s", pad, f.gutter.Sprint("|"), b.String())
	if len(labels) > 0 {
		fmt.Fprintf(f.w, " %s", strings.Join(labels, "; "))
	}
	fmt.Fprintln(f.w)
}

// printHelp prints notes and help text.
func (f *Formatter) printHelp(d Diagnostic) {
	for _, note := range d.Notes {
		fmt.Fprintf(f.w, "  %s note: %s\n", f.gutter.Sprint("="), note)
	}
	if d.Help != "" {
		fmt.Fprintf(f.w, "%s: %s\n", f.bold.Sprint("help"), d.Help)
	}
}

// formatSimple formats a diagnostic without source code (fallback).
func (f *Formatter) formatSimple(d Diagnostic) {
	f.printHeader(d)
	f.printLocation(d.Span)
	f.printHelp(d)
}
