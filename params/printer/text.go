package printer

import (
	"fmt"
	"strconv"
	"strings"
)

// printSectionText prints a section header and its params.
func (p *Printer) printSectionText(doc *sectionDoc, depth int) error {
	indent := strings.Repeat(" ", depth*p.opts.IndentSize)

	if _, err := fmt.Fprintf(p.writer, "%s[%s]\n", indent, doc.Path); err != nil {
		return err
	}
	for _, prm := range doc.Params {
		if err := p.printParamText(prm, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// printParamText prints one param line:
//
//	name (kind) = value unit [min, max]
func (p *Printer) printParamText(doc paramDoc, depth int) error {
	indent := strings.Repeat(" ", depth*p.opts.IndentSize)

	var b strings.Builder
	b.WriteString(indent)
	b.WriteString(doc.Name)
	if doc.Kind != "" {
		fmt.Fprintf(&b, " (%s)", doc.Kind)
	}
	b.WriteString(" = ")

	switch v := doc.Value.(type) {
	case float64:
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		if doc.Unit != "" {
			b.WriteString(" " + doc.Unit)
		}
	case string:
		b.WriteString(strconv.Quote(v))
	}

	if doc.Min != nil && doc.Max != nil {
		fmt.Fprintf(&b, " [%s, %s]",
			strconv.FormatFloat(*doc.Min, 'g', -1, 64),
			strconv.FormatFloat(*doc.Max, 'g', -1, 64))
	}
	if len(doc.In) > 0 {
		fmt.Fprintf(&b, " in {%s}", strings.Join(doc.In, ", "))
	}
	if doc.Formula != "" {
		fmt.Fprintf(&b, " <- %s", doc.Formula)
	}
	b.WriteString("\n")

	_, err := p.writer.Write([]byte(b.String()))
	return err
}

// printTreeText recursively prints a subtree in text format.
func (p *Printer) printTreeText(doc *sectionDoc, depth int) error {
	if err := p.printSectionText(doc, depth); err != nil {
		return err
	}
	for _, child := range doc.Sections {
		// Add blank line between sections for readability
		if _, err := fmt.Fprintln(p.writer); err != nil {
			return err
		}
		if err := p.printTreeText(child, depth+1); err != nil {
			return err
		}
	}
	return nil
}
