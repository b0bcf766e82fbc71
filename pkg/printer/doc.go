package printer

import (
	"strings"
	"unicode/utf8"
)

// Doc is a layout document: text with candidate line breaks.
// Documents are immutable once built.
type Doc interface {
	isDoc()
}

type textDoc string

type choiceDoc struct {
	flat, broken Doc
}

type concatDoc []Doc

type nestDoc struct {
	indent int
	doc    Doc
}

type lineDoc struct{}

func (textDoc) isDoc()   {}
func (choiceDoc) isDoc() {}
func (concatDoc) isDoc() {}
func (nestDoc) isDoc()   {}
func (lineDoc) isDoc()   {}

// Text is literal text. It must not contain line breaks.
func Text(s string) Doc { return textDoc(s) }

// Choose renders flat when it fits on the current line, broken otherwise.
// Inside a flat alternative every nested choice is flat too.
func Choose(flat, broken Doc) Doc { return choiceDoc{flat: flat, broken: broken} }

// Concat joins documents.
func Concat(docs ...Doc) Doc { return concatDoc(docs) }

// Nest indents the line breaks of doc by indent more columns.
func Nest(indent int, doc Doc) Doc { return nestDoc{indent: indent, doc: doc} }

// Line is a line break, or nothing when rendered flat.
func Line() Doc { return lineDoc{} }

// Join concatenates docs with sep between each pair.
func Join(sep Doc, docs []Doc) Doc {
	out := make(concatDoc, 0, 2*len(docs))
	for i, d := range docs {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, d)
	}
	return out
}

type frame struct {
	indent int
	flat   bool
	doc    Doc
}

// Render lays doc out within width columns, the first line starting at
// column startColumn. Choices are resolved greedily: the flat alternative is
// taken whenever it fits up to the next unavoidable line break.
func Render(doc Doc, width, startColumn int) string {
	var b strings.Builder
	column := startColumn
	stack := []frame{{doc: doc}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch d := f.doc.(type) {
		case textDoc:
			b.WriteString(string(d))
			column += utf8.RuneCountInString(string(d))
		case concatDoc:
			for i := len(d) - 1; i >= 0; i-- {
				stack = append(stack, frame{f.indent, f.flat, d[i]})
			}
		case nestDoc:
			stack = append(stack, frame{f.indent + d.indent, f.flat, d.doc})
		case lineDoc:
			if !f.flat {
				b.WriteByte('\n')
				b.WriteString(strings.Repeat(" ", f.indent))
				column = f.indent
			}
		case choiceDoc:
			flat := frame{f.indent, true, d.flat}
			if f.flat || fits(width-column, flat, stack) {
				stack = append(stack, flat)
			} else {
				stack = append(stack, frame{f.indent, false, d.broken})
			}
		}
	}
	return b.String()
}

// fits reports whether next, followed by the pending frames of rest, can be
// written in width columns before the next line break. Pending choices are
// measured by their broken alternative, the narrowest they can become.
func fits(width int, next frame, rest []frame) bool {
	work := []frame{next}
	remaining := len(rest)

	for width >= 0 {
		if len(work) == 0 {
			if remaining == 0 {
				return true
			}
			remaining--
			work = append(work, rest[remaining])
		}
		f := work[len(work)-1]
		work = work[:len(work)-1]

		switch d := f.doc.(type) {
		case textDoc:
			width -= utf8.RuneCountInString(string(d))
		case concatDoc:
			for i := len(d) - 1; i >= 0; i-- {
				work = append(work, frame{f.indent, f.flat, d[i]})
			}
		case nestDoc:
			work = append(work, frame{f.indent + d.indent, f.flat, d.doc})
		case lineDoc:
			if !f.flat {
				return true
			}
		case choiceDoc:
			if f.flat {
				work = append(work, frame{f.indent, true, d.flat})
			} else {
				work = append(work, frame{f.indent, false, d.broken})
			}
		}
	}
	return false
}
