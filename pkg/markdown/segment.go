package markdown

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/aretw0/redline/pkg/domain"
)

var parser = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// Lines carrying any of these markers make a document "structured"; so do
// interior blank lines (paragraph breaks).
var structureMarkers = []*regexp.Regexp{
	regexp.MustCompile(`^#{1,6}\s`),
	regexp.MustCompile(`^\s*[-*+]\s`),
	regexp.MustCompile(`^\s*\d+[.)]\s`),
	regexp.MustCompile("^\\s*(```|~~~)"),
	regexp.MustCompile(`^\s*>`),
}

// Segment converts a document into its ordered review items.
//
// Headings delimit sections: a heading becomes an item of its own only when
// it stands alone with no content before the next heading (or end of
// document); otherwise its text is carried on the section's items as a
// display label. List entries are one item each (nested entries included),
// paragraphs between structural breaks are one item each, and code blocks
// are a single opaque item.
//
// Plain text with no structure at all falls back to one item per non-empty
// line (a single item when the text has no line breaks).
//
// Returns domain.ErrEmptyDocument when the input has no reviewable content.
func Segment(source string) ([]domain.Item, error) {
	if strings.TrimSpace(source) == "" {
		return nil, domain.ErrEmptyDocument
	}

	if !hasStructure(source) {
		return perLineItems(source), nil
	}

	src := []byte(source)
	doc := parser.Parser().Parse(text.NewReader(src))

	w := &walker{src: src}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		w.block(n)
	}
	w.flushHeading()

	if len(w.items) == 0 {
		// Structured markers but nothing reviewable survived (e.g., only
		// thematic breaks). Fall back to raw lines before giving up.
		items := perLineItems(source)
		if len(items) == 0 {
			return nil, domain.ErrEmptyDocument
		}
		return items, nil
	}
	return w.items, nil
}

func hasStructure(source string) bool {
	lines := strings.Split(strings.TrimSpace(source), "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			return true // paragraph break
		}
		for _, re := range structureMarkers {
			if re.MatchString(line) {
				return true
			}
		}
	}
	return false
}

func perLineItems(source string) []domain.Item {
	var items []domain.Item
	for _, line := range strings.Split(source, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		items = append(items, domain.Item{
			ID:      len(items),
			Kind:    domain.KindParagraph,
			Text:    line,
			Checked: true,
		})
	}
	return items
}

// walker accumulates items while tracking the current heading section.
type walker struct {
	src     []byte
	items   []domain.Item
	pending *domain.Item // heading awaiting section content
	section string
}

// flushHeading emits the pending heading as an item if its section turned
// out to have no content of its own.
func (w *walker) flushHeading() {
	if w.pending != nil {
		w.pending.ID = len(w.items)
		w.items = append(w.items, *w.pending)
		w.pending = nil
	}
}

func (w *walker) emit(it domain.Item) {
	w.pending = nil
	it.ID = len(w.items)
	it.Checked = true
	if it.Raw == it.Text {
		it.Raw = ""
	}
	w.items = append(w.items, it)
}

func (w *walker) block(n ast.Node) {
	switch t := n.(type) {
	case *ast.Heading:
		w.flushHeading()
		txt := nodeText(t, w.src)
		w.section = txt
		w.pending = &domain.Item{
			Kind:    domain.KindHeading,
			Level:   t.Level,
			Text:    txt,
			Raw:     strings.Repeat("#", t.Level) + " " + txt,
			Checked: true,
		}
	case *ast.List:
		w.list(t)
	case *ast.FencedCodeBlock:
		w.emit(w.codeItem(t, string(t.Language(w.src))))
	case *ast.CodeBlock:
		w.emit(w.codeItem(t, ""))
	case *ast.Blockquote:
		w.emit(domain.Item{
			Kind:    domain.KindParagraph,
			Text:    nodeText(t, w.src),
			Raw:     "> " + rawLines(t, w.src),
			Section: w.section,
		})
	case *ast.ThematicBreak:
		// Not reviewable content.
	case *ast.HTMLBlock:
		raw := rawLines(t, w.src)
		if strings.TrimSpace(raw) != "" {
			w.emit(domain.Item{
				Kind:    domain.KindParagraph,
				Text:    raw,
				Section: w.section,
			})
		}
	default:
		txt := nodeText(n, w.src)
		if txt != "" {
			w.emit(domain.Item{
				Kind:    domain.KindParagraph,
				Text:    txt,
				Raw:     rawLines(n, w.src),
				Section: w.section,
			})
		}
	}
}

// list emits one item per entry, recursing into nested lists so every entry
// is independently addressable.
func (w *walker) list(l *ast.List) {
	for li := l.FirstChild(); li != nil; li = li.NextSibling() {
		var nested []*ast.List
		var b strings.Builder
		for c := li.FirstChild(); c != nil; c = c.NextSibling() {
			if sub, ok := c.(*ast.List); ok {
				nested = append(nested, sub)
				continue
			}
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(nodeText(c, w.src))
		}
		if txt := strings.TrimSpace(b.String()); txt != "" {
			w.emit(domain.Item{
				Kind:    domain.KindListItem,
				Text:    txt,
				Raw:     rawLines(li, w.src),
				Section: w.section,
			})
		}
		for _, sub := range nested {
			w.list(sub)
		}
	}
}

func (w *walker) codeItem(n ast.Node, lang string) domain.Item {
	body := rawLines(n, w.src)
	label := "[Code block]"
	fence := "```"
	if lang != "" {
		label = fmt.Sprintf("[Code: %s]", lang)
		fence = "```" + lang
	}
	return domain.Item{
		Kind:    domain.KindCode,
		Text:    label,
		Raw:     fence + "\n" + body + "\n```",
		Section: w.section,
	}
}

// nodeText collects the plain text of a node, joining soft line breaks with
// spaces so wrapped lines form a single reviewable unit.
func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		case *ast.AutoLink:
			b.Write(t.URL(src))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// rawLines reconstructs the original source lines covered by a node.
// Container nodes (lists, quotes) have no lines of their own, so descend to
// the first child that does.
func rawLines(n ast.Node, src []byte) string {
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		var b strings.Builder
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(rawLines(c, src))
		}
		return b.String()
	}
	var b strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return strings.TrimRight(b.String(), "\n")
}
