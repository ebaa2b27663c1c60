package ui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/x/ansi"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var markdownParser = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
).Parser()

// highlightCode applies syntax highlighting to code using chroma
func highlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(CurrentTheme().CodeStyle)
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return strings.TrimRight(buf.String(), "\n")
}

// RenderMarkdown renders assistant Markdown as styled terminal text
// wrapped to width.
func RenderMarkdown(content string, width int) string {
	if width <= 0 {
		width = DefaultWrapWidth
	}
	src := []byte(content)
	doc := markdownParser.Parse(text.NewReader(src))
	r := &mdRenderer{src: src}
	return strings.Join(r.blocks(doc, width), "\n\n")
}

type mdRenderer struct {
	src []byte
}

func (r *mdRenderer) blocks(parent ast.Node, width int) []string {
	var out []string
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if s := r.block(n, width); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (r *mdRenderer) block(n ast.Node, width int) string {
	switch n := n.(type) {
	case *ast.Heading:
		style := MarkdownH4Style
		switch n.Level {
		case 1:
			style = MarkdownH1Style
		case 2:
			style = MarkdownH2Style
		case 3:
			style = MarkdownH3Style
		}
		return ansi.Wordwrap(style.Render(r.inline(n)), width, "")

	case *ast.Paragraph, *ast.TextBlock:
		return ansi.Wordwrap(r.inline(n), width, "")

	case *ast.FencedCodeBlock:
		lang := string(n.Language(r.src))
		return ansi.Hardwrap(highlightCode(r.lines(n), lang), width, true)

	case *ast.CodeBlock:
		return ansi.Hardwrap(highlightCode(r.lines(n), ""), width, true)

	case *ast.List:
		return r.list(n, width)

	case *ast.Blockquote:
		inner := strings.Join(r.blocks(n, width-2), "\n\n")
		return MarkdownBlockquoteStyle.Render(inner)

	case *ast.ThematicBreak:
		return MarkdownHRStyle.Render(strings.Repeat("─", width))

	case *ast.HTMLBlock:
		return strings.TrimRight(r.lines(n), "\n")

	case *east.Table:
		return r.table(n, width)

	default:
		return ansi.Wordwrap(r.inline(n), width, "")
	}
}

func (r *mdRenderer) list(l *ast.List, width int) string {
	var items []string
	i := 0
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		bullet := "• "
		if l.IsOrdered() {
			bullet = fmt.Sprintf("%d. ", l.Start+i)
		}
		indent := ansi.StringWidth(bullet)

		sep := "\n\n"
		if l.IsTight {
			sep = "\n"
		}
		body := strings.Join(r.blocks(item, max(1, width-indent)), sep)

		lines := strings.Split(body, "\n")
		for j, line := range lines {
			if j == 0 {
				lines[j] = MarkdownListBulletStyle.Render(bullet) + line
			} else if line != "" {
				lines[j] = strings.Repeat(" ", indent) + line
			}
		}
		items = append(items, strings.Join(lines, "\n"))
		i++
	}
	if l.IsTight {
		return strings.Join(items, "\n")
	}
	return strings.Join(items, "\n\n")
}

func (r *mdRenderer) table(t *east.Table, width int) string {
	var rows []string
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, r.inline(cell))
		}
		line := strings.Join(cells, " │ ")
		if _, ok := row.(*east.TableHeader); ok {
			line = MarkdownBoldStyle.Render(line)
			rows = append(rows, ansi.Truncate(line, width, "…"))
			rows = append(rows, MarkdownHRStyle.Render(strings.Repeat("─", min(width, ansi.StringWidth(line)))))
			continue
		}
		rows = append(rows, ansi.Truncate(line, width, "…"))
	}
	return strings.Join(rows, "\n")
}

// inline renders the inline children of n into a single styled string.
func (r *mdRenderer) inline(n ast.Node) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			sb.Write(c.Segment.Value(r.src))
			switch {
			case c.HardLineBreak():
				sb.WriteString("\n")
			case c.SoftLineBreak():
				sb.WriteString(" ")
			}
		case *ast.String:
			sb.Write(c.Value)
		case *ast.Emphasis:
			if c.Level >= 2 {
				sb.WriteString(MarkdownBoldStyle.Render(r.inline(c)))
			} else {
				sb.WriteString(MarkdownItalicStyle.Render(r.inline(c)))
			}
		case *ast.CodeSpan:
			sb.WriteString(MarkdownInlineCodeStyle.Render(r.plain(c)))
		case *ast.Link:
			label := r.inline(c)
			dest := string(c.Destination)
			sb.WriteString(MarkdownLinkStyle.Render(label))
			if dest != "" && ansi.Strip(label) != dest {
				sb.WriteString(" (" + dest + ")")
			}
		case *ast.AutoLink:
			sb.WriteString(MarkdownLinkStyle.Render(string(c.URL(r.src))))
		case *ast.Image:
			sb.WriteString("[image: " + r.plain(c) + "]")
		case *ast.RawHTML:
			for i := 0; i < c.Segments.Len(); i++ {
				seg := c.Segments.At(i)
				sb.Write(seg.Value(r.src))
			}
		case *east.Strikethrough:
			sb.WriteString(MarkdownStrikeStyle.Render(r.inline(c)))
		case *east.TaskCheckBox:
			if c.IsChecked {
				sb.WriteString("[x] ")
			} else {
				sb.WriteString("[ ] ")
			}
		default:
			sb.WriteString(r.inline(c))
		}
	}
	return sb.String()
}

// plain returns the unstyled text of n's descendants.
func (r *mdRenderer) plain(n ast.Node) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			sb.Write(c.Segment.Value(r.src))
		case *ast.String:
			sb.Write(c.Value)
		default:
			sb.WriteString(r.plain(c))
		}
	}
	return sb.String()
}

// lines returns the raw source lines of a block node.
func (r *mdRenderer) lines(n ast.Node) string {
	var sb strings.Builder
	l := n.Lines()
	for i := 0; i < l.Len(); i++ {
		seg := l.At(i)
		sb.Write(seg.Value(r.src))
	}
	return strings.TrimRight(sb.String(), "\n")
}
