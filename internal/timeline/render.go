package timeline

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ppiankov/shiji/internal/model"
)

const (
	pageTitle    = "编年索引"
	undatedTitle = "先秦早期（年代不详）"
	undatedNav   = "先秦早期"
	chapterDir   = "../chapters/"
)

// ChapterNames maps a chapter id to its (title, file stem), as returned by
// corpus.Corpus.Titles.
type ChapterNames map[string][2]string

func (c ChapterNames) lookup(id string) (title, stem string) {
	if v, ok := c[id]; ok {
		return v[0], v[1]
	}
	return id, id
}

// Render writes the timeline page: a century navigation bar, one section per
// century and a trailing section for undated ruler keys.
func Render(w io.Writer, idx *model.TimelineIndex, names ChapterNames) error {
	refs := 0
	for _, e := range idx.Years {
		refs += len(e.Refs)
	}

	body := element(atom.Body, nil,
		element(atom.H1, nil, text(pageTitle)),
		element(atom.P, attrs("class", "index-stats"),
			text(fmt.Sprintf("共 %d 个年份，%d 次引用", len(idx.Years), refs))),
		navBar(idx),
	)

	list := element(atom.Div, attrs("class", "entity-index timeline-index"))
	byYear := make(map[int]model.TimelineEntry, len(idx.Years))
	for _, e := range idx.Years {
		byYear[*e.CEYear] = e
	}
	for _, c := range idx.Centuries {
		section := element(atom.Div, attrs("class", "letter-section", "id", c.Anchor),
			element(atom.H2, attrs("class", "letter-heading"), text(c.Label)))
		for _, y := range c.Years {
			section.AppendChild(entryNode(byYear[y], "year-"+strconv.Itoa(y), names))
		}
		list.AppendChild(section)
	}
	if len(idx.Undated) > 0 {
		section := element(atom.Div, attrs("class", "letter-section", "id", UndatedAnchor),
			element(atom.H2, attrs("class", "letter-heading"), text(undatedTitle)))
		for _, e := range idx.Undated {
			section.AppendChild(entryNode(e, "ruler-"+e.RulerKey, names))
		}
		list.AppendChild(section)
	}
	body.AppendChild(list)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(element(atom.Html, attrs("lang", "zh-CN"),
		element(atom.Head, nil,
			element(atom.Meta, attrs("charset", "UTF-8")),
			element(atom.Title, nil, text(pageTitle)),
			element(atom.Link, attrs("rel", "stylesheet", "href", "../css/timeline.css")),
		),
		body,
	))
	return html.Render(w, doc)
}

func navBar(idx *model.TimelineIndex) *html.Node {
	nav := element(atom.Div, attrs("class", "pinyin-nav"))
	for _, c := range idx.Centuries {
		nav.AppendChild(navLink(c.Anchor, c.Label, len(c.Years)))
	}
	if len(idx.Undated) > 0 {
		nav.AppendChild(navLink(UndatedAnchor, undatedNav, len(idx.Undated)))
	}
	return nav
}

func navLink(anchor, label string, count int) *html.Node {
	return element(atom.A, attrs("href", "#"+anchor, "class", "pinyin-letter"),
		text(label),
		element(atom.Span, attrs("class", "letter-count"), text(strconv.Itoa(count))))
}

func entryNode(e model.TimelineEntry, id string, names ChapterNames) *html.Node {
	left := element(atom.Div, attrs("class", "entry-left"),
		element(atom.Span, attrs("class", "canonical-name time"), text(e.Display)))
	if len(e.Labels) > 0 {
		left.AppendChild(element(atom.Span, attrs("class", "alias-list"), text(strings.Join(e.Labels, "、"))))
	}
	left.AppendChild(element(atom.Span, attrs("class", "entry-count"), text(fmt.Sprintf("(%d)", len(e.Refs)))))

	right := element(atom.Div, attrs("class", "entry-right"))
	var order []string
	byChapter := make(map[string][]model.Reference)
	for _, r := range e.Refs {
		if _, ok := byChapter[r.Chapter]; !ok {
			order = append(order, r.Chapter)
		}
		byChapter[r.Chapter] = append(byChapter[r.Chapter], r)
	}
	for i, ch := range order {
		if i > 0 {
			right.AppendChild(element(atom.Span, attrs("class", "ref-sep"), text("|")))
		}
		title, stem := names.lookup(ch)
		page := chapterDir + stem + ".html"
		right.AppendChild(element(atom.A, attrs("href", page, "class", "chapter-ref-name"), text(title)))
		for j, r := range byChapter[ch] {
			if j > 0 {
				right.AppendChild(text(","))
			}
			right.AppendChild(element(atom.A,
				attrs("href", page+"#pn-"+r.Paragraph, "class", "para-ref", "title", r.Surface+" "+r.Ruler),
				text(r.Paragraph)))
		}
	}

	return element(atom.Div, attrs("class", "entity-entry timeline-entry", "id", id), left, right)
}

func element(a atom.Atom, attr []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attr}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// attrs builds attributes from key/value pairs.
func attrs(kv ...string) []html.Attribute {
	out := make([]html.Attribute, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return out
}
