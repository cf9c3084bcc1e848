package export

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/outliner/model"
)

// WriteHTML writes the outline as a <nav> element holding the title and a
// nested <ul> table of contents. Each entry links to "#page-N".
func WriteHTML(w io.Writer, record model.OutlineRecord) error {
	nav := element(atom.Nav, html.Attribute{Key: "class", Val: "outline"})

	if record.Title != "" {
		h1 := element(atom.H1)
		h1.AppendChild(textNode(record.Title))
		nav.AppendChild(h1)
	}

	if roots := Tree(record.Outline); len(roots) > 0 {
		nav.AppendChild(list(roots))
	}

	if err := html.Render(w, nav); err != nil {
		return fmt.Errorf("failed to render html: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// list builds a <ul> for nodes and their descendants
func list(nodes []Node) *html.Node {
	ul := element(atom.Ul)
	for _, n := range nodes {
		li := element(atom.Li, html.Attribute{Key: "class", Val: "level-" + n.Entry.Level.String()})

		a := element(atom.A, html.Attribute{Key: "href", Val: fmt.Sprintf("#page-%d", n.Entry.Page)})
		a.AppendChild(textNode(n.Entry.Text))
		li.AppendChild(a)

		if len(n.Children) > 0 {
			li.AppendChild(list(n.Children))
		}
		ul.AppendChild(li)
	}
	return ul
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
