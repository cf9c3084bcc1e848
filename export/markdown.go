package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/tsawler/outliner/model"
)

// markdownEscaper escapes characters that would otherwise start markup
var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"`", "\\`",
)

// WriteMarkdown writes the title as a level one heading followed by the
// outline as a nested bullet list
func WriteMarkdown(w io.Writer, record model.OutlineRecord) error {
	bw := bufio.NewWriter(w)

	if record.Title != "" {
		fmt.Fprintf(bw, "# %s\n\n", markdownEscaper.Replace(record.Title))
	}

	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			indent := strings.Repeat("  ", n.Depth)
			fmt.Fprintf(bw, "%s- %s (p. %d)\n", indent, markdownEscaper.Replace(n.Entry.Text), n.Entry.Page)
			walk(n.Children)
		}
	}
	walk(Tree(record.Outline))

	return bw.Flush()
}
