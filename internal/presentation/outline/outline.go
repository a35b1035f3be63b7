// Package outline renders a built key as an indented pre-order outline.
package outline

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/keysort/pkg/domain"
)

const indentUnit = "  "

// style controls how each line of the outline is laid out.
type style struct {
	prefix func(depth int) string
	item   func(name string) string
}

var (
	textStyle = style{
		prefix: func(depth int) string { return strings.Repeat(indentUnit, depth) },
		item:   func(name string) string { return name },
	}
	markdownStyle = style{
		prefix: func(depth int) string { return strings.Repeat(indentUnit, depth) + "- " },
		item:   func(name string) string { return "*" + name + "*" },
	}
)

// Render writes the key to w. For an option node it prints the trait with its
// true label, the true branch, the trait with its false label, then the false
// branch. Leaves print the item name.
func Render(w io.Writer, key *domain.Key) error {
	return render(w, key, textStyle)
}

// String renders the key to a string.
func String(key *domain.Key) string {
	var sb strings.Builder
	_ = Render(&sb, key)
	return sb.String()
}

// Markdown renders the same outline as a nested markdown list.
func Markdown(key *domain.Key) string {
	var sb strings.Builder
	_ = render(&sb, key, markdownStyle)
	return sb.String()
}

func render(w io.Writer, key *domain.Key, s style) error {
	if key.Root() == nil {
		return nil
	}
	r := &renderer{w: w, key: key, style: s}
	r.node(domain.RootID, 0)
	return r.err
}

type renderer struct {
	w     io.Writer
	key   *domain.Key
	style style
	err   error
}

func (r *renderer) line(depth int, text string) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, "%s%s\n", r.style.prefix(depth), text)
}

func (r *renderer) node(id domain.NodeID, depth int) {
	n, ok := r.key.Node(id)
	if !ok {
		r.line(depth, fmt.Sprintf("(missing node %d)", id))
		return
	}

	if n.IsLeaf() {
		r.line(depth, r.style.item(n.Item.Name()))
		return
	}

	if n.Trait == nil || !n.HasChildren() {
		switch len(n.Possibilities) {
		case 0:
			r.line(depth, "(none)")
		case 1:
			r.line(depth, r.style.item(n.Possibilities[0].Name()))
		default:
			r.line(depth, "unresolved: "+strings.Join(domain.ItemNames(n.Possibilities), ", "))
		}
		return
	}

	for _, outcome := range []bool{true, false} {
		r.line(depth, n.Trait.Name+": "+n.Trait.Label(outcome))
		if child, ok := n.Child(outcome); ok {
			r.node(child, depth+1)
		} else {
			r.line(depth+1, "(none)")
		}
	}
}
