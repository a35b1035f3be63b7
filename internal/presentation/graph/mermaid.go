package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/keysort/pkg/domain"
)

// GraphOverlay marks the nodes visited by an identification.
type GraphOverlay struct {
	VisitedNodes []domain.NodeID
	CurrentNode  *domain.NodeID
}

// OverlayFrom builds an overlay from an identification result.
func OverlayFrom(id *domain.Identification) *GraphOverlay {
	if id == nil {
		return nil
	}
	overlay := &GraphOverlay{}
	for _, step := range id.Path {
		overlay.VisitedNodes = append(overlay.VisitedNodes, step.NodeID)
	}
	current := id.NodeID
	overlay.CurrentNode = &current
	return overlay
}

// GenerateMermaid produces a Mermaid flowchart of the key.
// Shapes:
// - Option (trait question): {Rhombus}
// - Leaf (item): ([Stadium])
// - Unresolved option: [/Parallelogram/]
// Edges carry the outcome label. The overlay, if given, highlights a path.
func GenerateMermaid(key *domain.Key, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	key.Walk(func(n *domain.Node, depth int) bool {
		id := mermaidID(n.ID)

		switch {
		case n.IsLeaf():
			sb.WriteString(fmt.Sprintf("    %s([\"%s\"])\n", id, escapeLabel(n.Item.Name())))
		case n.Trait == nil || !n.HasChildren():
			sb.WriteString(fmt.Sprintf("    %s[/\"%s\"/]\n", id, escapeLabel(strings.Join(domain.ItemNames(n.Possibilities), ", "))))
		default:
			sb.WriteString(fmt.Sprintf("    %s{\"%s\"}\n", id, escapeLabel(n.Trait.Name)))
			for _, outcome := range []bool{true, false} {
				child, ok := n.Child(outcome)
				if !ok {
					continue
				}
				sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", id, escapeLabel(n.Trait.Label(outcome)), mermaidID(child)))
			}
		}
		return true
	})

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visited := make(map[domain.NodeID]bool)
		for _, nid := range overlay.VisitedNodes {
			if _, ok := key.Node(nid); !ok || visited[nid] {
				continue
			}
			visited[nid] = true
			sb.WriteString(fmt.Sprintf("    class %s visited;\n", mermaidID(nid)))
		}
		if overlay.CurrentNode != nil {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", mermaidID(*overlay.CurrentNode)))
		}
	}

	return sb.String()
}

func mermaidID(id domain.NodeID) string {
	return fmt.Sprintf("n%d", id)
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
