package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/techcollege/portal/cli/tui/styles"
)

const rootCrumb = "Портал"

// Breadcrumb shows where a view sits, for example "Портал → Расписание → ИС-21".
// The last item is the active one.
type Breadcrumb struct {
	Width int
	Items []string
}

func NewBreadcrumb(items ...string) Breadcrumb {
	return Breadcrumb{Items: append([]string{rootCrumb}, items...)}
}

// Push appends a level.
func (b *Breadcrumb) Push(label string) {
	b.Items = append(b.Items, label)
}

// Pop removes the deepest level but never the root.
func (b *Breadcrumb) Pop() {
	if len(b.Items) > 1 {
		b.Items = b.Items[:len(b.Items)-1]
	}
}

// Depth counts levels below the root.
func (b *Breadcrumb) Depth() int {
	return max(0, len(b.Items)-1)
}

// View renders the trail, dropping leading levels when it does not fit.
func (b *Breadcrumb) View() string {
	if len(b.Items) == 0 {
		return ""
	}
	items := b.Items
	trail := b.render(items)
	for b.Width > 0 && lipgloss.Width(trail) > b.Width-1 && len(items) > 1 {
		items = items[1:]
		trail = "…" + b.render(items)
	}
	return trail
}

func (b *Breadcrumb) render(items []string) string {
	parts := make([]string, 0, len(items))
	for i, item := range items {
		if i == len(items)-1 {
			parts = append(parts, styles.BreadcrumbActiveStyle.Render(item))
			continue
		}
		parts = append(parts, styles.BreadcrumbStyle.Render(item))
	}
	return strings.Join(parts, styles.BreadcrumbStyle.Render(" → "))
}
