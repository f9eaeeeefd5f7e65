package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/specialistvlad/tracegraph/internal/metatype"
)

type treeStyles struct {
	key    lipgloss.Style
	detail lipgloss.Style
	branch lipgloss.Style
}

func newTreeStyles(colored bool) treeStyles {
	if !colored {
		return treeStyles{}
	}
	return treeStyles{
		key:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		detail: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		branch: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

// label renders one metatype line: key, display name and the details that
// tell siblings apart.
func (s treeStyles) label(mt *metatype.Metatype) string {
	var details []string
	if aliases := mt.AllAliases(); len(aliases) > 0 && !mt.IsSubtype() {
		details = append(details, "ops="+strings.Join(aliases, ","))
	}
	if role := mt.Role.String(); role != "" {
		details = append(details, "role="+role)
	}
	if traits := mt.Traits.Names(); len(traits) > 0 {
		details = append(details, "traits="+strings.Join(traits, ","))
	}
	if len(mt.HWConfigNames) > 0 {
		details = append(details, "hw="+strings.Join(mt.HWConfigNames, ","))
	}

	out := s.key.Render(mt.Key) + " " + mt.Name
	if len(details) > 0 {
		out += " " + s.detail.Render("("+strings.Join(details, " ")+")")
	}
	return out
}

func (s treeStyles) subtree(mt *metatype.Metatype) *tree.Tree {
	t := tree.Root(s.label(mt)).EnumeratorStyle(s.branch)
	for _, st := range mt.Subtypes {
		if len(st.Subtypes) == 0 {
			t.Child(s.label(st))
			continue
		}
		t.Child(s.subtree(st))
	}
	return t
}

// Metatypes prints the registry as a tree of root metatypes and their
// subtypes. Colors are used only when colored is set.
func (a *App) Metatypes(w io.Writer, colored bool) error {
	styles := newTreeStyles(colored)
	roots := a.registry.Roots()
	for _, mt := range roots {
		if _, err := fmt.Fprintln(w, styles.subtree(mt).String()); err != nil {
			return err
		}
	}
	a.logger.Debug("Metatype tree printed.", "roots", len(roots), "metatypes", a.registry.Len())
	return nil
}
