package cmdtree

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/napalu/cmdtree/util"
)

// Renderer turns the errors of a failed or short-circuited parse into user facing text
type Renderer interface {
	Render(w io.Writer, errs CliErrors, reg *Registry, cfg Config) error
}

type DefaultRenderer struct {
	// Terminal is queried for the output width; nil always uses util.DefaultWidth
	Terminal util.Terminal
}

func NewRenderer() *DefaultRenderer {
	return &DefaultRenderer{Terminal: util.DefaultTerminal{}}
}

// Render prints a version line, a help page or one line per error
func (r *DefaultRenderer) Render(w io.Writer, errs CliErrors, reg *Registry, cfg Config) error {
	first := errs.First()
	if first == nil {
		return nil
	}

	switch first.Kind {
	case ErrorVersionRequested:
		_, err := fmt.Fprintln(w, strings.TrimSpace(cfg.Name+" "+cfg.Version))
		return err
	case ErrorHelpRequested:
		return r.Help(w, first.Command, reg, cfg)
	}

	var sb strings.Builder
	for _, e := range errs {
		sb.WriteString("error: ")
		sb.WriteString(e.Error())
		sb.WriteString("\n")
	}
	if cfg.HelpCommand {
		hint := helpName
		if cfg.Name != "" {
			hint = cfg.Name + " " + hint
		}
		if cmd := first.Command; cmd != nil {
			hint += " " + cmd.Path()
		}
		fmt.Fprintf(&sb, "run '%s' for usage\n", hint)
	}
	_, err := io.WriteString(w, sb.String())

	return err
}

// Help prints the help page of node, or of the application when node is nil
func (r *DefaultRenderer) Help(w io.Writer, node *CommandNode, reg *Registry, cfg Config) error {
	width := util.TerminalWidth(r.Terminal, w)
	var sb strings.Builder

	sb.WriteString("Usage: ")
	sb.WriteString(r.usageLine(node, cfg))
	sb.WriteString("\n")

	description := cfg.Description
	children := reg.Roots()
	if node != nil {
		description = node.desc.Description
		children = node.Children()
	}
	if description != "" {
		sb.WriteString("\n")
		sb.WriteString(util.Wrap(description, width, 0))
		sb.WriteString("\n")
	}

	var rows [][2]string
	for _, c := range Sorted(children) {
		if c.desc.Hidden {
			continue
		}
		rows = append(rows, [2]string{r.CommandUsage(c), c.desc.Description})
	}
	r.section(&sb, "Commands", rows, width)

	if node != nil {
		rows = rows[:0]
		for _, o := range sortedOptions(node.desc.Options) {
			rows = append(rows, [2]string{r.FlagUsage(o), r.flagDetails(o)})
		}
		r.section(&sb, "Options", rows, width)

		rows = rows[:0]
		for _, v := range node.desc.Values {
			if v.Hidden {
				continue
			}
			rows = append(rows, [2]string{v.String(), r.valueDetails(v)})
		}
		r.section(&sb, "Values", rows, width)
	}
	_, err := io.WriteString(w, sb.String())

	return err
}

// FlagUsage returns the aliases of an option as they are typed, for example "-t, --target <string>"
func (r *DefaultRenderer) FlagUsage(o *OptionDescriptor) string {
	var names []string
	for _, s := range o.ShortAliases {
		names = append(names, "-"+string(s))
	}
	for _, l := range o.Longs() {
		names = append(names, "--"+l)
	}
	usage := strings.Join(names, ", ")
	if !o.IsFlag() && o.Type != nil {
		t := o.Type
		if o.IsEnumerable() {
			t = t.Elem()
		}
		usage += " <" + t.String() + ">"
	}

	return usage
}

// CommandUsage returns the name of a command followed by its aliases
func (r *DefaultRenderer) CommandUsage(n *CommandNode) string {
	return strings.Join(append([]string{n.desc.Name}, n.desc.Aliases...), ", ")
}

func (r *DefaultRenderer) flagDetails(o *OptionDescriptor) string {
	details := o.Description
	if o.IsEnumerable() {
		details += " (repeatable)"
	}
	if o.HasDefault() {
		details += fmt.Sprintf(" (default: %v)", o.defaultValue.Interface())
	} else if o.Required {
		details += " (required)"
	}

	return strings.TrimSpace(details)
}

func (r *DefaultRenderer) valueDetails(v *ValueDescriptor) string {
	details := v.Description
	if v.HasDefault() {
		details += fmt.Sprintf(" (default: %v)", v.defaultValue.Interface())
	} else if v.Required {
		details += " (required)"
	}

	return strings.TrimSpace(details)
}

func (r *DefaultRenderer) usageLine(node *CommandNode, cfg Config) string {
	parts := []string{cfg.Name}
	if node == nil {
		parts = append(parts, "<command>")
		return strings.TrimSpace(strings.Join(parts, " "))
	}

	parts = append(parts, node.Path())
	if node.HasChildren() {
		parts = append(parts, "<command>")
	}
	if len(node.desc.Options) > 0 {
		parts = append(parts, "[options]")
	}
	for _, v := range node.desc.Values {
		if v.Hidden {
			continue
		}
		name := v.String()
		if v.IsEnumerable() {
			name += "..."
		}
		if !v.Required {
			name = "[" + name + "]"
		}
		parts = append(parts, name)
	}

	return strings.TrimSpace(strings.Join(parts, " "))
}

func (r *DefaultRenderer) section(sb *strings.Builder, title string, rows [][2]string, width int) {
	if len(rows) == 0 {
		return
	}
	col := 0
	for _, row := range rows {
		if len(row[0]) > col {
			col = len(row[0])
		}
	}
	indent := col + 4

	fmt.Fprintf(sb, "\n%s:\n", title)
	for _, row := range rows {
		line := "  " + row[0]
		if row[1] != "" {
			line += strings.Repeat(" ", indent-len(line)) + util.Wrap(row[1], width, indent)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}

func sortedOptions(opts []*OptionDescriptor) []*OptionDescriptor {
	out := make([]*OptionDescriptor, len(opts))
	copy(out, opts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].HelpOrder < out[j].HelpOrder
	})

	return out
}
