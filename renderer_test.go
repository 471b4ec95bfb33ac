package cmdtree

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, reg *Registry, cfg Config, cerrs CliErrors) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewRenderer().Render(&buf, cerrs, reg, cfg))

	return buf.String()
}

func TestRenderer_Help(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Name = "demo"
	cfg.Description = "builds and ships things"
	reg := treeRegistry(t, cfg)
	mustRegister(t, reg, mustCommand(t, "internal", SetHidden(true)), Executor{})
	build, _ := reg.Lookup("build")
	remote, _ := reg.Lookup("remote")
	add, _ := reg.Lookup("remote add")

	tests := []struct {
		name string
		node *CommandNode
		want string
	}{
		{
			name: "application",
			want: "Usage: demo <command>\n" +
				"\n" +
				"builds and ships things\n" +
				"\n" +
				"Commands:\n" +
				"  build, b\n" +
				"  remote, r\n" +
				"  config\n",
		},
		{
			name: "command with options",
			node: build,
			want: "Usage: demo build [options] [FILES...]\n" +
				"\n" +
				"Options:\n" +
				"  -t, --target <string>  target platform (required)\n" +
				"  -T, --tag <string>     (repeatable)\n" +
				"  -v, --verbose\n" +
				"  -j, --jobs <int>       (default: 1)\n" +
				"\n" +
				"Values:\n" +
				"  FILES\n",
		},
		{
			name: "group",
			node: remote,
			want: "Usage: demo remote <command>\n" +
				"\n" +
				"Commands:\n" +
				"  list, ls\n" +
				"  add\n",
		},
		{
			name: "required values",
			node: add,
			want: "Usage: demo remote add NAME URL\n" +
				"\n" +
				"Values:\n" +
				"  NAME  (required)\n" +
				"  URL   (required)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render(t, reg, cfg, CliErrors{{Kind: ErrorHelpRequested, Command: tt.node}})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderer_HelpOrder(t *testing.T) {
	reg := NewRegistry(DefaultConfig())
	mustRegister(t, reg, mustCommand(t, "zeta", SetExecutable(true), WithCommandDescription("last letter"),
		WithOption(NewOption("late", WithHelpOrder(2), WithDescription("shown last"))),
		WithOption(NewOption("early", WithHelpOrder(1), WithDescription("shown first")))), Func(noop))
	mustRegister(t, reg, mustCommand(t, "alpha", SetExecutable(true), WithCommandHelpOrder(-1),
		WithCommandDescription("first letter")), Func(noop))

	got := render(t, reg, DefaultConfig(), CliErrors{{Kind: ErrorHelpRequested}})
	assert.Equal(t, "Usage: <command>\n\nCommands:\n  alpha  first letter\n  zeta   last letter\n", got)

	zeta, _ := reg.Lookup("zeta")
	got = render(t, reg, DefaultConfig(), CliErrors{{Kind: ErrorHelpRequested, Command: zeta}})
	assert.Equal(t, "Usage: zeta [options]\n\nlast letter\n\nOptions:\n"+
		"  --early <string>  shown first\n"+
		"  --late <string>   shown last\n", got)
}

func TestRenderer_Wrap(t *testing.T) {
	reg := NewRegistry(DefaultConfig())
	long := strings.Repeat("lorem ipsum dolor sit amet ", 8)
	mustRegister(t, reg, mustCommand(t, "cmd", SetExecutable(true),
		WithOption(NewOption("opt", WithDescription(long)))), Func(noop))
	cmd, _ := reg.Lookup("cmd")

	got := render(t, reg, DefaultConfig(), CliErrors{{Kind: ErrorHelpRequested, Command: cmd}})
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	require.Greater(t, len(lines), 5)
	pad := strings.Repeat(" ", len("  --opt <string>  "))
	var continuation int
	for _, line := range lines {
		assert.LessOrEqual(t, len(line), 80, line)
		if strings.HasPrefix(line, pad) && line[len(pad)] != ' ' {
			continuation++
		}
	}
	assert.Greater(t, continuation, 0)
}

func TestRenderer_Version(t *testing.T) {
	reg := NewRegistry(DefaultConfig())

	got := render(t, reg, Config{Name: "demo", Version: "2.0.1"}, CliErrors{{Kind: ErrorVersionRequested}})
	assert.Equal(t, "demo 2.0.1\n", got)

	got = render(t, reg, Config{Version: "2.0.1"}, CliErrors{{Kind: ErrorVersionRequested}})
	assert.Equal(t, "2.0.1\n", got)
}

func TestRenderer_Errors(t *testing.T) {
	reg := treeRegistry(t, DefaultConfig())
	add, _ := reg.Lookup("remote add")
	url, _ := add.Descriptor().Value("url")
	cerrs := CliErrors{
		{Kind: ErrorUnknownValue, Token: "extra", Command: add},
		{Kind: ErrorMissingValue, Value: url, Command: add},
	}

	cfg := DefaultConfig()
	cfg.Name = "git"
	got := render(t, reg, cfg, cerrs)
	assert.Equal(t, "error: unexpected value 'extra' (command 'remote add')\n"+
		"error: missing required value URL (command 'remote add')\n"+
		"run 'git help remote add' for usage\n", got)

	cfg.HelpCommand = false
	got = render(t, reg, cfg, cerrs[:1])
	assert.Equal(t, "error: unexpected value 'extra' (command 'remote add')\n", got)

	assert.Empty(t, render(t, reg, cfg, nil))
}

func TestRenderer_Usage(t *testing.T) {
	r := &DefaultRenderer{}
	reg := treeRegistry(t, DefaultConfig())
	remote, _ := reg.Lookup("remote")
	assert.Equal(t, "remote, r", r.CommandUsage(remote))

	d := mustCommand(t, "x",
		WithOption(NewOption("dry-run", WithLongAliases("dry-run", "dry"), WithShortAliases('n'), WithType(typeOf[bool]()))),
		WithOption(NewOption("level", WithType(typeOf[[]int]()))))
	dry, _ := d.Option("dry-run")
	level, _ := d.Option("level")
	assert.Equal(t, "-n, --dry-run, --dry", r.FlagUsage(dry))
	assert.Equal(t, "--level <int>", r.FlagUsage(level))
}
