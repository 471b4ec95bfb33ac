package cmdtree

import (
	"testing"
	"time"

	"github.com/napalu/cmdtree/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildNode(t *testing.T, configs ...ConfigureCommandFunc) *CommandNode {
	t.Helper()
	r := NewRegistry(DefaultConfig())
	return mustRegister(t, r, buildCommand(t, configs...), Direct())
}

func TestBind_MissingRequiredOption(t *testing.T) {
	r := NewRegistry(DefaultConfig())
	mustRegister(t, r, buildCommand(t), Direct())

	res, cerrs := Resolve(r, []string{"build"})
	require.Empty(t, cerrs)

	opts, cerrs := Bind(res.Node, res.Remaining, r.Config())
	assert.Nil(t, opts)
	require.Len(t, cerrs, 1)
	assert.Equal(t, ErrorMissingOption, cerrs[0].Kind)
	assert.Equal(t, "target", cerrs[0].Option.Name)
	assert.Equal(t, "missing required option --target (command 'build')", cerrs[0].Error())
}

func TestBind_EnumerableOption(t *testing.T) {
	r := NewRegistry(DefaultConfig())
	mustRegister(t, r, mustCommand(t, "run", SetDefault(true), SetExecutable(true),
		WithOption(NewOption("tag", WithType(typeOf[[]string]())))), Func(noop))

	res, cerrs := Resolve(r, nil)
	require.Empty(t, cerrs)
	require.Equal(t, "run", res.Node.Name())

	opts, cerrs := Bind(res.Node, []string{"--tag", "a", "--tag", "b"}, r.Config())
	require.Empty(t, cerrs)
	tags, ok := OptionAs[[]string](opts, "tag")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, tags)
	assert.Nil(t, opts.Target())
}

func TestBind_EnumerableDefault(t *testing.T) {
	node := buildNode(t, WithOption(NewOption("label", WithType(typeOf[[]string]()),
		WithDefault([]string{"x", "y"}))))

	for i := 0; i < 2; i++ {
		opts, cerrs := Bind(node, []string{"-t", "linux", "--label", "a", "--label", "b"}, DefaultConfig())
		require.Empty(t, cerrs)
		labels, _ := OptionAs[[]string](opts, "label")
		assert.Equal(t, []string{"x", "y", "a", "b"}, labels)
	}

	opts, cerrs := Bind(node, []string{"-t", "linux"}, DefaultConfig())
	require.Empty(t, cerrs)
	labels, _ := OptionAs[[]string](opts, "label")
	assert.Equal(t, []string{"x", "y"}, labels)
	assert.False(t, opts.IsSet("label"))
}

func TestBind_TypedTarget(t *testing.T) {
	node := buildNode(t)

	opts, cerrs := Bind(node, []string{"-vj", "8", "--target=linux", "--tag", "a", "-T", "b", "main.go", "util.go"}, DefaultConfig())
	require.Empty(t, cerrs)

	target, ok := opts.Target().(*buildOptions)
	require.True(t, ok)
	assert.Equal(t, &buildOptions{
		Target:  "linux",
		Tags:    []string{"a", "b"},
		Verbose: true,
		Jobs:    8,
		Files:   []string{"main.go", "util.go"},
	}, target)

	assert.Same(t, node, opts.Command())
	assert.True(t, opts.IsSet("jobs"))
	jobs, ok := OptionAs[int](opts, "jobs")
	assert.True(t, ok)
	assert.Equal(t, 8, jobs)
	files, _ := opts.Get("files")
	assert.Equal(t, []string{"main.go", "util.go"}, files)
	assert.Empty(t, opts.Extra)
}

func TestBind_Defaults(t *testing.T) {
	node := buildNode(t)

	opts, cerrs := Bind(node, []string{"-t", "x", "--tag", "a"}, DefaultConfig())
	require.Empty(t, cerrs)

	assert.Equal(t, 1, opts.Target().(*buildOptions).Jobs)
	assert.False(t, opts.IsSet("jobs"))
	_, found := opts.Get("files")
	assert.False(t, found)

	assert.Equal(t, []Binding{
		{Name: "target", Value: "x", Explicit: true},
		{Name: "tag", Value: []string{"a"}, Explicit: true},
		{Name: "jobs", Value: 1, Explicit: false},
	}, opts.Values())
}

func TestBind_PrototypeIsolation(t *testing.T) {
	proto := &buildOptions{Target: "proto", Tags: []string{"base"}}
	node := buildNode(t, WithShape(proto))

	for i := 0; i < 2; i++ {
		opts, cerrs := Bind(node, []string{"-t", "linux", "-T", "a"}, DefaultConfig())
		require.Empty(t, cerrs)
		target := opts.Target().(*buildOptions)
		assert.Equal(t, []string{"base", "a"}, target.Tags)
		assert.Equal(t, "linux", target.Target)
		assert.NotSame(t, proto, target)
	}
	assert.Equal(t, &buildOptions{Target: "proto", Tags: []string{"base"}}, proto)
}

func TestBind_Idempotent(t *testing.T) {
	node := buildNode(t)
	args := []string{"-v", "-t", "x", "--tag", "a", "--tag", "b", "one", "two"}

	first, cerrs := Bind(node, args, DefaultConfig())
	require.Empty(t, cerrs)
	second, cerrs := Bind(node, args, DefaultConfig())
	require.Empty(t, cerrs)

	assert.Equal(t, first.Values(), second.Values())
	assert.Equal(t, first.Target(), second.Target())
	assert.NotSame(t, first.Target(), second.Target())
}

func TestBind_Tokens(t *testing.T) {
	node := buildNode(t)

	tests := []struct {
		name string
		args []string
		want buildOptions
	}{
		{
			name: "end of options",
			args: []string{"-t", "x", "--", "-v", "--target"},
			want: buildOptions{Target: "x", Jobs: 1, Files: []string{"-v", "--target"}},
		},
		{
			name: "lone dash is a value",
			args: []string{"-", "-t", "x"},
			want: buildOptions{Target: "x", Jobs: 1, Files: []string{"-"}},
		},
		{
			name: "option value looks like an option",
			args: []string{"--jobs", "-3", "--target", "--weird"},
			want: buildOptions{Target: "--weird", Jobs: -3},
		},
		{
			name: "last occurrence wins",
			args: []string{"-t", "a", "--target", "b"},
			want: buildOptions{Target: "b", Jobs: 1},
		},
		{
			name: "inline flag value",
			args: []string{"-t", "x", "--verbose=false", "--jobs=0x10"},
			want: buildOptions{Target: "x", Jobs: 16},
		},
		{
			name: "inline empty value",
			args: []string{"--target="},
			want: buildOptions{Jobs: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, cerrs := Bind(node, tt.args, DefaultConfig())
			require.Empty(t, cerrs)
			assert.Equal(t, &tt.want, opts.Target())
		})
	}
}

func TestBind_Errors(t *testing.T) {
	node := buildNode(t)

	tests := []struct {
		name       string
		args       []string
		wantKinds  []ErrorKind
		wantTokens []string
	}{
		{
			name:       "missing option value",
			args:       []string{"-t"},
			wantKinds:  []ErrorKind{ErrorMissingOptionValue},
			wantTokens: []string{""},
		},
		{
			name:       "missing value in a cluster",
			args:       []string{"-t", "x", "-vj"},
			wantKinds:  []ErrorKind{ErrorMissingOptionValue},
			wantTokens: []string{""},
		},
		{
			name:       "wrong option format",
			args:       []string{"-t", "x", "-j", "abc"},
			wantKinds:  []ErrorKind{ErrorWrongOptionFormat},
			wantTokens: []string{"abc"},
		},
		{
			name:       "unknown options",
			args:       []string{"-t", "x", "--nope", "-xv"},
			wantKinds:  []ErrorKind{ErrorUnknownOption, ErrorUnknownOption},
			wantTokens: []string{"--nope", "-x"},
		},
		{
			name:       "every problem is reported",
			args:       []string{"--nope", "-j", "abc", "--verbose=maybe"},
			wantKinds:  []ErrorKind{ErrorUnknownOption, ErrorWrongOptionFormat, ErrorWrongOptionFormat, ErrorMissingOption},
			wantTokens: []string{"--nope", "abc", "maybe", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, cerrs := Bind(node, tt.args, DefaultConfig())
			assert.Nil(t, opts)
			assert.Equal(t, tt.wantKinds, cerrs.Kinds())
			var tokens []string
			for _, e := range cerrs {
				tokens = append(tokens, e.Token)
				assert.Same(t, node, e.Command)
			}
			assert.Equal(t, tt.wantTokens, tokens)
		})
	}
}

func TestBind_ConversionCause(t *testing.T) {
	node := buildNode(t)

	_, cerrs := Bind(node, []string{"-t", "x", "--jobs", "many"}, DefaultConfig())
	require.Len(t, cerrs, 1)
	assert.ErrorIs(t, cerrs, errs.ErrParseInt)
	assert.Equal(t, "jobs", cerrs[0].Option.Name)
	assert.Equal(t, "invalid value 'many' for option --jobs: invalid integer value: many", cerrs[0].Error())
}

func TestBind_Values(t *testing.T) {
	r := treeRegistry(t, DefaultConfig())
	add, _ := r.Lookup("remote add")

	_, cerrs := Bind(add, nil, DefaultConfig())
	assert.Equal(t, []ErrorKind{ErrorMissingValue, ErrorMissingValue}, cerrs.Kinds())
	assert.Equal(t, "missing required value NAME (command 'remote add')", cerrs[0].Error())
	assert.Equal(t, "url", cerrs[1].Value.Name)

	_, cerrs = Bind(add, []string{"origin", "url", "extra", "more"}, DefaultConfig())
	assert.Equal(t, []ErrorKind{ErrorUnknownValue, ErrorUnknownValue}, cerrs.Kinds())
	assert.Equal(t, "extra", cerrs[0].Token)

	opts, cerrs := Bind(add, []string{"origin", "url", "extra", "more"}, Config{IgnoreAdditionalValues: true})
	require.Empty(t, cerrs)
	assert.Equal(t, []string{"extra", "more"}, opts.Extra)
	name, _ := OptionAs[string](opts, "name")
	assert.Equal(t, "origin", name)
}

func TestBind_ValueDefaults(t *testing.T) {
	r := NewRegistry(DefaultConfig())
	node := mustRegister(t, r, mustCommand(t, "serve", SetExecutable(true),
		WithValue(NewValue("port", AtOrder(0), WithValueType(typeOf[int]()), WithValueDefault("8080"))),
		WithValue(NewValue("timeout", AtOrder(1), WithValueType(typeOf[time.Duration]())))), Func(noop))

	opts, cerrs := Bind(node, nil, DefaultConfig())
	require.Empty(t, cerrs)
	port, ok := OptionAs[int](opts, "port")
	assert.True(t, ok)
	assert.Equal(t, 8080, port)
	assert.False(t, opts.IsSet("port"))
	_, ok = opts.Get("timeout")
	assert.False(t, ok)

	opts, cerrs = Bind(node, []string{"9090", "5s"}, DefaultConfig())
	require.Empty(t, cerrs)
	timeout, _ := OptionAs[time.Duration](opts, "timeout")
	assert.Equal(t, 5*time.Second, timeout)
	assert.True(t, opts.IsSet("port"))

	_, cerrs = Bind(node, []string{"http"}, DefaultConfig())
	require.Len(t, cerrs, 1)
	assert.Equal(t, ErrorWrongValueFormat, cerrs[0].Kind)
	assert.ErrorIs(t, cerrs[0], errs.ErrParseInt)
	assert.Equal(t, "invalid value 'http' for PORT: invalid integer value: http", cerrs[0].Error())
}

func TestBind_IgnoreUnknownOptions(t *testing.T) {
	node := buildNode(t)

	opts, cerrs := Bind(node, []string{"--nope=1", "-t", "x", "-qv"}, Config{IgnoreUnknownOptions: true})
	require.Empty(t, cerrs)
	assert.Equal(t, []string{"--nope=1", "-q"}, opts.Extra)
	assert.True(t, opts.Target().(*buildOptions).Verbose)
}

func TestOptionAs(t *testing.T) {
	node := buildNode(t)
	opts, cerrs := Bind(node, []string{"-t", "x"}, DefaultConfig())
	require.Empty(t, cerrs)

	_, ok := OptionAs[int](opts, "target")
	assert.False(t, ok, "wrong type")
	_, ok = OptionAs[string](opts, "missing")
	assert.False(t, ok)
	target, ok := OptionAs[string](opts, "target")
	assert.True(t, ok)
	assert.Equal(t, "x", target)
}

func TestBoundOptions_Raw(t *testing.T) {
	node := buildNode(t)
	opts, cerrs := Bind(node, []string{"-t", "linux", "--target=darwin", "-T", "a", "--tag", "b", "-v", "--jobs", "0x10", "x.go", "y.go"}, DefaultConfig())
	require.Empty(t, cerrs)

	assert.Equal(t, []string{"darwin"}, opts.Raw("target"), "last occurrence wins")
	assert.Equal(t, []string{"a", "b"}, opts.Raw("tag"))
	assert.Empty(t, opts.Raw("verbose"), "flags take no token")
	assert.Equal(t, []string{"0x10"}, opts.Raw("jobs"))
	assert.Equal(t, []string{"x.go", "y.go"}, opts.Raw("files"))
	assert.Empty(t, opts.Raw("unknown"))

	raw := opts.Raw("tag")
	raw[0] = "changed"
	assert.Equal(t, []string{"a", "b"}, opts.Raw("tag"))

	opts, cerrs = Bind(node, []string{"-t", "linux"}, DefaultConfig())
	require.Empty(t, cerrs)
	assert.Empty(t, opts.Raw("jobs"), "defaults have no token")
}
