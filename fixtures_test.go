package cmdtree

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

type buildOptions struct {
	Target  string
	Tags    []string
	Verbose bool
	Jobs    int
	Files   []string
}

func (b *buildOptions) Execute(cc *Context) (int, error) {
	return b.Jobs, nil
}

type waitOptions struct {
	Code int
}

func (w *waitOptions) ExecuteAsync(ctx context.Context, cc *Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 130, err
	}

	return w.Code, nil
}

type plainOptions struct {
	Name string
}

var errBoom = errors.New("boom")

func noop(cc *Context, opts *BoundOptions) (int, error) {
	return 0, nil
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func mustCommand(t *testing.T, name string, configs ...ConfigureCommandFunc) *CommandDescriptor {
	t.Helper()
	d, err := NewCommand(name, configs...)
	require.NoError(t, err)

	return d
}

func mustRegister(t *testing.T, r *Registry, d *CommandDescriptor, e Executor) *CommandNode {
	t.Helper()
	n, err := r.Register(d, e)
	require.NoError(t, err)

	return n
}

// buildCommand declares the typed build command used across tests:
//
//	build [-v] [-j N] --target T [--tag X]... [FILES...]
func buildCommand(t *testing.T, configs ...ConfigureCommandFunc) *CommandDescriptor {
	t.Helper()
	base := []ConfigureCommandFunc{
		SetExecutable(true),
		WithAliases("b"),
		WithShape(&buildOptions{}),
		WithOption(NewOption("target", WithShortAliases('t'), WithField("Target"), SetRequired(true),
			WithDescription("target platform"))),
		WithOption(NewOption("tag", WithShortAliases('T'), WithField("Tags"))),
		WithOption(NewOption("verbose", WithShortAliases('v'), WithField("Verbose"))),
		WithOption(NewOption("jobs", WithShortAliases('j'), WithField("Jobs"), WithDefault("1"))),
		WithValue(NewValue("files", AtOrder(0), WithValueField("Files"))),
	}

	return mustCommand(t, "build", append(base, configs...)...)
}

// treeRegistry registers
//
//	build            executable, aliases b
//	remote (r)       group
//	  list (ls)      default
//	  add
//	config           group without default
//	  get
func treeRegistry(t *testing.T, cfg Config) *Registry {
	t.Helper()
	r := NewRegistry(cfg)
	mustRegister(t, r, buildCommand(t), Direct())
	mustRegister(t, r, mustCommand(t, "remote", WithAliases("r")), Executor{})
	mustRegister(t, r, mustCommand(t, "list", WithParent("remote"), WithAliases("ls"), SetDefault(true),
		SetExecutable(true)), Func(noop))
	mustRegister(t, r, mustCommand(t, "add", WithParent("remote"), SetExecutable(true),
		WithValue(NewValue("name", AtOrder(0), SetValueRequired(true))),
		WithValue(NewValue("url", AtOrder(1), SetValueRequired(true)))), Func(noop))
	mustRegister(t, r, mustCommand(t, "config"), Executor{})
	mustRegister(t, r, mustCommand(t, "get", WithParent("config"), SetExecutable(true)), Func(noop))

	return r
}
