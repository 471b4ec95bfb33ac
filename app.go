package cmdtree

import (
	"context"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/napalu/cmdtree/errs"
	"github.com/napalu/cmdtree/parse"
	"github.com/sirupsen/logrus"
)

// ExitFailure is returned by Run when parsing fails
const ExitFailure = 1

// App ties a Registry to its configuration and drives the parse and dispatch pipeline.
// Parse and Run may be called concurrently once all commands are registered.
type App struct {
	cfg      Config
	registry *Registry
	logger   logrus.FieldLogger
	renderer Renderer
	stdout   io.Writer
	stderr   io.Writer
}

// Invocation is a successfully parsed command line ready for dispatch
type Invocation struct {
	// ID identifies the invocation in log output and in the executor Context
	ID      string
	Args    []string
	Node    *CommandNode
	Options *BoundOptions
}

// NewApp creates an App configured by configs. The caller should always test for error on return
// because App will be nil when an error occurs during initialization.
//
// Configuration example:
//
//	app, err := NewApp(
//		WithName("git"),
//		WithVersion("2.45.0"),
//		WithCommand("remote", Executor{}),
//		WithCommand("add", Func(addRemote),
//			WithParent("remote"),
//			SetExecutable(true),
//			WithValue(NewValue("name", SetValueRequired(true)))))
func NewApp(configs ...ConfigureAppFunc) (*App, error) {
	app := &App{
		cfg:      DefaultConfig(),
		logger:   discardLogger(),
		renderer: NewRenderer(),
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	app.registry = newRegistry(&app.cfg, app.logger)

	var err error
	for _, config := range configs {
		config(app, &err)
		if err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Config returns a copy of the application configuration
func (a *App) Config() Config {
	return a.cfg
}

// setConfig replaces the configuration unless an enabled built-in clashes with a registered
// command.
func (a *App) setConfig(cfg Config) error {
	if err := a.registry.CheckConfig(cfg); err != nil {
		return err
	}
	a.cfg = cfg

	return nil
}

func (a *App) Registry() *Registry {
	return a.registry
}

func (a *App) Logger() logrus.FieldLogger {
	return a.logger
}

// Register adds a command to the application's registry
func (a *App) Register(desc *CommandDescriptor, exec Executor) (*CommandNode, error) {
	return a.registry.Register(desc, exec)
}

// Remove removes a command and its descendants from the application's registry
func (a *App) Remove(path string) bool {
	return a.registry.Remove(path)
}

// Parse resolves, binds and validates args. On failure the returned error is a CliErrors list;
// a help or version request is reported the same way (see CliErrors.Informational).
func (a *App) Parse(args []string) (*Invocation, error) {
	id := uuid.NewString()
	log := a.logger.WithField("invocation", id)

	res, cerrs := Resolve(a.registry, args)
	if len(cerrs) > 0 {
		log.WithField("kind", cerrs.First().Kind.String()).Debug("resolution stopped")
		return nil, cerrs
	}
	log = log.WithField("command", res.Node.Path())

	opts, cerrs := Bind(res.Node, res.Remaining, a.cfg)
	if len(cerrs) > 0 {
		log.WithField("errors", len(cerrs)).Debug("binding failed")
		return nil, cerrs
	}
	for _, extra := range opts.Extra {
		log.WithField("token", extra).Warn("ignored argument")
	}

	if cerrs = res.Node.executor.Validate(res.Node, opts); len(cerrs) > 0 {
		log.WithField("errors", len(cerrs)).Debug("validation failed")
		return nil, cerrs
	}
	log.Debug("parsed")

	return &Invocation{ID: id, Args: args, Node: res.Node, Options: opts}, nil
}

// ParseString splits s with shell quoting rules and parses the result
func (a *App) ParseString(s string) (*Invocation, error) {
	args, err := parse.Split(s)
	if err != nil {
		return nil, err
	}

	return a.Parse(args)
}

// Run parses args and dispatches the invocation. Help and version requests are rendered to
// stdout and return 0; parse errors are rendered to stderr and returned with ExitFailure.
// Otherwise the executor's exit code and error are returned verbatim.
func (a *App) Run(ctx context.Context, args []string) (int, error) {
	inv, err := a.Parse(args)
	if err != nil {
		return a.fail(err)
	}

	return a.Execute(ctx, inv)
}

// RunString splits s with shell quoting rules and runs the result
func (a *App) RunString(ctx context.Context, s string) (int, error) {
	args, err := parse.Split(s)
	if err != nil {
		return ExitFailure, err
	}

	return a.Run(ctx, args)
}

// RunAsync parses args on the calling goroutine and dispatches on a new one. The returned
// channel receives exactly one Result.
func (a *App) RunAsync(ctx context.Context, args []string) <-chan Result {
	inv, err := a.Parse(args)
	if err != nil {
		out := make(chan Result, 1)
		code, err := a.fail(err)
		out <- Result{ExitCode: code, Err: err}
		close(out)
		return out
	}

	return a.ExecuteAsync(ctx, inv)
}

// Execute dispatches an already parsed invocation
func (a *App) Execute(ctx context.Context, inv *Invocation) (int, error) {
	if inv == nil {
		return ExitFailure, errs.ErrNilInvocation
	}
	cc := a.newContext(inv)
	cc.Logger.Debug("dispatching")

	return Dispatch(ctx, cc, inv.Options)
}

// ExecuteAsync is the asynchronous form of Execute
func (a *App) ExecuteAsync(ctx context.Context, inv *Invocation) <-chan Result {
	if inv == nil {
		out := make(chan Result, 1)
		out <- Result{ExitCode: ExitFailure, Err: errs.ErrNilInvocation}
		close(out)
		return out
	}
	cc := a.newContext(inv)
	cc.Logger.Debug("dispatching asynchronously")

	return DispatchAsync(ctx, cc, inv.Options)
}

// Render writes errs with the configured renderer
func (a *App) Render(w io.Writer, errs CliErrors) error {
	return a.renderer.Render(w, errs, a.registry, a.cfg)
}

func (a *App) fail(err error) (int, error) {
	cerrs, ok := AsCliErrors(err)
	if !ok {
		return ExitFailure, err
	}
	if cerrs.Informational() {
		if rerr := a.Render(a.stdout, cerrs); rerr != nil {
			return ExitFailure, rerr
		}
		return 0, nil
	}
	if rerr := a.Render(a.stderr, cerrs); rerr != nil {
		a.logger.WithError(rerr).Error("could not render errors")
	}

	return ExitFailure, cerrs
}

func (a *App) newContext(inv *Invocation) *Context {
	return &Context{
		Node:         inv.Node,
		App:          a,
		InvocationID: inv.ID,
		Args:         inv.Args,
		Stdout:       a.stdout,
		Stderr:       a.stderr,
		Logger: a.logger.WithFields(logrus.Fields{
			"invocation": inv.ID,
			"command":    inv.Node.Path(),
		}),
	}
}
