package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/napalu/cmdtree"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const manifest = `
commands:
  - name: remote
    aliases: [r]
    description: manage the list of known remotes
    commands:
      - name: list
        aliases: [ls]
        default: true
        executable: true
        description: list remotes
        options:
          - name: verbose
            short: [v]
            type: bool
            description: show remote urls
      - name: add
        executable: true
        description: add a remote
        values:
          - name: name
            order: 0
            required: true
            validate: regex(^[A-Za-z0-9._-]+$)
          - name: url
            order: 1
            required: true
            validate: url(https,ssh)
      - name: remove
        aliases: [rm]
        executable: true
        description: remove remotes
        values:
          - name: names
            order: 0
            type: "[]string"
            required: true
`

// Greet executes itself
type Greet struct {
	Name  string `cli:"short:n;desc:who to greet;default:world"`
	Shout bool   `cli:"short:s;desc:print in upper case"`
	Times int    `cli:"short:t;desc:how many times;default:1"`
}

func (g *Greet) Execute(cc *cmdtree.Context) (int, error) {
	msg := "hello " + g.Name
	if g.Shout {
		msg = strings.ToUpper(msg)
	}
	for i := 0; i < g.Times; i++ {
		fmt.Fprintln(cc.Stdout, msg)
	}

	return 0, nil
}

func (g *Greet) Validate(node *cmdtree.CommandNode, opts *cmdtree.BoundOptions) error {
	if g.Times < 1 {
		return fmt.Errorf("--times must be at least 1, got %d", g.Times)
	}

	return nil
}

// Wait blocks for a duration unless the invocation is cancelled
type Wait struct {
	For time.Duration `cli:"pos:0;name:duration;desc:how long to wait;default:1s"`
}

func (w *Wait) ExecuteAsync(ctx context.Context, cc *cmdtree.Context) (int, error) {
	cc.Logger.WithField("duration", w.For).Info("waiting")
	select {
	case <-time.After(w.For):
		fmt.Fprintf(cc.Stdout, "waited %s\n", w.For)
		return 0, nil
	case <-ctx.Done():
		return 130, ctx.Err()
	}
}

type remotes struct {
	names []string
	urls  map[string]string
}

func (r *remotes) Execute(cc *cmdtree.Context, opts *cmdtree.BoundOptions) (int, error) {
	verbose, _ := cmdtree.OptionAs[bool](opts, "verbose")
	for _, name := range r.names {
		if verbose {
			fmt.Fprintf(cc.Stdout, "%s\t%s\n", name, r.urls[name])
			continue
		}
		fmt.Fprintln(cc.Stdout, name)
	}

	return 0, nil
}

func (r *remotes) add(cc *cmdtree.Context, opts *cmdtree.BoundOptions) (int, error) {
	name, _ := cmdtree.OptionAs[string](opts, "name")
	url, _ := cmdtree.OptionAs[string](opts, "url")
	if _, found := r.urls[name]; found {
		return 3, fmt.Errorf("remote %s already exists", name)
	}
	r.names = append(r.names, name)
	r.urls[name] = url
	cc.Logger.WithField("remote", name).Info("added remote")

	return 0, nil
}

func (r *remotes) remove(ctx context.Context, cc *cmdtree.Context, opts *cmdtree.BoundOptions) (int, error) {
	names, _ := cmdtree.OptionAs[[]string](opts, "names")
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return 130, err
		}
		delete(r.urls, name)
		kept := r.names[:0]
		for _, n := range r.names {
			if n != name {
				kept = append(kept, n)
			}
		}
		r.names = kept
	}

	return 0, nil
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	if lvl, err := logrus.ParseLevel(os.Getenv("CMDTREE_LOG_LEVEL")); err == nil {
		logger.SetLevel(lvl)
	}
	if file := os.Getenv("CMDTREE_LOG_FILE"); file != "" {
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		})
	}

	return logger
}

func newApp(store *remotes, configs ...cmdtree.ConfigureAppFunc) (*cmdtree.App, error) {
	greet, err := cmdtree.DescribeStruct("greet", &Greet{},
		cmdtree.SetDefault(true),
		cmdtree.WithCommandDescription("print a greeting"))
	if err != nil {
		return nil, err
	}
	wait, err := cmdtree.DescribeStruct("wait", &Wait{},
		cmdtree.WithCommandDescription("wait for a while"))
	if err != nil {
		return nil, err
	}

	app, err := cmdtree.NewApp(append([]cmdtree.ConfigureAppFunc{
		cmdtree.WithName("cmdtree-demo"),
		cmdtree.WithVersion("0.1.0"),
		cmdtree.WithAppDescription("a small program showing the executor flavors of cmdtree"),
		cmdtree.WithLogger(newLogger()),
		cmdtree.WithDescriptor(greet, cmdtree.Direct()),
		cmdtree.WithDescriptor(wait, cmdtree.DirectAsync()),
	}, configs...)...)
	if err != nil {
		return nil, err
	}

	descs, err := cmdtree.LoadManifest(strings.NewReader(manifest))
	if err != nil {
		return nil, err
	}
	err = app.RegisterManifest(descs, map[string]cmdtree.Executor{
		"remote list":   cmdtree.External(store),
		"remote add":    cmdtree.Func(store.add),
		"remote remove": cmdtree.FuncAsync(store.remove),
	})
	if err != nil {
		return nil, err
	}

	return app, nil
}

func main() {
	store := &remotes{
		names: []string{"origin"},
		urls:  map[string]string{"origin": "https://github.com/napalu/cmdtree.git"},
	}
	app, err := newApp(store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	code, err := app.Run(ctx, os.Args[1:])
	if _, isCliErr := cmdtree.AsCliErrors(err); err != nil && !isCliErr {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	stop()
	os.Exit(code)
}
