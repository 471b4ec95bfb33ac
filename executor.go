package cmdtree

import (
	"context"
	"errors"
	"io"
	"reflect"

	"github.com/napalu/cmdtree/errs"
	"github.com/napalu/cmdtree/validation"
	"github.com/sirupsen/logrus"
)

// ExecutorKind tells how a command's behavior is supplied
type ExecutorKind int

const (
	ExecutorNone ExecutorKind = iota
	// ExecutorDirect - the bound options value executes itself
	ExecutorDirect
	// ExecutorExternal - a separate executor object receives the bound options
	ExecutorExternal
	// ExecutorFunction - a plain function receives the bound options
	ExecutorFunction
)

func (k ExecutorKind) String() string {
	switch k {
	case ExecutorDirect:
		return "direct"
	case ExecutorExternal:
		return "external"
	case ExecutorFunction:
		return "function"
	default:
		return "none"
	}
}

var (
	executableType      = reflect.TypeOf((*Executable)(nil)).Elem()
	asyncExecutableType = reflect.TypeOf((*AsyncExecutable)(nil)).Elem()
)

// Executor is the executor binding of a command. The zero value binds nothing and is used for
// non-executable commands.
type Executor struct {
	kind          ExecutorKind
	async         bool
	external      CommandExecutor
	externalAsync AsyncCommandExecutor
	fn            ExecFunc
	fnAsync       AsyncExecFunc
	validate      ValidateFunc
}

// Direct binds a command whose shape implements Executable
func Direct() Executor {
	return Executor{kind: ExecutorDirect}
}

// DirectAsync binds a command whose shape implements AsyncExecutable
func DirectAsync() Executor {
	return Executor{kind: ExecutorDirect, async: true}
}

// External binds a separate executor object
func External(e CommandExecutor) Executor {
	if e == nil {
		return Executor{}
	}

	return Executor{kind: ExecutorExternal, external: e}
}

func ExternalAsync(e AsyncCommandExecutor) Executor {
	if e == nil {
		return Executor{}
	}

	return Executor{kind: ExecutorExternal, async: true, externalAsync: e}
}

// Func binds a plain function
func Func(fn ExecFunc) Executor {
	if fn == nil {
		return Executor{}
	}

	return Executor{kind: ExecutorFunction, fn: fn}
}

func FuncAsync(fn AsyncExecFunc) Executor {
	if fn == nil {
		return Executor{}
	}

	return Executor{kind: ExecutorFunction, async: true, fnAsync: fn}
}

// WithValidator returns a copy of e which runs fn after binding, in addition to any Validator
// implemented by the shape or the executor object.
func (e Executor) WithValidator(fn ValidateFunc) Executor {
	e.validate = fn
	return e
}

func (e Executor) Kind() ExecutorKind {
	return e.kind
}

// Async reports whether the executor is of the asynchronous flavor
func (e Executor) Async() bool {
	return e.async
}

// IsZero reports whether no executor is bound
func (e Executor) IsZero() bool {
	return e.kind == ExecutorNone
}

// Validate runs the validators attached to e against opts, after the validators declared on the
// options and values of node. A nil return means success.
func (e Executor) Validate(node *CommandNode, opts *BoundOptions) CliErrors {
	out := tokenErrors(node, opts)
	var validators []func(*CommandNode, *BoundOptions) error
	switch e.kind {
	case ExecutorDirect:
		if v, ok := opts.Target().(Validator); ok {
			validators = append(validators, v.Validate)
		}
	case ExecutorExternal:
		var obj any = e.external
		if e.async {
			obj = e.externalAsync
		}
		if v, ok := obj.(Validator); ok {
			validators = append(validators, v.Validate)
		}
	}
	if e.validate != nil {
		validators = append(validators, e.validate)
	}

	for _, validate := range validators {
		if err := validate(node, opts); err != nil {
			out = append(out, validationErrors(node, err)...)
		}
	}

	return out
}

// ValidateOption returns a ValidateFunc checking the tokens bound to the option or value called
// name. Nothing is checked when name was not given on the command line.
//
//	Func(serve).WithValidator(ValidateOption("port", validation.Port()))
func ValidateOption(name string, validators ...validation.ValidatorFunc) ValidateFunc {
	return func(node *CommandNode, opts *BoundOptions) error {
		if node == nil || opts == nil {
			return nil
		}
		opt, _ := node.desc.Option(name)
		val, _ := node.desc.Value(name)
		if cerrs := checkTokens(node, opt, val, opts.raw[name], validators); len(cerrs) > 0 {
			return cerrs
		}
		return nil
	}
}

func tokenErrors(node *CommandNode, opts *BoundOptions) CliErrors {
	if node == nil || opts == nil {
		return nil
	}
	var out CliErrors
	for _, opt := range node.desc.Options {
		out = append(out, checkTokens(node, opt, nil, opts.raw[opt.Name], opt.Validators)...)
	}
	for _, val := range node.desc.Values {
		out = append(out, checkTokens(node, nil, val, opts.raw[val.Name], val.Validators)...)
	}

	return out
}

// checkTokens reports one Custom error per token rejected by validators
func checkTokens(node *CommandNode, opt *OptionDescriptor, val *ValueDescriptor, tokens []string, validators []validation.ValidatorFunc) CliErrors {
	if len(validators) == 0 {
		return nil
	}
	check := validation.All(validators...)
	var out CliErrors
	for _, tok := range tokens {
		if err := check(tok); err != nil {
			out = append(out, &CliError{Kind: ErrorCustom, Token: tok, Cause: err, Command: node, Option: opt, Value: val})
		}
	}

	return out
}

func validationErrors(node *CommandNode, err error) CliErrors {
	var list CliErrors
	if errors.As(err, &list) {
		return list
	}
	var single *CliError
	if errors.As(err, &single) {
		return CliErrors{single}
	}

	return CliErrors{{Kind: ErrorCustom, Message: err.Error(), Cause: err, Command: node}}
}

// Context is handed to every executor
type Context struct {
	// Node is the resolved command
	Node *CommandNode
	// App is the application which parsed the invocation, nil when dispatching without one
	App *App
	// InvocationID identifies one parse and dispatch cycle in log output
	InvocationID string
	// Args are the raw arguments of the invocation
	Args   []string
	Stdout io.Writer
	Stderr io.Writer
	Logger logrus.FieldLogger
}

// Dispatch runs the executor bound to cc.Node and returns its exit code and error verbatim.
// Dispatching a command which is not executable returns a *CliError of kind
// ErrorCommandNotExecutable wrapping errs.ErrCommandNotExecutable. So does dispatching a Direct
// executor whose bound options are nil or hold no executable shape.
//
// The asynchronous executor flavors receive ctx; the dispatcher imposes no timeout of its own.
func Dispatch(ctx context.Context, cc *Context, opts *BoundOptions) (int, error) {
	if cc == nil || cc.Node == nil || !cc.Node.IsExecutable() || cc.Node.executor.IsZero() {
		var node *CommandNode
		if cc != nil {
			node = cc.Node
		}
		return 1, notExecutable(node)
	}

	e := cc.Node.executor
	switch e.kind {
	case ExecutorDirect:
		if e.async {
			target, ok := opts.Target().(AsyncExecutable)
			if !ok {
				return 1, notExecutable(cc.Node)
			}
			return target.ExecuteAsync(ctx, cc)
		}
		target, ok := opts.Target().(Executable)
		if !ok {
			return 1, notExecutable(cc.Node)
		}
		return target.Execute(cc)
	case ExecutorExternal:
		if e.async {
			return e.externalAsync.ExecuteAsync(ctx, cc, opts)
		}
		return e.external.Execute(cc, opts)
	default:
		if e.async {
			return e.fnAsync(ctx, cc, opts)
		}
		return e.fn(cc, opts)
	}
}

func notExecutable(node *CommandNode) *CliError {
	return &CliError{Kind: ErrorCommandNotExecutable, Command: node, Cause: errs.ErrCommandNotExecutable}
}

// DispatchAsync runs Dispatch on a new goroutine. The returned channel receives exactly one
// Result and is then closed.
func DispatchAsync(ctx context.Context, cc *Context, opts *BoundOptions) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		code, err := Dispatch(ctx, cc, opts)
		out <- Result{ExitCode: code, Err: err}
	}()

	return out
}
