package cmdtree

import (
	"context"
	"reflect"

	"github.com/napalu/cmdtree/validation"
)

// Config is populated by the host application and controls parsing behavior and built-ins
type Config struct {
	// Name of the application, shown in usage and version output
	Name string
	// Version printed by the built-in version command and option
	Version string
	// Description shown at the top of the help page
	Description string
	// IgnoreUnknownOptions keeps unrecognized options in BoundOptions.Extra instead of failing
	IgnoreUnknownOptions bool
	// IgnoreAdditionalValues keeps surplus positional values in BoundOptions.Extra instead of failing
	IgnoreAdditionalValues bool
	// HelpCommand enables the `help` pseudo-command at every tree level
	HelpCommand bool
	// VersionCommand enables the `version` pseudo-command at every tree level
	VersionCommand bool
	// HelpOption enables `--help` as the first token of the command line
	HelpOption bool
	// VersionOption enables `--version` as the first token of the command line
	VersionOption bool
}

// DefaultConfig returns a Config with all built-in help and version handling enabled
func DefaultConfig() Config {
	return Config{
		HelpCommand:    true,
		VersionCommand: true,
		HelpOption:     true,
		VersionOption:  true,
	}
}

const (
	helpName    = "help"
	versionName = "version"
)

// CommandDescriptor is the static metadata of one command. Descriptors are validated on
// construction (NewCommand) and again on registration; they must not be modified afterwards.
type CommandDescriptor struct {
	// Name is matched case-insensitively against command-line tokens
	Name string
	// Parent is the path of the parent command, empty for root commands
	Parent string
	// Aliases are alternative names, unique across the whole registry
	Aliases []string
	// Description is used in help output
	Description string
	// IsDefault selects this command when no command token is given at its level
	IsDefault bool
	// HelpOrder sorts commands in help output (ties keep registration order)
	HelpOrder int
	// Executable commands can be dispatched; the others only group sub-commands
	Executable bool
	// Hidden commands are left out of help output
	Hidden  bool
	Options []*OptionDescriptor
	Values  []*ValueDescriptor
	// Shape is the prototype the bound options are copied from: a struct or a pointer to one.
	// Untyped commands leave it nil and read bound data through BoundOptions.Get.
	Shape any

	shapeType reflect.Type
}

// OptionDescriptor describes a named option of a command
type OptionDescriptor struct {
	Name         string
	ShortAliases []rune
	// LongAliases default to Name
	LongAliases []string
	Description string
	// Type defaults to the shape field's type or string
	Type      reflect.Type
	Required  bool
	Default   any
	HelpOrder int
	// Field names the exported shape field receiving the value
	Field string
	// Validators check every token given for the option; defaults are not checked
	Validators []validation.ValidatorFunc

	defaultValue reflect.Value
}

// ValueDescriptor describes a positional value of a command
type ValueDescriptor struct {
	// Name is the display name used in help and error output
	Name string
	// Order defines positional precedence and is unique within a command
	Order       int
	Type        reflect.Type
	Required    bool
	Default     any
	Hidden      bool
	Description string
	Field       string
	Validators  []validation.ValidatorFunc

	defaultValue reflect.Value
}

// ConfigureAppFunc is used when defining App options
type ConfigureAppFunc func(app *App, err *error)

// ConfigureCommandFunc is used when defining CommandDescriptor options
type ConfigureCommandFunc func(cmd *CommandDescriptor, err *error)

// ConfigureOptionFunc is used when defining OptionDescriptor options
type ConfigureOptionFunc func(opt *OptionDescriptor, err *error)

// ConfigureValueFunc is used when defining ValueDescriptor options
type ConfigureValueFunc func(val *ValueDescriptor, err *error)

// Executable is implemented by bound option shapes which execute themselves (Direct executors)
type Executable interface {
	Execute(cc *Context) (int, error)
}

// AsyncExecutable is the asynchronous form of Executable
type AsyncExecutable interface {
	ExecuteAsync(ctx context.Context, cc *Context) (int, error)
}

// CommandExecutor is a separate object receiving the bound options (External executors)
type CommandExecutor interface {
	Execute(cc *Context, opts *BoundOptions) (int, error)
}

// AsyncCommandExecutor is the asynchronous form of CommandExecutor
type AsyncCommandExecutor interface {
	ExecuteAsync(ctx context.Context, cc *Context, opts *BoundOptions) (int, error)
}

// ExecFunc is a plain function executor
type ExecFunc func(cc *Context, opts *BoundOptions) (int, error)

// AsyncExecFunc is the asynchronous form of ExecFunc
type AsyncExecFunc func(ctx context.Context, cc *Context, opts *BoundOptions) (int, error)

// Validator may be implemented by a Direct shape or an External executor to check bound options
// before dispatch. A returned *CliError or CliErrors is reported as is; any other error becomes a
// Custom CliError.
type Validator interface {
	Validate(node *CommandNode, opts *BoundOptions) error
}

// ValidateFunc is a Validator attached with Executor.WithValidator
type ValidateFunc func(node *CommandNode, opts *BoundOptions) error

// Result is delivered by asynchronous dispatch
type Result struct {
	ExitCode int
	Err      error
}
