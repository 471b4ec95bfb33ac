package cmdtree

import (
	"io"

	"github.com/sirupsen/logrus"
)

// WithConfig replaces the whole configuration. Apply it before any option it would override.
// It fails when a built-in it enables clashes with an already registered command.
func WithConfig(cfg Config) ConfigureAppFunc {
	return func(app *App, err *error) {
		*err = app.setConfig(cfg)
	}
}

// WithName sets the application name shown in usage and version output
func WithName(name string) ConfigureAppFunc {
	return func(app *App, err *error) {
		app.cfg.Name = name
	}
}

func WithVersion(version string) ConfigureAppFunc {
	return func(app *App, err *error) {
		app.cfg.Version = version
	}
}

// WithAppDescription sets the description shown on the application help page
func WithAppDescription(description string) ConfigureAppFunc {
	return func(app *App, err *error) {
		app.cfg.Description = description
	}
}

// WithIgnoreUnknownOptions when true, unrecognized options are kept in BoundOptions.Extra
// instead of failing the parse
func WithIgnoreUnknownOptions(ignore bool) ConfigureAppFunc {
	return func(app *App, err *error) {
		app.cfg.IgnoreUnknownOptions = ignore
	}
}

// WithIgnoreAdditionalValues when true, surplus positional values are kept in BoundOptions.Extra
// instead of failing the parse
func WithIgnoreAdditionalValues(ignore bool) ConfigureAppFunc {
	return func(app *App, err *error) {
		app.cfg.IgnoreAdditionalValues = ignore
	}
}

// WithHelpCommand enables or disables the `help` pseudo-command
func WithHelpCommand(enabled bool) ConfigureAppFunc {
	return func(app *App, err *error) {
		cfg := app.cfg
		cfg.HelpCommand = enabled
		*err = app.setConfig(cfg)
	}
}

// WithVersionCommand enables or disables the `version` pseudo-command
func WithVersionCommand(enabled bool) ConfigureAppFunc {
	return func(app *App, err *error) {
		cfg := app.cfg
		cfg.VersionCommand = enabled
		*err = app.setConfig(cfg)
	}
}

// WithHelpOption enables or disables `--help` as first token
func WithHelpOption(enabled bool) ConfigureAppFunc {
	return func(app *App, err *error) {
		cfg := app.cfg
		cfg.HelpOption = enabled
		*err = app.setConfig(cfg)
	}
}

// WithVersionOption enables or disables `--version` as first token
func WithVersionOption(enabled bool) ConfigureAppFunc {
	return func(app *App, err *error) {
		cfg := app.cfg
		cfg.VersionOption = enabled
		*err = app.setConfig(cfg)
	}
}

// WithLogger sets the logger used by the application and its registry
func WithLogger(logger logrus.FieldLogger) ConfigureAppFunc {
	return func(app *App, err *error) {
		if logger == nil {
			return
		}
		app.logger = logger
		app.registry.log = logger
	}
}

func WithRenderer(renderer Renderer) ConfigureAppFunc {
	return func(app *App, err *error) {
		if renderer != nil {
			app.renderer = renderer
		}
	}
}

// WithStdout sets the writer receiving help and version output; it is also handed to executors
func WithStdout(w io.Writer) ConfigureAppFunc {
	return func(app *App, err *error) {
		app.stdout = w
	}
}

// WithStderr sets the writer receiving parse errors; it is also handed to executors
func WithStderr(w io.Writer) ConfigureAppFunc {
	return func(app *App, err *error) {
		app.stderr = w
	}
}

// WithCommand builds a command with NewCommand and registers it with exec
func WithCommand(name string, exec Executor, configs ...ConfigureCommandFunc) ConfigureAppFunc {
	return func(app *App, err *error) {
		desc, e := NewCommand(name, configs...)
		if e != nil {
			*err = e
			return
		}
		_, *err = app.registry.Register(desc, exec)
	}
}

// WithDescriptor registers an already constructed descriptor
func WithDescriptor(desc *CommandDescriptor, exec Executor) ConfigureAppFunc {
	return func(app *App, err *error) {
		_, *err = app.registry.Register(desc, exec)
	}
}
