package cmdtree

// NewCommand creates and validates a CommandDescriptor named name. The caller should always test
// for error on return because the descriptor is nil when a configuration or validation fails.
//
// Configuration example:
//
//	cmd, err := NewCommand("add",
//		WithParent("remote"),
//		WithAliases("a"),
//		WithCommandDescription("add a remote"),
//		SetExecutable(true),
//		WithShape(&AddRemote{}),
//		WithOption(NewOption("fetch", WithShortAliases('f'), WithField("Fetch"))),
//		WithValue(NewValue("name", AtOrder(0), SetValueRequired(true), WithValueField("Name"))))
func NewCommand(name string, configs ...ConfigureCommandFunc) (*CommandDescriptor, error) {
	cmd := &CommandDescriptor{Name: name}
	if err := cmd.Set(configs...); err != nil {
		return nil, err
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return cmd, nil
}

// Set applies configs to the descriptor and stops at the first error. It does not validate.
func (d *CommandDescriptor) Set(configs ...ConfigureCommandFunc) error {
	var err error
	for _, config := range configs {
		config(d, &err)
		if err != nil {
			return err
		}
	}

	return nil
}

// WithParent sets the path of the parent command (for instance "remote" or "remote add")
func WithParent(path string) ConfigureCommandFunc {
	return func(cmd *CommandDescriptor, err *error) {
		cmd.Parent = path
	}
}

// WithAliases appends alternative names to the command. Aliases must be unique (case-insensitive)
// across the whole registry.
func WithAliases(aliases ...string) ConfigureCommandFunc {
	return func(cmd *CommandDescriptor, err *error) {
		cmd.Aliases = append(cmd.Aliases, aliases...)
	}
}

// WithCommandDescription sets the description shown in help output
func WithCommandDescription(description string) ConfigureCommandFunc {
	return func(cmd *CommandDescriptor, err *error) {
		cmd.Description = description
	}
}

// SetDefault marks the command as the default of its tree level
func SetDefault(isDefault bool) ConfigureCommandFunc {
	return func(cmd *CommandDescriptor, err *error) {
		cmd.IsDefault = isDefault
	}
}

// WithCommandHelpOrder sets the sort key of the command in help output
func WithCommandHelpOrder(order int) ConfigureCommandFunc {
	return func(cmd *CommandDescriptor, err *error) {
		cmd.HelpOrder = order
	}
}

// SetExecutable marks the command as dispatchable. Non-executable commands group sub-commands.
func SetExecutable(executable bool) ConfigureCommandFunc {
	return func(cmd *CommandDescriptor, err *error) {
		cmd.Executable = executable
	}
}

// SetHidden hides the command from help output
func SetHidden(hidden bool) ConfigureCommandFunc {
	return func(cmd *CommandDescriptor, err *error) {
		cmd.Hidden = hidden
	}
}

// WithShape sets the prototype struct bound options are copied from
func WithShape(shape any) ConfigureCommandFunc {
	return func(cmd *CommandDescriptor, err *error) {
		cmd.Shape = shape
	}
}

// WithOption adds an option built by NewOption. A construction error of the option is propagated.
func WithOption(opt *OptionDescriptor, optErr error) ConfigureCommandFunc {
	return func(cmd *CommandDescriptor, err *error) {
		if optErr != nil {
			*err = optErr
			return
		}
		cmd.Options = append(cmd.Options, opt)
	}
}

// WithOptions adds already constructed options
func WithOptions(opts ...*OptionDescriptor) ConfigureCommandFunc {
	return func(cmd *CommandDescriptor, err *error) {
		cmd.Options = append(cmd.Options, opts...)
	}
}

// WithValue adds a positional value built by NewValue. A construction error of the value is
// propagated.
func WithValue(val *ValueDescriptor, valErr error) ConfigureCommandFunc {
	return func(cmd *CommandDescriptor, err *error) {
		if valErr != nil {
			*err = valErr
			return
		}
		cmd.Values = append(cmd.Values, val)
	}
}

// WithValues adds already constructed positional values
func WithValues(vals ...*ValueDescriptor) ConfigureCommandFunc {
	return func(cmd *CommandDescriptor, err *error) {
		cmd.Values = append(cmd.Values, vals...)
	}
}
