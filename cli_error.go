package cmdtree

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind tags a CliError
type ErrorKind int

const (
	ErrorUnknown ErrorKind = iota
	ErrorCustom
	ErrorVersionRequested
	ErrorHelpRequested
	ErrorUnknownCommand
	ErrorUnknownOption
	ErrorUnknownValue
	ErrorMissingCommand
	ErrorMissingOption
	ErrorMissingOptionValue
	ErrorMissingValue
	ErrorWrongOptionFormat
	ErrorWrongValueFormat
	ErrorCommandNotExecutable
)

var errorKindNames = map[ErrorKind]string{
	ErrorUnknown:              "Unknown",
	ErrorCustom:               "Custom",
	ErrorVersionRequested:     "VersionRequested",
	ErrorHelpRequested:        "HelpRequested",
	ErrorUnknownCommand:       "UnknownCommand",
	ErrorUnknownOption:        "UnknownOption",
	ErrorUnknownValue:         "UnknownValue",
	ErrorMissingCommand:       "MissingCommand",
	ErrorMissingOption:        "MissingOption",
	ErrorMissingOptionValue:   "MissingOptionValue",
	ErrorMissingValue:         "MissingValue",
	ErrorWrongOptionFormat:    "WrongOptionFormat",
	ErrorWrongValueFormat:     "WrongValueFormat",
	ErrorCommandNotExecutable: "CommandNotExecutable",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}

	return fmt.Sprintf("ErrorKind(%d)", k)
}

// CliError is a user facing outcome of parsing, binding or validation. Command, Option and Value
// reference the affected descriptors when known; they are never owned by the error.
type CliError struct {
	Kind ErrorKind
	// Token is the raw command-line token the error is about, if any
	Token   string
	Message string
	Cause   error
	Command *CommandNode
	Option  *OptionDescriptor
	Value   *ValueDescriptor
}

// Error builds the message from the structured fields only, so that equal errors always render
// the same text.
func (e *CliError) Error() string {
	switch e.Kind {
	case ErrorCustom:
		switch {
		case e.Message != "":
			return e.Message
		case e.Option != nil:
			return fmt.Sprintf("invalid value '%s' for option %s%s", e.Token, e.option(), e.cause())
		case e.Value != nil:
			return fmt.Sprintf("invalid value '%s' for %s%s", e.Token, e.value(), e.cause())
		}
		return "validation failed" + e.scope()
	case ErrorVersionRequested:
		return "version requested"
	case ErrorHelpRequested:
		return "help requested" + e.scope()
	case ErrorUnknownCommand:
		return fmt.Sprintf("unknown command '%s'%s", e.Token, e.scope())
	case ErrorUnknownOption:
		return fmt.Sprintf("unknown option '%s'%s", e.Token, e.scope())
	case ErrorUnknownValue:
		return fmt.Sprintf("unexpected value '%s'%s", e.Token, e.scope())
	case ErrorMissingCommand:
		if e.Command != nil {
			return fmt.Sprintf("command '%s' expects a sub-command", e.Command.Path())
		}
		return "missing command"
	case ErrorMissingOption:
		return fmt.Sprintf("missing required option %s%s", e.option(), e.scope())
	case ErrorMissingOptionValue:
		return fmt.Sprintf("option %s expects a value%s", e.option(), e.scope())
	case ErrorMissingValue:
		return fmt.Sprintf("missing required value %s%s", e.value(), e.scope())
	case ErrorWrongOptionFormat:
		return fmt.Sprintf("invalid value '%s' for option %s%s", e.Token, e.option(), e.cause())
	case ErrorWrongValueFormat:
		return fmt.Sprintf("invalid value '%s' for %s%s", e.Token, e.value(), e.cause())
	case ErrorCommandNotExecutable:
		if e.Command != nil {
			return fmt.Sprintf("command '%s' is not executable", e.Command.Path())
		}
		return "command is not executable"
	default:
		if e.Message != "" {
			return e.Message
		}
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return "unknown error"
	}
}

// Unwrap returns the cause of the error
func (e *CliError) Unwrap() error {
	return e.Cause
}

func (e *CliError) scope() string {
	if e.Command == nil {
		return ""
	}

	return fmt.Sprintf(" (command '%s')", e.Command.Path())
}

func (e *CliError) option() string {
	if e.Option != nil {
		return e.Option.String()
	}

	return e.Token
}

func (e *CliError) value() string {
	if e.Value != nil {
		return e.Value.String()
	}

	return e.Token
}

func (e *CliError) cause() string {
	if e.Cause == nil {
		return ""
	}

	return ": " + e.Cause.Error()
}

// CliErrors is the ordered list of errors produced by one parse attempt
type CliErrors []*CliError

func (e CliErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}

	return strings.Join(msgs, "; ")
}

// Unwrap allows errors.Is and errors.As to inspect every error of the list
func (e CliErrors) Unwrap() []error {
	out := make([]error, 0, len(e))
	for _, err := range e {
		out = append(out, err)
	}

	return out
}

// Has reports whether an error of kind is in the list
func (e CliErrors) Has(kind ErrorKind) bool {
	for _, err := range e {
		if err.Kind == kind {
			return true
		}
	}

	return false
}

// First returns the first error or nil
func (e CliErrors) First() *CliError {
	if len(e) == 0 {
		return nil
	}

	return e[0]
}

// Kinds returns the kind of every error in order
func (e CliErrors) Kinds() []ErrorKind {
	out := make([]ErrorKind, 0, len(e))
	for _, err := range e {
		out = append(out, err.Kind)
	}

	return out
}

// Informational reports whether the list is a help or version request rather than a failure
func (e CliErrors) Informational() bool {
	first := e.First()
	return first != nil && (first.Kind == ErrorHelpRequested || first.Kind == ErrorVersionRequested)
}

// AsCliErrors extracts the CliErrors carried by err
func AsCliErrors(err error) (CliErrors, bool) {
	var list CliErrors
	if errors.As(err, &list) {
		return list, true
	}
	var single *CliError
	if errors.As(err, &single) {
		return CliErrors{single}, true
	}

	return nil, false
}
