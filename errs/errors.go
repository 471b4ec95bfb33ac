// Package errs holds the sentinel errors of cmdtree. Most of them are raised when a host
// application sets up a command tree incorrectly: these are programming faults returned from
// descriptor construction, registration and dispatch. The conversion errors are attached as the
// cause of WrongOptionFormat / WrongValueFormat parse errors and the value errors as the cause
// of Custom errors raised by validators. All are matched with errors.Is.
package errs

import "errors"

// Descriptor construction errors
var (
	ErrInvalidName           = errors.New("invalid name")
	ErrDuplicateOption       = errors.New("duplicate option")
	ErrDuplicateValueOrder   = errors.New("duplicate value order")
	ErrRequiredAfterOptional = errors.New("required value follows an optional value")
	ErrEnumerableNotLast     = errors.New("only the last value may be enumerable")
	ErrInvalidDefault        = errors.New("default value is not assignable to the declared type")
	ErrUnsupportedType       = errors.New("unsupported type")
	ErrUnknownField          = errors.New("field not found on shape")
	ErrInvalidShape          = errors.New("shape must be a struct or a pointer to a struct")
	ErrInvalidTag            = errors.New("invalid struct tag")
	ErrInvalidManifest       = errors.New("invalid manifest")
)

// Registration errors
var (
	ErrDuplicateCommand = errors.New("command already registered")
	ErrDuplicateAlias   = errors.New("alias already registered")
	ErrDuplicateDefault = errors.New("default command already registered at this level")
	ErrMissingParent    = errors.New("parent command not registered")
	ErrReservedAlias    = errors.New("alias is reserved by a built-in command")
	ErrReservedOption   = errors.New("option name is reserved by a built-in option")
	ErrMissingExecutor  = errors.New("executable command has no executor")
	ErrExecutorOnGroup  = errors.New("executor supplied for a non-executable command")
	ErrNotExecutable    = errors.New("shape does not implement the executable capability")
	ErrNilDescriptor    = errors.New("descriptor is nil")
)

// Dispatch errors
var (
	ErrCommandNotExecutable = errors.New("command is not executable")
	ErrNilInvocation        = errors.New("invocation is nil")
)

// Validator errors. The first two are raised while building validators from a specification,
// the others describe a rejected command-line token.
var (
	ErrInvalidValidator  = errors.New("invalid validator")
	ErrUnknownValidator  = errors.New("unknown validator")
	ErrValueLength       = errors.New("invalid length")
	ErrValueOutOfRange   = errors.New("value out of range")
	ErrValueFormat       = errors.New("invalid format")
	ErrValueNotAllowed   = errors.New("value not allowed")
	ErrNoValidatorPassed = errors.New("no alternative accepted the value")
)

// Conversion errors
var (
	ErrParseBool     = errors.New("invalid boolean value")
	ErrParseInt      = errors.New("invalid integer value")
	ErrParseUint     = errors.New("invalid unsigned integer value")
	ErrParseFloat    = errors.New("invalid floating point value")
	ErrParseDuration = errors.New("invalid duration value")
	ErrParseTime     = errors.New("invalid time value")
	ErrParseText     = errors.New("invalid value")
)

const (
	FmtErrorWithString = "%w: %s"
)
