package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/napalu/cmdtree/errs"
)

const maxDepth = 10

// Parse builds a validator from a specification such as
//
//	port
//	minlength(3),maxlength(20)
//	oneof(email,hostname)
//	all(identifier,not(isoneof(admin,root)))
//	regex(^v[0-9]+$)
//
// Top-level validators separated by commas must all pass. Names are case-insensitive.
// Arguments are separated by commas; regex takes its whole argument as the pattern.
func Parse(spec string) (ValidatorFunc, error) {
	validators, err := parseList(spec, 0)
	if err != nil {
		return nil, err
	}
	if len(validators) == 1 {
		return validators[0], nil
	}

	return All(validators...), nil
}

func parseList(spec string, depth int) ([]ValidatorFunc, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", errs.ErrInvalidValidator, maxDepth)
	}
	parts, err := splitArgs(spec)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: empty specification", errs.ErrInvalidValidator)
	}

	out := make([]ValidatorFunc, 0, len(parts))
	for _, part := range parts {
		v, err := parseOne(part, depth)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	return out, nil
}

// splitArgs splits s on commas which are not inside parentheses
func splitArgs(s string) ([]string, error) {
	var out []string
	var current strings.Builder
	depth := 0
	flush := func() {
		if arg := strings.TrimSpace(current.String()); arg != "" {
			out = append(out, arg)
		}
		current.Reset()
	}
	for _, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("%w: unbalanced parentheses in '%s'", errs.ErrInvalidValidator, s)
			}
		case r == ',' && depth == 0:
			flush()
			continue
		}
		current.WriteRune(r)
	}
	if depth != 0 {
		return nil, fmt.Errorf("%w: unbalanced parentheses in '%s'", errs.ErrInvalidValidator, s)
	}
	flush()

	return out, nil
}

func parseOne(spec string, depth int) (ValidatorFunc, error) {
	name, raw, hasArgs := strings.Cut(spec, "(")
	name = strings.ToLower(strings.TrimSpace(name))
	if hasArgs {
		if !strings.HasSuffix(raw, ")") {
			return nil, fmt.Errorf("%w: '%s' is missing a closing parenthesis", errs.ErrInvalidValidator, spec)
		}
		raw = strings.TrimSuffix(raw, ")")
	}

	switch name {
	case "oneof", "all":
		validators, err := parseList(raw, depth+1)
		if err != nil {
			return nil, err
		}
		if name == "all" {
			return All(validators...), nil
		}
		return OneOf(validators...), nil
	case "not":
		validators, err := parseList(raw, depth+1)
		if err != nil {
			return nil, err
		}
		if len(validators) != 1 {
			return nil, fmt.Errorf("%w: not takes exactly one validator", errs.ErrInvalidValidator)
		}
		return Not(validators[0]), nil
	case "regex":
		if raw == "" {
			return nil, fmt.Errorf("%w: regex needs a pattern", errs.ErrInvalidValidator)
		}
		return Regex(raw)
	}

	var args []string
	if hasArgs {
		var err error
		if args, err = splitArgs(raw); err != nil {
			return nil, err
		}
	}

	switch name {
	case "email":
		return Email(), nil
	case "url":
		return URL(args...), nil
	case "minlength", "minlen":
		n, err := intArg(name, args)
		return nilOnError(MinLength(n), err)
	case "maxlength", "maxlen":
		n, err := intArg(name, args)
		return nilOnError(MaxLength(n), err)
	case "length", "len":
		n, err := intArg(name, args)
		return nilOnError(Length(n), err)
	case "range":
		lo, hi, err := floatArgs(name, args)
		return nilOnError(Range(lo, hi), err)
	case "intrange":
		if len(args) != 2 {
			return nil, fmt.Errorf("%w: %s takes 2 arguments", errs.ErrInvalidValidator, name)
		}
		lo, err1 := strconv.Atoi(args[0])
		hi, err2 := strconv.Atoi(args[1])
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("%w: %s arguments must be integers", errs.ErrInvalidValidator, name)
		}
		return IntRange(lo, hi), nil
	case "min":
		f, err := floatArg(name, args)
		return nilOnError(Min(f), err)
	case "max":
		f, err := floatArg(name, args)
		return nilOnError(Max(f), err)
	case "isoneof":
		if len(args) == 0 {
			return nil, fmt.Errorf("%w: %s needs at least one argument", errs.ErrInvalidValidator, name)
		}
		return IsOneOf(args...), nil
	case "isnotoneof":
		if len(args) == 0 {
			return nil, fmt.Errorf("%w: %s needs at least one argument", errs.ErrInvalidValidator, name)
		}
		return IsNotOneOf(args...), nil
	case "fileext", "extension":
		if len(args) == 0 {
			return nil, fmt.Errorf("%w: %s needs at least one argument", errs.ErrInvalidValidator, name)
		}
		return FileExtension(args...), nil
	case "prefix":
		s, err := stringArg(name, args)
		return nilOnError(HasPrefix(s), err)
	case "suffix":
		s, err := stringArg(name, args)
		return nilOnError(HasSuffix(s), err)
	case "contains":
		s, err := stringArg(name, args)
		return nilOnError(Contains(s), err)
	case "integer", "int":
		return Integer(), nil
	case "float", "number":
		return Float(), nil
	case "boolean", "bool":
		return Boolean(), nil
	case "alphanumeric", "alnum":
		return AlphaNumeric(), nil
	case "identifier", "id":
		return Identifier(), nil
	case "nowhitespace", "nospace":
		return NoWhitespace(), nil
	case "hostname", "host":
		return Hostname(), nil
	case "ip", "ipaddress":
		return IP(), nil
	case "port":
		return Port(), nil
	}

	return nil, fmt.Errorf(errs.FmtErrorWithString, errs.ErrUnknownValidator, name)
}

func nilOnError(v ValidatorFunc, err error) (ValidatorFunc, error) {
	if err != nil {
		return nil, err
	}

	return v, nil
}

func stringArg(name string, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: %s takes 1 argument", errs.ErrInvalidValidator, name)
	}

	return args[0], nil
}

func intArg(name string, args []string) (int, error) {
	s, err := stringArg(name, args)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s argument must be a non-negative integer", errs.ErrInvalidValidator, name)
	}

	return n, nil
}

func floatArg(name string, args []string) (float64, error) {
	s, err := stringArg(name, args)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s argument must be a number", errs.ErrInvalidValidator, name)
	}

	return f, nil
}

func floatArgs(name string, args []string) (float64, float64, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("%w: %s takes 2 arguments", errs.ErrInvalidValidator, name)
	}
	lo, err1 := strconv.ParseFloat(args[0], 64)
	hi, err2 := strconv.ParseFloat(args[1], 64)
	if err1 != nil || err2 != nil {
		return 0, 0, fmt.Errorf("%w: %s arguments must be numbers", errs.ErrInvalidValidator, name)
	}

	return lo, hi, nil
}
