package parse

import (
	"strings"

	"github.com/napalu/cmdtree/types"
)

const (
	LongPrefix  = "--"
	ShortPrefix = "-"
)

// Classify returns the kind of a raw command-line token. A bare "-" is a value (conventionally
// standard input).
func Classify(tok string) types.TokenKind {
	switch {
	case tok == LongPrefix:
		return types.TokenEndOfOptions
	case strings.HasPrefix(tok, LongPrefix):
		return types.TokenLongOption
	case len(tok) > 1 && strings.HasPrefix(tok, ShortPrefix):
		return types.TokenShortCluster
	default:
		return types.TokenValue
	}
}

// LongOption strips the "--" prefix from tok and splits an inline "name=value" form.
func LongOption(tok string) (name, value string, hasValue bool) {
	name = strings.TrimPrefix(tok, LongPrefix)
	if idx := strings.IndexByte(name, '='); idx >= 0 {
		return name[:idx], name[idx+1:], true
	}

	return name, "", false
}

// ShortCluster strips the "-" prefix from tok and returns the individual flag runes.
func ShortCluster(tok string) []rune {
	return []rune(strings.TrimPrefix(tok, ShortPrefix))
}
