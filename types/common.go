package types

// Kind is used to define the kind of entity a struct tag represents
type Kind string

const (
	KindOption Kind = "option"
	KindValue  Kind = "value"
	KindEmpty  Kind = ""
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	if k == KindEmpty {
		return "empty"
	}

	return string(k)
}

// TokenKind classifies a single command-line token
type TokenKind int

const (
	TokenValue        TokenKind = iota // TokenValue is a positional value candidate
	TokenLongOption                    // TokenLongOption starts with "--"
	TokenShortCluster                  // TokenShortCluster starts with a single "-" followed by one or more flags
	TokenEndOfOptions                  // TokenEndOfOptions is the bare "--" marker
)

// String returns the string representation of a TokenKind
func (t TokenKind) String() string {
	switch t {
	case TokenLongOption:
		return "long option"
	case TokenShortCluster:
		return "short option cluster"
	case TokenEndOfOptions:
		return "end of options"
	default:
		return "value"
	}
}

// TagConfig is used to store struct tag information about an option or a positional value
type TagConfig struct {
	Kind        Kind
	Names       []string // long option names, or the display name of a value
	Short       []rune
	Description string
	Default     *string
	Required    bool
	Hidden      bool
	Position    *int
	HelpOrder   int
	// Validate is a validator specification such as "port" or "minlength(3),nospace"
	Validate string
}

// Name returns the primary name declared in the tag (empty when none was given)
func (c *TagConfig) Name() string {
	if len(c.Names) == 0 {
		return ""
	}

	return c.Names[0]
}
