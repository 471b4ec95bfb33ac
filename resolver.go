package cmdtree

import (
	"github.com/napalu/cmdtree/internal/util"
	"github.com/napalu/cmdtree/parse"
	"github.com/napalu/cmdtree/types"
)

// Resolution is the outcome of a successful command resolution
type Resolution struct {
	// Node is the terminal command
	Node *CommandNode
	// Remaining are the tokens left for binding
	Remaining []string
	// Depth is the number of command tokens taken from the command line
	Depth int
}

// Resolve walks the command tree of reg along args and returns the terminal command with the
// tokens that follow it. Help and version requests are returned as a single HelpRequested or
// VersionRequested error whose Command is the command the request is about (nil for the
// application itself). Resolution failures always consist of exactly one error.
func Resolve(reg *Registry, args []string) (*Resolution, CliErrors) {
	cfg := reg.cfg
	tokens := parse.NewTokens(args)

	if tokens.Empty() {
		return fallback(reg.Default(), nil, tokens)
	}

	first, _ := tokens.Peek()
	switch {
	case cfg.HelpOption && first == parse.LongPrefix+helpName:
		tokens.Next()
		return nil, CliErrors{{Kind: ErrorHelpRequested, Command: deepest(reg.roots, nil, tokens)}}
	case cfg.VersionOption && first == parse.LongPrefix+versionName:
		tokens.Next()
		return nil, CliErrors{{Kind: ErrorVersionRequested, Command: deepest(reg.roots, nil, tokens)}}
	}

	var current *CommandNode
	level := reg.roots
	for {
		tok, ok := tokens.Next()
		if !ok {
			break
		}
		switch {
		case cfg.HelpCommand && util.EqualFold(tok, helpName):
			return nil, CliErrors{{Kind: ErrorHelpRequested, Command: deepest(level, current, tokens)}}
		case cfg.VersionCommand && util.EqualFold(tok, versionName):
			return nil, CliErrors{{Kind: ErrorVersionRequested, Command: deepest(level, current, tokens)}}
		}

		child, found := matchNode(level, tok)
		if found {
			current = child
			level = child.children
			continue
		}
		tokens.PushFront(tok)
		if current == nil {
			if parse.Classify(tok) != types.TokenValue {
				return fallback(reg.Default(), nil, tokens)
			}
			return nil, CliErrors{{Kind: ErrorUnknownCommand, Token: tok}}
		}
		break
	}

	return fallback(current, current, tokens)
}

// fallback turns node into the terminal command by following its default-child chain. scope is
// the command a MissingCommand error is reported against.
func fallback(node, scope *CommandNode, tokens *parse.Tokens) (*Resolution, CliErrors) {
	if node == nil {
		return nil, CliErrors{{Kind: ErrorMissingCommand, Command: scope}}
	}
	terminal := node.terminal()
	if terminal == nil {
		return nil, CliErrors{{Kind: ErrorMissingCommand, Command: node}}
	}

	depth := tokens.Consumed()

	return &Resolution{Node: terminal, Remaining: tokens.Remaining(), Depth: depth}, nil
}

// deepest returns the deepest command reachable from level along the next tokens, or start
// when the first token does not match. The first unmatched token is left in the stream.
func deepest(level []*CommandNode, start *CommandNode, tokens *parse.Tokens) *CommandNode {
	current := start
	for {
		tok, ok := tokens.Next()
		if !ok {
			return current
		}
		child, found := matchNode(level, tok)
		if !found {
			tokens.PushFront(tok)
			return current
		}
		current = child
		level = child.children
	}
}
