package parse

import (
	"github.com/ef-ds/deque"
)

// Tokens is the token stream consumed by command resolution and option binding. Tokens are
// taken from the front; a consumer that looked too far ahead can push a token back.
type Tokens struct {
	q        *deque.Deque
	consumed int
}

// NewTokens creates a token stream over a copy of args
func NewTokens(args []string) *Tokens {
	q := deque.New()
	for _, a := range args {
		q.PushBack(a)
	}

	return &Tokens{q: q}
}

// Len returns the number of tokens left in the stream
func (t *Tokens) Len() int {
	return t.q.Len()
}

// Empty reports whether the stream is exhausted
func (t *Tokens) Empty() bool {
	return t.q.Len() == 0
}

// Consumed returns how many tokens have been taken from the stream so far
func (t *Tokens) Consumed() int {
	return t.consumed
}

// Peek returns the next token without consuming it
func (t *Tokens) Peek() (string, bool) {
	v, ok := t.q.Front()
	if !ok {
		return "", false
	}

	return v.(string), true
}

// Next consumes and returns the next token
func (t *Tokens) Next() (string, bool) {
	v, ok := t.q.PopFront()
	if !ok {
		return "", false
	}
	t.consumed++

	return v.(string), true
}

// PushFront puts tok back at the head of the stream
func (t *Tokens) PushFront(tok string) {
	t.q.PushFront(tok)
	if t.consumed > 0 {
		t.consumed--
	}
}

// Remaining drains the stream and returns the tokens that were left, in order
func (t *Tokens) Remaining() []string {
	out := make([]string, 0, t.q.Len())
	for {
		tok, ok := t.Next()
		if !ok {
			return out
		}
		out = append(out, tok)
	}
}
