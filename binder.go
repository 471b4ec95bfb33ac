package cmdtree

import (
	"reflect"

	"github.com/napalu/cmdtree/internal/util"
	"github.com/napalu/cmdtree/parse"
	"github.com/napalu/cmdtree/types"
	orderedmap "github.com/wk8/go-ordered-map"
)

// BoundOptions is the per-invocation data produced by binding a command's options and values.
// Typed commands receive a copy of their shape with the bound fields assigned; every command can
// read bound data by option or value name.
type BoundOptions struct {
	node     *CommandNode
	target   reflect.Value
	values   *orderedmap.OrderedMap // name -> any, in binding order
	explicit map[string]bool
	acc      map[string]reflect.Value
	raw      map[string][]string
	// Extra holds ignored unknown options and surplus values in encounter order
	Extra []string
}

// Binding is one named entry of BoundOptions.Values
type Binding struct {
	Name  string
	Value any
	// Explicit is false when the value comes from a declared default
	Explicit bool
}

func newBoundOptions(node *CommandNode) *BoundOptions {
	b := &BoundOptions{
		node:     node,
		values:   orderedmap.New(),
		explicit: map[string]bool{},
		acc:      map[string]reflect.Value{},
		raw:      map[string][]string{},
	}
	if node.desc.Shape != nil {
		proto := reflect.ValueOf(node.desc.Shape)
		if v, err := util.UnwrapValue(proto); err == nil {
			b.target = util.CopyStruct(v)
		} else {
			b.target = reflect.New(node.desc.shapeType).Elem()
		}
	}

	return b
}

// Command returns the command the options were bound for
func (b *BoundOptions) Command() *CommandNode {
	return b.node
}

// Target returns a pointer to the bound copy of the command's shape, nil for untyped commands
func (b *BoundOptions) Target() any {
	if b == nil || !b.target.IsValid() {
		return nil
	}

	return b.target.Addr().Interface()
}

// Get returns the value bound to the option or positional value called name, including defaults
func (b *BoundOptions) Get(name string) (any, bool) {
	return b.values.Get(name)
}

// IsSet reports whether name was given on the command line (defaults do not count)
func (b *BoundOptions) IsSet(name string) bool {
	return b.explicit[name]
}

// Raw returns the command-line tokens bound to name, in order. Flags and defaults have none.
// A repeated option which is not enumerable keeps only its last token.
func (b *BoundOptions) Raw(name string) []string {
	return append([]string(nil), b.raw[name]...)
}

// Values returns a snapshot of every bound option and value in binding order
func (b *BoundOptions) Values() []Binding {
	out := make([]Binding, 0, b.values.Len())
	for pair := b.values.Oldest(); pair != nil; pair = pair.Next() {
		name := pair.Key.(string)
		out = append(out, Binding{Name: name, Value: pair.Value, Explicit: b.explicit[name]})
	}

	return out
}

// OptionAs returns the value bound to name converted to T
func OptionAs[T any](b *BoundOptions, name string) (T, bool) {
	var zero T
	v, ok := b.Get(name)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}

	return t, true
}

func (b *BoundOptions) record(name, raw string, enumerable bool) {
	if enumerable {
		b.raw[name] = append(b.raw[name], raw)
		return
	}
	b.raw[name] = []string{raw}
}

func (b *BoundOptions) store(name, field string, v reflect.Value) {
	if field != "" && b.target.IsValid() {
		b.target.FieldByName(field).Set(v)
	}
	b.values.Set(name, v.Interface())
}

// appendTo adds elem to the collection of an enumerable option or value. The collection starts
// from the declared default, else from the shape's prototype field.
func (b *BoundOptions) appendTo(name, field string, t reflect.Type, def reflect.Value, elem reflect.Value) {
	acc, found := b.acc[name]
	if !found {
		switch {
		case def.IsValid():
			acc = util.CopyValue(def)
		case field != "" && b.target.IsValid():
			acc = util.CopyValue(b.target.FieldByName(field))
		default:
			acc = reflect.MakeSlice(t, 0, 1)
		}
	}
	acc = reflect.Append(acc, elem)
	b.acc[name] = acc
	b.store(name, field, acc)
}

type binder struct {
	node       *CommandNode
	cfg        Config
	opts       *BoundOptions
	errs       CliErrors
	positional []string
}

// Bind matches tokens against the options and values of node. Errors are accumulated so that
// every problem of the invocation is reported at once; the returned options are nil when the
// list is not empty.
func Bind(node *CommandNode, tokens []string, cfg Config) (*BoundOptions, CliErrors) {
	b := &binder{node: node, cfg: cfg, opts: newBoundOptions(node)}
	b.tokens(parse.NewTokens(tokens))
	b.values()
	b.defaults()
	if len(b.errs) > 0 {
		return nil, b.errs
	}

	return b.opts, nil
}

func (b *binder) tokens(stream *parse.Tokens) {
	endOfOptions := false
	for {
		tok, ok := stream.Next()
		if !ok {
			return
		}
		if endOfOptions {
			b.positional = append(b.positional, tok)
			continue
		}

		switch parse.Classify(tok) {
		case types.TokenEndOfOptions:
			endOfOptions = true
		case types.TokenLongOption:
			name, value, hasValue := parse.LongOption(tok)
			opt := b.node.desc.optionByLong(name)
			if opt == nil {
				b.unknownOption(tok)
				continue
			}
			if hasValue {
				b.bindOption(opt, value)
				continue
			}
			b.option(opt, stream)
		case types.TokenShortCluster:
			for _, r := range parse.ShortCluster(tok) {
				opt := b.node.desc.optionByShort(r)
				if opt == nil {
					b.unknownOption(parse.ShortPrefix + string(r))
					continue
				}
				b.option(opt, stream)
			}
		default:
			b.positional = append(b.positional, tok)
		}
	}
}

// option binds opt, taking its value from the stream unless it is a flag
func (b *binder) option(opt *OptionDescriptor, stream *parse.Tokens) {
	if opt.IsFlag() {
		b.bind(opt, reflect.ValueOf(true).Convert(opt.Type))
		return
	}
	value, ok := stream.Next()
	if !ok {
		b.errs = append(b.errs, &CliError{Kind: ErrorMissingOptionValue, Option: opt, Command: b.node})
		return
	}
	b.bindOption(opt, value)
}

func (b *binder) bindOption(opt *OptionDescriptor, raw string) {
	v, err := util.ConvertString(raw, opt.Type)
	if err != nil {
		b.errs = append(b.errs, &CliError{
			Kind:    ErrorWrongOptionFormat,
			Token:   raw,
			Cause:   err,
			Option:  opt,
			Command: b.node,
		})
		return
	}
	b.opts.record(opt.Name, raw, opt.IsEnumerable())
	b.bind(opt, v)
}

func (b *binder) bind(opt *OptionDescriptor, v reflect.Value) {
	if opt.IsEnumerable() {
		b.opts.appendTo(opt.Name, opt.Field, opt.Type, opt.defaultValue, v)
	} else {
		b.opts.store(opt.Name, opt.Field, v)
	}
	b.opts.explicit[opt.Name] = true
}

func (b *binder) unknownOption(tok string) {
	if b.cfg.IgnoreUnknownOptions {
		b.opts.Extra = append(b.opts.Extra, tok)
		return
	}
	b.errs = append(b.errs, &CliError{Kind: ErrorUnknownOption, Token: tok, Command: b.node})
}

// values assigns positional tokens to the declared values in ascending order. An enumerable
// value, always the last one, absorbs every remaining token.
func (b *binder) values() {
	i := 0
	for _, val := range b.node.desc.Values {
		if i >= len(b.positional) {
			break
		}
		if val.IsEnumerable() {
			for ; i < len(b.positional); i++ {
				b.bindValue(val, b.positional[i])
			}
			break
		}
		b.bindValue(val, b.positional[i])
		i++
	}

	for ; i < len(b.positional); i++ {
		if b.cfg.IgnoreAdditionalValues {
			b.opts.Extra = append(b.opts.Extra, b.positional[i])
			continue
		}
		b.errs = append(b.errs, &CliError{Kind: ErrorUnknownValue, Token: b.positional[i], Command: b.node})
	}
}

func (b *binder) bindValue(val *ValueDescriptor, raw string) {
	v, err := util.ConvertString(raw, val.Type)
	if err != nil {
		b.errs = append(b.errs, &CliError{
			Kind:    ErrorWrongValueFormat,
			Token:   raw,
			Cause:   err,
			Value:   val,
			Command: b.node,
		})
		return
	}
	b.opts.record(val.Name, raw, val.IsEnumerable())
	if val.IsEnumerable() {
		b.opts.appendTo(val.Name, val.Field, val.Type, val.defaultValue, v)
	} else {
		b.opts.store(val.Name, val.Field, v)
	}
	b.opts.explicit[val.Name] = true
}

// defaults applies declared defaults to everything left unbound and reports required options and
// values which are missing. A conversion error counts as bound so it is not reported twice.
func (b *binder) defaults() {
	failed := map[string]bool{}
	for _, e := range b.errs {
		switch {
		case e.Option != nil:
			failed[e.Option.Name] = true
		case e.Value != nil:
			failed[e.Value.Name] = true
		}
	}

	for _, opt := range b.node.desc.Options {
		if b.opts.explicit[opt.Name] || failed[opt.Name] {
			continue
		}
		switch {
		case opt.HasDefault():
			b.opts.store(opt.Name, opt.Field, util.CopyValue(opt.defaultValue))
		case opt.Required:
			b.errs = append(b.errs, &CliError{Kind: ErrorMissingOption, Option: opt, Command: b.node})
		}
	}
	for _, val := range b.node.desc.Values {
		if b.opts.explicit[val.Name] || failed[val.Name] {
			continue
		}
		switch {
		case val.HasDefault():
			b.opts.store(val.Name, val.Field, util.CopyValue(val.defaultValue))
		case val.Required:
			b.errs = append(b.errs, &CliError{Kind: ErrorMissingValue, Value: val, Command: b.node})
		}
	}
}
