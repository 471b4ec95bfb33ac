package cmdtree

import (
	"fmt"
	"io"
	"reflect"
	"sort"

	"github.com/napalu/cmdtree/errs"
	"github.com/napalu/cmdtree/internal/util"
	"github.com/sirupsen/logrus"
	orderedmap "github.com/wk8/go-ordered-map"
)

// Registry owns every CommandNode of an application. It is populated once during start-up and
// is read-only while parsing, so it needs no locking; concurrent Register/Remove calls are not
// supported.
type Registry struct {
	nodes   *orderedmap.OrderedMap // folded path -> *CommandNode
	aliases map[string]*CommandNode
	roots   []*CommandNode
	cfg     *Config
	log     logrus.FieldLogger
}

// NewRegistry creates an empty registry. cfg decides which names are reserved for the
// built-in help and version handling.
func NewRegistry(cfg Config) *Registry {
	return newRegistry(&cfg, discardLogger())
}

func newRegistry(cfg *Config, log logrus.FieldLogger) *Registry {
	return &Registry{
		nodes:   orderedmap.New(),
		aliases: map[string]*CommandNode{},
		cfg:     cfg,
		log:     log,
	}
}

// Register validates desc, checks it against the registered commands and links a new node into
// the tree. Nothing is modified when an error is returned.
func (r *Registry) Register(desc *CommandDescriptor, exec Executor) (*CommandNode, error) {
	if desc == nil {
		return nil, errs.ErrNilDescriptor
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	if err := checkExecutor(desc, exec); err != nil {
		return nil, err
	}

	path := desc.Path()
	key := util.Fold(path)
	if _, found := r.nodes.Get(key); found {
		return nil, fmt.Errorf(errs.FmtErrorWithString, errs.ErrDuplicateCommand, path)
	}

	var parent *CommandNode
	if desc.Parent != "" {
		p, found := r.Lookup(desc.Parent)
		if !found {
			return nil, fmt.Errorf("%w: '%s' (required by '%s')", errs.ErrMissingParent, desc.Parent, path)
		}
		parent = p
	}
	siblings := r.roots
	if parent != nil {
		siblings = parent.children
	}

	if err := checkReserved(*r.cfg, desc); err != nil {
		return nil, err
	}
	if err := r.checkAliases(desc, siblings); err != nil {
		return nil, err
	}
	if desc.IsDefault {
		if d := defaultNode(siblings); d != nil {
			return nil, fmt.Errorf("%w: '%s' conflicts with '%s'", errs.ErrDuplicateDefault, path, d.Path())
		}
	}

	node := &CommandNode{desc: desc, parent: parent, executor: exec}
	r.nodes.Set(key, node)
	for _, a := range desc.Aliases {
		r.aliases[util.Fold(a)] = node
	}
	if parent != nil {
		parent.children = append(parent.children, node)
	} else {
		r.roots = append(r.roots, node)
	}

	r.log.WithFields(logrus.Fields{
		"command":  path,
		"default":  desc.IsDefault,
		"executor": exec.Kind().String(),
	}).Debug("registered command")

	return node, nil
}

// Remove removes the command at path and all of its descendants. It returns false when no such
// command is registered.
func (r *Registry) Remove(path string) bool {
	node, found := r.Lookup(path)
	if !found {
		return false
	}
	r.remove(node)
	if node.parent != nil {
		node.parent.children = without(node.parent.children, node)
	} else {
		r.roots = without(r.roots, node)
	}
	node.parent = nil

	return true
}

func (r *Registry) remove(node *CommandNode) {
	for _, c := range node.children {
		r.remove(c)
	}
	node.children = nil
	r.nodes.Delete(util.Fold(node.Path()))
	for _, a := range node.desc.Aliases {
		delete(r.aliases, util.Fold(a))
	}
	r.log.WithField("command", node.Path()).Debug("removed command")
}

// Lookup returns the node registered under path (case-insensitive)
func (r *Registry) Lookup(path string) (*CommandNode, bool) {
	v, found := r.nodes.Get(util.Fold(path))
	if !found {
		return nil, false
	}

	return v.(*CommandNode), true
}

// FindAlias returns the node owning alias (case-insensitive). Command names are not aliases.
func (r *Registry) FindAlias(alias string) (*CommandNode, bool) {
	n, ok := r.aliases[util.Fold(alias)]
	return n, ok
}

// Nodes returns every registered node in registration order
func (r *Registry) Nodes() []*CommandNode {
	out := make([]*CommandNode, 0, r.nodes.Len())
	for pair := r.nodes.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value.(*CommandNode))
	}

	return out
}

// Len returns the number of registered commands
func (r *Registry) Len() int {
	return r.nodes.Len()
}

// Roots returns the root commands in registration order
func (r *Registry) Roots() []*CommandNode {
	out := make([]*CommandNode, len(r.roots))
	copy(out, r.roots)

	return out
}

// Root returns the root command matching tok by name or alias
func (r *Registry) Root(tok string) (*CommandNode, bool) {
	return matchNode(r.roots, tok)
}

// Default returns the default root command, nil when there is none
func (r *Registry) Default() *CommandNode {
	return defaultNode(r.roots)
}

// Config returns the configuration the registry checks reserved names against
func (r *Registry) Config() Config {
	return *r.cfg
}

// Sorted returns nodes ordered by help order, keeping registration order for ties
func Sorted(nodes []*CommandNode) []*CommandNode {
	out := make([]*CommandNode, len(nodes))
	copy(out, nodes)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].desc.HelpOrder < out[j].desc.HelpOrder
	})

	return out
}

// CheckConfig reports the first registered command which would clash with the built-ins enabled
// by cfg. It is used to refuse configuration changes made after registration.
func (r *Registry) CheckConfig(cfg Config) error {
	for pair := r.nodes.Oldest(); pair != nil; pair = pair.Next() {
		if err := checkReserved(cfg, pair.Value.(*CommandNode).desc); err != nil {
			return err
		}
	}

	return nil
}

func checkReserved(cfg Config, desc *CommandDescriptor) error {
	reserved := map[string]bool{}
	if cfg.HelpCommand {
		reserved[helpName] = true
	}
	if cfg.VersionCommand {
		reserved[versionName] = true
	}
	for _, name := range append([]string{desc.Name}, desc.Aliases...) {
		if reserved[util.Fold(name)] {
			return fmt.Errorf("%w: '%s' (command '%s')", errs.ErrReservedAlias, name, desc.Path())
		}
	}

	reservedOpts := map[string]bool{}
	if cfg.HelpOption {
		reservedOpts[helpName] = true
	}
	if cfg.VersionOption {
		reservedOpts[versionName] = true
	}
	for _, o := range desc.Options {
		for _, l := range o.Longs() {
			if reservedOpts[l] {
				return fmt.Errorf("%w: '--%s' (command '%s')", errs.ErrReservedOption, l, desc.Path())
			}
		}
	}

	return nil
}

func (r *Registry) checkAliases(desc *CommandDescriptor, siblings []*CommandNode) error {
	for _, s := range siblings {
		for _, a := range s.desc.Aliases {
			if util.EqualFold(a, desc.Name) {
				return fmt.Errorf("%w: name '%s' is an alias of '%s'", errs.ErrDuplicateAlias, desc.Name, s.Path())
			}
		}
	}
	for _, a := range desc.Aliases {
		if owner, found := r.aliases[util.Fold(a)]; found {
			return fmt.Errorf("%w: '%s' of '%s' is already used by '%s'", errs.ErrDuplicateAlias, a, desc.Path(), owner.Path())
		}
		if s, found := matchNode(siblings, a); found {
			return fmt.Errorf("%w: '%s' of '%s' names sibling '%s'", errs.ErrDuplicateAlias, a, desc.Path(), s.Path())
		}
	}

	return nil
}

func checkExecutor(desc *CommandDescriptor, exec Executor) error {
	if !desc.Executable {
		if !exec.IsZero() {
			return fmt.Errorf(errs.FmtErrorWithString, errs.ErrExecutorOnGroup, desc.Path())
		}
		return nil
	}
	if exec.IsZero() {
		return fmt.Errorf(errs.FmtErrorWithString, errs.ErrMissingExecutor, desc.Path())
	}
	if exec.Kind() != ExecutorDirect {
		return nil
	}

	if desc.shapeType == nil {
		return fmt.Errorf("%w: command '%s' has no shape", errs.ErrNotExecutable, desc.Path())
	}
	ptr := reflect.PointerTo(desc.shapeType)
	iface := executableType
	if exec.Async() {
		iface = asyncExecutableType
	}
	if !ptr.Implements(iface) && !desc.shapeType.Implements(iface) {
		return fmt.Errorf("%w: %s does not implement %s (command '%s')", errs.ErrNotExecutable, ptr, iface, desc.Path())
	}

	return nil
}

func without(nodes []*CommandNode, node *CommandNode) []*CommandNode {
	out := nodes[:0]
	for _, n := range nodes {
		if n != node {
			out = append(out, n)
		}
	}

	return out
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return l
}
