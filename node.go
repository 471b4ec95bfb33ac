package cmdtree

// CommandNode is a registered command: the descriptor plus its position in the tree and its
// executor. Nodes are owned by the Registry that created them.
type CommandNode struct {
	desc     *CommandDescriptor
	parent   *CommandNode
	children []*CommandNode
	executor Executor
}

// Descriptor returns the static metadata of the command
func (n *CommandNode) Descriptor() *CommandDescriptor {
	return n.desc
}

func (n *CommandNode) Name() string {
	return n.desc.Name
}

// Path returns the identity of the command in the registry
func (n *CommandNode) Path() string {
	return n.desc.Path()
}

// Parent returns the parent node, nil for root commands
func (n *CommandNode) Parent() *CommandNode {
	return n.parent
}

// Children returns a snapshot of the child nodes in registration order
func (n *CommandNode) Children() []*CommandNode {
	out := make([]*CommandNode, len(n.children))
	copy(out, n.children)

	return out
}

func (n *CommandNode) HasChildren() bool {
	return len(n.children) > 0
}

// Child returns the child matching tok by name or alias (case-insensitive)
func (n *CommandNode) Child(tok string) (*CommandNode, bool) {
	return matchNode(n.children, tok)
}

// DefaultChild returns the child marked as default, if any
func (n *CommandNode) DefaultChild() *CommandNode {
	return defaultNode(n.children)
}

// IsExecutable reports whether the command can be dispatched
func (n *CommandNode) IsExecutable() bool {
	return n.desc.Executable
}

// Executor returns the executor binding of the command
func (n *CommandNode) Executor() Executor {
	return n.executor
}

// Depth returns 0 for root commands, 1 for their children and so on
func (n *CommandNode) Depth() int {
	depth := 0
	for p := n.parent; p != nil; p = p.parent {
		depth++
	}

	return depth
}

// Lineage returns the nodes from the root down to n
func (n *CommandNode) Lineage() []*CommandNode {
	var out []*CommandNode
	for p := n; p != nil; p = p.parent {
		out = append([]*CommandNode{p}, out...)
	}

	return out
}

// Visit calls fn for n and every descendant, depth first in registration order. Returning false
// from fn skips the descendants of that node.
func (n *CommandNode) Visit(fn func(node *CommandNode) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Visit(fn)
	}
}

// terminal follows the default-child chain from n to the first executable node. It returns nil
// when the chain ends on a command which cannot be dispatched.
func (n *CommandNode) terminal() *CommandNode {
	for cur := n; cur != nil; cur = cur.DefaultChild() {
		if cur.IsExecutable() {
			return cur
		}
	}

	return nil
}

func matchNode(nodes []*CommandNode, tok string) (*CommandNode, bool) {
	for _, c := range nodes {
		if c.desc.Matches(tok) {
			return c, true
		}
	}

	return nil, false
}

func defaultNode(nodes []*CommandNode) *CommandNode {
	for _, c := range nodes {
		if c.desc.IsDefault {
			return c
		}
	}

	return nil
}
