package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"xctasks/internal/types"
)

// Registry collects task declarations during the configuration step. It is
// not safe for concurrent use; Build freezes it into a TaskGraph.
type Registry struct {
	order []string
	nodes map[string]types.TaskNode
}

func NewRegistry() *Registry {
	return &Registry{nodes: map[string]types.TaskNode{}}
}

// Register adds a node. Registering a name twice is an error; use Override
// when replacing a declaration is intended.
func (r *Registry) Register(node types.TaskNode) error {
	node = normalizeNode(node)
	if node.Name == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("task name is required")
	}
	if _, exists := r.nodes[node.Name]; exists {
		return errbuilder.New().
			WithCode(errbuilder.CodeAlreadyExists).
			WithMsg(fmt.Sprintf("task already registered: %s", node.Name))
	}
	r.order = append(r.order, node.Name)
	r.nodes[node.Name] = node
	return nil
}

// RegisterIf registers node only when cond holds. The decision is made once,
// at graph construction time.
func (r *Registry) RegisterIf(cond bool, node types.TaskNode) error {
	if !cond {
		return nil
	}
	return r.Register(node)
}

// Override replaces an existing declaration, or adds it when absent.
func (r *Registry) Override(node types.TaskNode) error {
	node = normalizeNode(node)
	if node.Name == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("task name is required")
	}
	if _, exists := r.nodes[node.Name]; !exists {
		r.order = append(r.order, node.Name)
	}
	r.nodes[node.Name] = node
	return nil
}

func (r *Registry) Has(name string) bool {
	_, ok := r.nodes[strings.TrimSpace(name)]
	return ok
}

// Build validates the declarations and returns the immutable graph.
func (r *Registry) Build() (*TaskGraph, error) {
	nodes := make([]types.TaskNode, 0, len(r.order))
	for _, name := range r.order {
		nodes = append(nodes, r.nodes[name])
	}
	return NewTaskGraph(nodes)
}

func normalizeNode(node types.TaskNode) types.TaskNode {
	node.Name = strings.TrimSpace(node.Name)
	if node.Kind == "" {
		node.Kind = types.TaskKindAlways
	}
	prereqs := make([]string, 0, len(node.Prerequisites))
	for _, name := range node.Prerequisites {
		prereqs = append(prereqs, strings.TrimSpace(name))
	}
	node.Prerequisites = prereqs
	return node
}
