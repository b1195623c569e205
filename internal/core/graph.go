package core

import (
	"sort"
	"strings"

	"xctasks/internal/types"
)

// TaskGraph is a validated, immutable set of task declarations.
//
// It is safe for concurrent read access.
type TaskGraph struct {
	nodes    map[string]types.TaskNode
	declared []string
}

// NewTaskGraph validates nodes and rejects:
//   - empty or duplicate task names
//   - unknown task kinds and file tasks without a target
//   - prerequisites naming unknown tasks, self-loops and duplicates
//   - any cycle (direct or indirect)
func NewTaskGraph(nodes []types.TaskNode) (*TaskGraph, error) {
	byName := make(map[string]types.TaskNode, len(nodes))
	declared := make([]string, 0, len(nodes))
	for _, node := range nodes {
		if node.Name == "" {
			return nil, invalidGraphf("task name is required")
		}
		if _, exists := byName[node.Name]; exists {
			return nil, invalidGraphf("duplicate task name: %q", node.Name)
		}
		switch node.Kind {
		case types.TaskKindAlways:
		case types.TaskKindFile:
			if strings.TrimSpace(node.Target) == "" {
				return nil, invalidGraphf("file task %q has no target", node.Name)
			}
		default:
			return nil, invalidGraphf("task %q has unknown kind %q", node.Name, node.Kind)
		}
		byName[node.Name] = node
		declared = append(declared, node.Name)
	}

	for _, name := range declared {
		node := byName[name]
		seen := make(map[string]struct{}, len(node.Prerequisites))
		for _, prereq := range node.Prerequisites {
			if prereq == "" {
				return nil, invalidGraphf("task %q has an empty prerequisite", name)
			}
			if prereq == name {
				return nil, invalidGraphf("self-loop: %q -> %q", name, prereq)
			}
			if _, ok := byName[prereq]; !ok {
				return nil, invalidGraphf("task %q references unknown prerequisite %q", name, prereq)
			}
			if _, dup := seen[prereq]; dup {
				return nil, invalidGraphf("task %q lists prerequisite %q twice", name, prereq)
			}
			seen[prereq] = struct{}{}
		}
	}

	g := &TaskGraph{nodes: byName, declared: declared}
	if cycle := g.findCycle(); len(cycle) > 0 {
		return nil, cycleError(cycle)
	}
	return g, nil
}

// Node returns a node by name.
func (g *TaskGraph) Node(name string) (types.TaskNode, bool) {
	node, ok := g.nodes[name]
	return node, ok
}

func (g *TaskGraph) Has(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// Names returns the task names sorted lexically.
func (g *TaskGraph) Names() []string {
	names := make([]string, len(g.declared))
	copy(names, g.declared)
	sort.Strings(names)
	return names
}

// Closure returns name and every transitive prerequisite, leaf-most first,
// each exactly once.
func (g *TaskGraph) Closure(name string) ([]string, bool) {
	if !g.Has(name) {
		return nil, false
	}
	visited := map[string]struct{}{}
	var order []string
	var visit func(string)
	visit = func(current string) {
		if _, done := visited[current]; done {
			return
		}
		visited[current] = struct{}{}
		for _, prereq := range g.nodes[current].Prerequisites {
			visit(prereq)
		}
		order = append(order, current)
	}
	visit(name)
	return order, true
}

// TopologicalOrder returns every task with prerequisites before dependents.
// Roots are visited in lexical order so the result is deterministic.
func (g *TaskGraph) TopologicalOrder() []string {
	visited := map[string]struct{}{}
	order := make([]string, 0, len(g.nodes))
	for _, name := range g.Names() {
		closure, _ := g.Closure(name)
		for _, item := range closure {
			if _, done := visited[item]; done {
				continue
			}
			visited[item] = struct{}{}
			order = append(order, item)
		}
	}
	return order
}

// findCycle performs a deterministic DFS and returns one cycle witness, or
// nil when the graph is acyclic.
func (g *TaskGraph) findCycle() []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(g.nodes))
	var stack []string
	var cycle []string

	var dfs func(string) bool
	dfs = func(u string) bool {
		color[u] = gray
		stack = append(stack, u)
		for _, v := range g.nodes[u].Prerequisites {
			switch color[v] {
			case white:
				if dfs(v) {
					return true
				}
			case gray:
				start := 0
				for i, name := range stack {
					if name == v {
						start = i
						break
					}
				}
				cycle = append(cycle, stack[start:]...)
				cycle = append(cycle, v)
				return true
			}
		}
		stack = stack[:len(stack)-1]
		color[u] = black
		return false
	}

	for _, name := range g.Names() {
		if color[name] != white {
			continue
		}
		if dfs(name) {
			break
		}
	}
	return cycle
}
