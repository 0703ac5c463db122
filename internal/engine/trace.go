package engine

import (
	"fmt"
	"strconv"

	"github.com/awalterschulze/gographviz"
	"github.com/pkg/errors"

	"github.com/jaminalder/codex-gomoku/internal/domain"
)

// Trace records the tree explored by a search so it can be inspected or dumped
// as Graphviz. A nil *Trace records nothing.
type Trace struct {
	nodes []traceNode
}

type traceNode struct {
	parent int
	move   domain.Move
	mover  domain.Cell
	depth  int
	score  Score
	cutoff bool
}

// NewTrace returns an empty trace.
func NewTrace() *Trace { return &Trace{} }

// Len is the number of recorded nodes, root included.
func (t *Trace) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// Cutoffs is the number of nodes whose remaining siblings were pruned.
func (t *Trace) Cutoffs() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, nd := range t.nodes {
		if nd.cutoff {
			n++
		}
	}
	return n
}

func (t *Trace) root(depth int) int {
	if t == nil {
		return -1
	}
	t.nodes = append(t.nodes, traceNode{parent: -1, depth: depth})
	return len(t.nodes) - 1
}

func (t *Trace) open(parent int, m domain.Move, mover domain.Cell, depth int) int {
	if t == nil {
		return -1
	}
	t.nodes = append(t.nodes, traceNode{parent: parent, move: m, mover: mover, depth: depth})
	return len(t.nodes) - 1
}

func (t *Trace) close(id int, s Score) {
	if t == nil || id < 0 {
		return
	}
	t.nodes[id].score = s
}

func (t *Trace) cutoff(id int) {
	if t == nil || id < 0 {
		return
	}
	t.nodes[id].cutoff = true
}

// DOT renders the recorded tree as a Graphviz digraph. Nodes under a cutoff are
// drawn dashed.
func (t *Trace) DOT() (string, error) {
	g := gographviz.NewGraph()
	if err := g.SetName("search"); err != nil {
		return "", errors.WithStack(err)
	}
	if err := g.SetDir(true); err != nil {
		return "", errors.WithStack(err)
	}
	if t == nil {
		return g.String(), nil
	}
	for i, nd := range t.nodes {
		attrs := map[string]string{"label": strconv.Quote(nd.label())}
		if nd.cutoff {
			attrs["style"] = "dashed"
		}
		if err := g.AddNode("search", nodeName(i), attrs); err != nil {
			return "", errors.Wrapf(err, "add node %d", i)
		}
		if nd.parent < 0 {
			continue
		}
		if err := g.AddEdge(nodeName(nd.parent), nodeName(i), true, nil); err != nil {
			return "", errors.Wrapf(err, "add edge %d->%d", nd.parent, i)
		}
	}
	return g.String(), nil
}

func nodeName(i int) string { return "n" + strconv.Itoa(i) }

func (nd traceNode) label() string {
	if nd.parent < 0 {
		return fmt.Sprintf("root d=%d %g", nd.depth, float64(nd.score))
	}
	return fmt.Sprintf("%v (%d,%d) %g", nd.mover, nd.move.Row, nd.move.Col, float64(nd.score))
}
