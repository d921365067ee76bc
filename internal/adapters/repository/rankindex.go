package repository

import (
	"math"
	"math/rand/v2"
)

// Treap-backed per-job rank index.
//
// Ordering: overall score DESC, then match score DESC, then applicant ID ASC.
// In-order traversal yields the candidate list from best to worst, matching
// the engine-wide ranking order.

// scoreScale converts 0-100 float scores to fixed point so ordering is exact.
const scoreScale = 1_000_000_000

type scoreFP int64

func toFixedPoint(x float64) scoreFP {
	if math.IsNaN(x) {
		return 0
	}
	return scoreFP(math.Round(x * scoreScale))
}

// rankKey is the composite sort key of one candidate.
type rankKey struct {
	overall scoreFP
	match   scoreFP
	id      string
}

// keyLess reports whether a ranks before b.
func keyLess(a, b rankKey) bool {
	if a.overall != b.overall {
		return a.overall > b.overall
	}
	if a.match != b.match {
		return a.match > b.match
	}
	return a.id < b.id
}

type rankNode struct {
	key   rankKey
	prio  uint64
	left  *rankNode
	right *rankNode
	size  int
}

func nodeSize(n *rankNode) int {
	if n == nil {
		return 0
	}
	return n.size
}

func refresh(n *rankNode) {
	if n != nil {
		n.size = 1 + nodeSize(n.left) + nodeSize(n.right)
	}
}

func rotateRight(y *rankNode) *rankNode {
	x := y.left
	y.left = x.right
	x.right = y
	refresh(y)
	refresh(x)
	return x
}

func rotateLeft(x *rankNode) *rankNode {
	y := x.right
	x.right = y.left
	y.left = x
	refresh(x)
	refresh(y)
	return y
}

func treapInsert(n *rankNode, key rankKey) *rankNode {
	if n == nil {
		return &rankNode{key: key, prio: rand.Uint64(), size: 1}
	}
	if keyLess(key, n.key) {
		n.left = treapInsert(n.left, key)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = treapInsert(n.right, key)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	refresh(n)
	return n
}

func treapDelete(n *rankNode, key rankKey) *rankNode {
	if n == nil {
		return nil
	}
	switch {
	case key == n.key:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = treapDelete(n.right, key)
		} else {
			n = rotateLeft(n)
			n.left = treapDelete(n.left, key)
		}
	case keyLess(key, n.key):
		n.left = treapDelete(n.left, key)
	default:
		n.right = treapDelete(n.right, key)
	}
	refresh(n)
	return n
}

// collect appends up to limit applicant IDs in rank order.
func collect(n *rankNode, limit int, out *[]string) {
	if n == nil || len(*out) >= limit {
		return
	}
	collect(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, n.key.id)
	}
	collect(n.right, limit, out)
}

// rankIndex keeps one job's candidates ordered. Not safe for concurrent use;
// the owning store serializes access.
type rankIndex struct {
	root *rankNode
}

func (ix *rankIndex) insert(overall, match float64, applicantID string) {
	ix.root = treapInsert(ix.root, rankKey{overall: toFixedPoint(overall), match: toFixedPoint(match), id: applicantID})
}

func (ix *rankIndex) remove(overall, match float64, applicantID string) {
	ix.root = treapDelete(ix.root, rankKey{overall: toFixedPoint(overall), match: toFixedPoint(match), id: applicantID})
}

// top returns up to limit applicant IDs, best first.
func (ix *rankIndex) top(limit int) []string {
	if limit <= 0 {
		limit = nodeSize(ix.root)
	}
	out := make([]string, 0, min(limit, nodeSize(ix.root)))
	collect(ix.root, limit, &out)
	return out
}

func (ix *rankIndex) len() int {
	return nodeSize(ix.root)
}
