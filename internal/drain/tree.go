package drain

import (
	"strconv"
	"strings"

	"github.com/bimmerbailey/drift/internal/mask"
)

// node is one routing level of the parse tree. The root branches by
// token count; deeper levels branch by literal token value, with a
// shared Wildcard child for parameter-like tokens. Only leaves hold
// cluster ids, ordered most-recently-matched first.
type node struct {
	children   map[string]*node
	clusterIDs []int64
}

func newNode() *node {
	return &node{children: make(map[string]*node)}
}

// tree routes a token sequence to the single leaf whose clusters are
// candidates for it. Depth is fixed at construction: one level for the
// token count plus up to maxDepth-2 token levels.
type tree struct {
	root        *node
	maxDepth    int
	maxChildren int
	maxPerLeaf  int
}

func newTree(maxDepth, maxChildren, maxPerLeaf int) *tree {
	return &tree{
		root:        newNode(),
		maxDepth:    maxDepth,
		maxChildren: maxChildren,
		maxPerLeaf:  maxPerLeaf,
	}
}

// branchKey normalizes a token for routing. Masked placeholders, the
// wildcard itself, and tokens carrying digits all route through the
// shared wildcard branch so the tree never fragments on variable data.
func branchKey(token string) string {
	if token == Wildcard || mask.IsPlaceholder(token) || hasDigits(token) {
		return Wildcard
	}
	return token
}

func hasDigits(token string) bool {
	return strings.ContainsAny(token, "0123456789")
}

// tokenLevels returns how many token positions participate in routing
// for a line of the given length.
func (t *tree) tokenLevels(tokenCount int) int {
	levels := t.maxDepth - 2
	if levels > tokenCount {
		levels = tokenCount
	}
	return levels
}

// lookup routes tokens to their leaf without modifying the tree.
// Returns nil when no line of this shape has ever been inserted.
func (t *tree) lookup(tokens []string) *node {
	cur, ok := t.root.children[strconv.Itoa(len(tokens))]
	if !ok {
		return nil
	}

	for i := 0; i < t.tokenLevels(len(tokens)); i++ {
		key := branchKey(tokens[i])
		next, ok := cur.children[key]
		if !ok && key != Wildcard {
			next, ok = cur.children[Wildcard]
		}
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// insert routes tokens to their leaf, creating intermediate nodes
// lazily, and prepends the cluster id there. When the leaf cap is
// enabled and exceeded, the least-recently-matched cluster is evicted
// and its id returned; otherwise the second return is 0.
func (t *tree) insert(tokens []string, id int64) (leaf *node, evicted int64) {
	lengthKey := strconv.Itoa(len(tokens))
	cur, ok := t.root.children[lengthKey]
	if !ok {
		cur = newNode()
		t.root.children[lengthKey] = cur
	}

	for i := 0; i < t.tokenLevels(len(tokens)); i++ {
		key := branchKey(tokens[i])
		if key != Wildcard && cur.children[key] == nil && len(cur.children) >= t.maxChildren {
			// Node is full: overflow tokens share the wildcard branch.
			key = Wildcard
		}
		next, ok := cur.children[key]
		if !ok {
			next = newNode()
			cur.children[key] = next
		}
		cur = next
	}

	cur.clusterIDs = append([]int64{id}, cur.clusterIDs...)
	if t.maxPerLeaf > 0 && len(cur.clusterIDs) > t.maxPerLeaf {
		last := len(cur.clusterIDs) - 1
		evicted = cur.clusterIDs[last]
		cur.clusterIDs = cur.clusterIDs[:last]
	}
	return cur, evicted
}

// touch moves a matched cluster to the front of its leaf so hot
// clusters are scored first and eviction targets the cold tail.
func (n *node) touch(id int64) {
	for i, existing := range n.clusterIDs {
		if existing == id {
			if i > 0 {
				copy(n.clusterIDs[1:i+1], n.clusterIDs[:i])
				n.clusterIDs[0] = id
			}
			return
		}
	}
}
