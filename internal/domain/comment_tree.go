package domain

import (
	"github.com/google/uuid"
)

// CommentTree indexes the comments of one post by id and keeps a
// parent -> children index so subtree walks never touch storage. Children
// keep the order the comments were given in.
type CommentTree struct {
	nodes    map[uuid.UUID]*Comment
	children map[uuid.UUID][]uuid.UUID
	roots    []uuid.UUID
}

// NewCommentTree builds the index from a flat list. A comment whose parent
// is not in the list is treated as a root.
func NewCommentTree(comments []*Comment) *CommentTree {
	t := &CommentTree{
		nodes:    make(map[uuid.UUID]*Comment, len(comments)),
		children: make(map[uuid.UUID][]uuid.UUID),
	}
	for _, c := range comments {
		t.nodes[c.ID] = c
	}
	for _, c := range comments {
		if !c.IsTopLevel() {
			if _, ok := t.nodes[*c.ParentID]; ok {
				t.children[*c.ParentID] = append(t.children[*c.ParentID], c.ID)
				continue
			}
		}
		t.roots = append(t.roots, c.ID)
	}
	return t
}

func (t *CommentTree) Len() int {
	return len(t.nodes)
}

func (t *CommentTree) Get(id uuid.UUID) (*Comment, bool) {
	c, ok := t.nodes[id]
	return c, ok
}

func (t *CommentTree) Children(id uuid.UUID) []uuid.UUID {
	return t.children[id]
}

// Levels groups the subtree rooted at id by depth, deepest level first.
// Deleting level by level in this order never removes a comment while a
// reply still points at it.
func (t *CommentTree) Levels(id uuid.UUID) [][]uuid.UUID {
	if _, ok := t.nodes[id]; !ok {
		return nil
	}

	var levels [][]uuid.UUID
	current := []uuid.UUID{id}
	for len(current) > 0 {
		levels = append(levels, current)
		var next []uuid.UUID
		for _, cid := range current {
			next = append(next, t.children[cid]...)
		}
		current = next
	}

	for i, j := 0, len(levels)-1; i < j; i, j = i+1, j-1 {
		levels[i], levels[j] = levels[j], levels[i]
	}
	return levels
}

// Assemble links every comment to its replies and returns the top level
// comments. The Replies slices of the indexed comments are overwritten.
func (t *CommentTree) Assemble() []*Comment {
	for id, c := range t.nodes {
		kids := t.children[id]
		c.Replies = make([]*Comment, 0, len(kids))
		for _, kid := range kids {
			c.Replies = append(c.Replies, t.nodes[kid])
		}
	}

	roots := make([]*Comment, 0, len(t.roots))
	for _, id := range t.roots {
		roots = append(roots, t.nodes[id])
	}
	return roots
}
