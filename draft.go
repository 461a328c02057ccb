package flowchart

import (
	"context"
	"sync"
)

// KeyEnter is the key that commits a focused field.
const KeyEnter = "Enter"

// Field holds the in-progress text of one label input. Keystrokes land in
// the draft only; the canonical label changes when the field is blurred or
// Enter is pressed, and both paths commit exactly once.
type Field struct {
	mu      sync.Mutex
	load    func(ctx context.Context) (string, error)
	commit  func(ctx context.Context, text string) error
	focused bool
	draft   string
}

// NewField creates a field that reads the canonical text through load and
// promotes the draft through commit.
func NewField(load func(ctx context.Context) (string, error), commit func(ctx context.Context, text string) error) *Field {
	return &Field{load: load, commit: commit}
}

// Focus starts an edit session with the draft set to the canonical text.
// Focusing an already focused field keeps its draft.
func (f *Field) Focus(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.focusLocked(ctx)
}

func (f *Field) focusLocked(ctx context.Context) error {
	if f.focused {
		return nil
	}
	text, err := f.load(ctx)
	if err != nil {
		return err
	}
	f.draft = text
	f.focused = true
	return nil
}

// Input replaces the draft with text, focusing the field first if needed.
func (f *Field) Input(ctx context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.focusLocked(ctx); err != nil {
		return err
	}
	f.draft = text
	return nil
}

// Value returns what the input currently shows.
func (f *Field) Value() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Focused reports whether an edit session is open.
func (f *Field) Focused() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.focused
}

// Blur ends the edit session and commits the draft. Blurring an unfocused
// field does nothing. On a failed commit the session stays open.
func (f *Field) Blur(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.focused {
		return nil
	}
	f.focused = false
	if err := f.commit(ctx, f.draft); err != nil {
		f.focused = true
		return err
	}
	return nil
}

// KeyDown handles a key pressed while the field is focused. Enter drops
// focus, which commits through Blur; other keys are plain typing.
func (f *Field) KeyDown(ctx context.Context, key string) error {
	if key != KeyEnter {
		return nil
	}
	return f.Blur(ctx)
}

// NodeLabelField returns the label input of an existing node.
// The same field is returned for repeated calls.
func (c *Controller) NodeLabelField(ctx context.Context, nodeID string) (*Field, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.store.GetNode(ctx, nodeID); err != nil {
		return nil, c.invalidRef("node label field", err, "node_id", nodeID)
	}
	key := "node:" + nodeID
	if f, ok := c.fields[key]; ok {
		return f, nil
	}
	f := NewField(
		func(ctx context.Context) (string, error) {
			n, err := c.store.GetNode(ctx, nodeID)
			if err != nil {
				return "", err
			}
			return n.Label, nil
		},
		func(ctx context.Context, text string) error {
			_, err := c.CommitNodeLabel(ctx, nodeID, text)
			return err
		},
	)
	c.fields[key] = f
	return f, nil
}

// EdgeLabelField returns the label input of an existing edge.
func (c *Controller) EdgeLabelField(ctx context.Context, edgeID string) (*Field, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.store.GetEdge(ctx, edgeID); err != nil {
		return nil, c.invalidRef("edge label field", err, "edge_id", edgeID)
	}
	key := "edge:" + edgeID
	if f, ok := c.fields[key]; ok {
		return f, nil
	}
	f := NewField(
		func(ctx context.Context) (string, error) {
			e, err := c.store.GetEdge(ctx, edgeID)
			if err != nil {
				return "", err
			}
			return e.Label, nil
		},
		func(ctx context.Context, text string) error {
			_, err := c.CommitEdgeLabel(ctx, edgeID, text)
			return err
		},
	)
	c.fields[key] = f
	return f, nil
}
