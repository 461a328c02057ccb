package flowchart

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultGenerationMessage is reported when the service gave no reason.
const DefaultGenerationMessage = "text generation failed"

// Generator turns a generation request into prose.
// Failures should be reported as *GenerationError.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// GenerationError is any failure of the outbound generation call.
// Status is the HTTP status when the service answered, zero otherwise.
type GenerationError struct {
	Status  int
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("flowchart: generation failed (status %d): %s", e.Status, e.Message)
	}
	return "flowchart: generation failed: " + e.Message
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Generation is one stored (or superseded) generation result.
type Generation struct {
	Seq       int64     `json:"seq"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	// Stale is set when a later request had already stored its result;
	// a stale generation is returned to its caller but not stored.
	Stale     bool      `json:"stale,omitempty"`
}

// RequestGeneration sends the current flowchart to the generator and stores
// the returned text as the current result. The flowchart stays editable
// while the call is in flight. On failure the previous result is kept and
// a *GenerationError is returned.
func (c *Controller) RequestGeneration(ctx context.Context) (Generation, error) {
	if c.gen == nil {
		return Generation{}, &GenerationError{Message: "no text generator configured"}
	}

	req, err := c.BuildGenerationRequest(ctx)
	if err != nil {
		return Generation{}, err
	}

	c.genMu.Lock()
	c.issued++
	seq := c.issued
	c.genMu.Unlock()

	start := c.now()
	text, err := c.gen.Generate(ctx, req)
	if err != nil {
		var ge *GenerationError
		if !errors.As(err, &ge) {
			ge = &GenerationError{Message: DefaultGenerationMessage, Err: err}
		}
		c.logger.Error("generation failed", "seq", seq, "status", ge.Status, "error", ge)
		return Generation{}, ge
	}

	g := Generation{Seq: seq, Text: text, CreatedAt: c.now()}

	c.genMu.Lock()
	if c.result != nil && c.result.Seq > seq {
		g.Stale = true
	} else {
		stored := g
		c.result = &stored
	}
	c.genMu.Unlock()

	c.logger.Info("generation completed", "seq", seq, "stale", g.Stale, "duration", c.now().Sub(start))
	return g, nil
}

// Result returns the current generation result, if any.
func (c *Controller) Result() (Generation, bool) {
	c.genMu.Lock()
	defer c.genMu.Unlock()

	if c.result == nil {
		return Generation{}, false
	}
	return *c.result, true
}
