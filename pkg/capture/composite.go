package capture

import "sync"

// Composite fans several sources into one event stream.
type Composite struct {
	Emitter

	sources []Source

	mu     sync.Mutex
	active bool
}

// NewComposite wires forwarding from each child source.
func NewComposite(sources ...Source) *Composite {
	c := &Composite{sources: sources}
	for _, src := range sources {
		src.AddHandler(c.Emit)
	}
	return c
}

// Start starts every child; it reports true only when all children started.
func (c *Composite) Start() bool {
	ok := true
	for _, src := range c.sources {
		if !src.Start() {
			ok = false
		}
	}
	c.mu.Lock()
	c.active = ok
	c.mu.Unlock()
	return ok
}

// Stop stops every child; it reports true only when all children stopped.
func (c *Composite) Stop() bool {
	ok := true
	for _, src := range c.sources {
		if !src.Stop() {
			ok = false
		}
	}
	c.mu.Lock()
	c.active = false
	c.mu.Unlock()
	return ok
}

func (c *Composite) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}
