package render

import (
	"sync"

	"github.com/aretw0/vellum/pkg/domain"
	"github.com/aretw0/vellum/pkg/typeset"
)

// WorldPool amortizes world setup across renders of the same template.
// Worlds are checked out like a lease: Checkout hands over exclusive
// ownership, Release returns it. A checked-out world is never visible to
// another caller, which keeps the adapter's no-concurrent-use invariant
// without locking inside the world itself.
//
// At most one idle world is kept per template; concurrent renders of
// the same template simply build extra fresh worlds.
type WorldPool struct {
	mu   sync.Mutex
	idle map[domain.TemplateID]*typeset.World
}

// NewWorldPool creates an empty pool.
func NewWorldPool() *WorldPool {
	return &WorldPool{idle: make(map[domain.TemplateID]*typeset.World)}
}

// Checkout returns a world bound to data for the given template:
// a cached one with its data replaced, or a freshly built one. A cached
// world whose source no longer matches the template (the template was
// edited since) is discarded rather than reused.
func (p *WorldPool) Checkout(tmpl domain.Template, data any) (*typeset.World, error) {
	p.mu.Lock()
	world := p.idle[tmpl.ID]
	if world != nil {
		delete(p.idle, tmpl.ID)
	}
	p.mu.Unlock()

	if world != nil && world.Source() == tmpl.Source {
		if err := world.UpdateData(data); err != nil {
			return nil, err
		}
		return world, nil
	}

	return typeset.NewWorld(tmpl.ID, tmpl.Source, data)
}

// Release returns a world to the pool after a completed render. Worlds
// from interrupted renders must be dropped instead, since their state is
// not guaranteed consistent.
func (p *WorldPool) Release(world *typeset.World) {
	if world == nil {
		return
	}
	p.mu.Lock()
	if _, occupied := p.idle[world.TemplateID()]; !occupied {
		p.idle[world.TemplateID()] = world
	}
	p.mu.Unlock()
}

// Evict drops any idle world for the template, e.g. after an update or
// deletion.
func (p *WorldPool) Evict(id domain.TemplateID) {
	p.mu.Lock()
	delete(p.idle, id)
	p.mu.Unlock()
}

// Len reports how many idle worlds the pool holds.
func (p *WorldPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}
