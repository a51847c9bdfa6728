package history

import (
	"context"
	"sync"

	"github.com/verte-zerg/shukong/internal/hanzi"
)

// Cart collects texts queued for printing practice sheets.
// The total number of ideographs across all items is capped.
type Cart struct {
	mu       sync.Mutex
	store    record
	capacity int
	items    []string
}

// NewCart loads the cart from backend.
func NewCart(ctx context.Context, backend Backend, opts ...Option) (*Cart, error) {
	o := buildOptions(CartCharCap, opts)
	c := &Cart{
		store:    record{backend: backend, key: KeyCart, log: o.log},
		capacity: o.capacity,
	}
	raw, err := c.store.load(ctx)
	if err != nil {
		return nil, err
	}
	c.store.decode(raw, &c.items)
	return c, nil
}

// Add appends item unless it is already present or the cart is full.
// It reports whether the item was added.
func (c *Cart) Add(ctx context.Context, item string) (bool, error) {
	if item == "" {
		return false, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.items {
		if existing == item {
			return false, nil
		}
	}
	if c.countLocked() >= c.capacity {
		return false, nil
	}
	c.items = append(c.items, item)
	return true, c.save(ctx)
}

// Remove deletes item when present.
func (c *Cart) Remove(ctx context.Context, item string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.items {
		if existing == item {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true, c.save(ctx)
		}
	}
	return false, nil
}

// Items returns the cart contents in insertion order.
func (c *Cart) Items() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.items))
	copy(out, c.items)
	return out
}

// CountCharacters returns the number of ideographs across all items.
func (c *Cart) CountCharacters() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.countLocked()
}

// Clear empties the cart.
func (c *Cart) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	return c.save(ctx)
}

func (c *Cart) countLocked() int {
	total := 0
	for _, item := range c.items {
		total += hanzi.Count(item)
	}
	return total
}

func (c *Cart) save(ctx context.Context) error {
	if c.items == nil {
		return c.store.save(ctx, []string{})
	}
	return c.store.save(ctx, c.items)
}
