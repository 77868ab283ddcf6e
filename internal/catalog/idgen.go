package catalog

import "fmt"

// IDGenerator produces sequential widget ids.
type IDGenerator struct {
	Prefix string
	id     int
}

// NewIDGenerator creates a new ID generator.
func NewIDGenerator(prefix string) *IDGenerator {
	return &IDGenerator{Prefix: prefix}
}

// Reset resets the counter to 0.
func (g *IDGenerator) Reset() {
	g.id = 0
}

// Next returns the next widget id.
func (g *IDGenerator) Next() string {
	g.id++
	return fmt.Sprintf("%s-%d", g.Prefix, g.id)
}
