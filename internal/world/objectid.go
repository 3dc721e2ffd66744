package world

import "github.com/udisondev/areasim/internal/model"

// IDGenerator hands out object ids. Each object kind owns a range so an
// id alone tells what it refers to in logs:
//
//	0x00000000: invalid
//	0x01000000 - 0x01FFFFFF: creatures
//	0x02000000 - 0x02FFFFFF: doors
//	...one 16M range per model.ObjectType, in declaration order.
//
// Not safe for concurrent use; the area owns its generator.
type IDGenerator struct {
	next map[model.ObjectType]uint32
}

// NewIDGenerator creates a generator with every range at its start.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{next: make(map[model.ObjectType]uint32)}
}

const kindShift = 24

// Next returns the next id for kind.
func (g *IDGenerator) Next(kind model.ObjectType) uint32 {
	n := g.next[kind] + 1
	g.next[kind] = n
	return uint32(kind)<<kindShift | n
}

// KindOf returns the kind encoded in id.
func KindOf(id uint32) model.ObjectType {
	return model.ObjectType(id >> kindShift)
}
