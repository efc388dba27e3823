package ecs

import "fmt"

// Identifier is the constraint every entity representation satisfies.
// The conversion methods are called on the zero value, so they act as the
// per-width traits: With builds an identifier from parts, FromType decodes
// the opaque integer form produced by ToType.
type Identifier[E any] interface {
	comparable
	Index() uint32
	Generation() uint32
	With(index, generation uint32) E
	ToType() uint64
	FromType(v uint64) E
	Tombstone() E
}

// Bit layout of the compact identifier: 22 bits index, 10 bits generation.
const (
	Entity32IndexBits       = 22
	Entity32IndexMask       = 1<<Entity32IndexBits - 1
	Entity32GenerationShift = Entity32IndexBits
	Entity32GenerationMask  = 1<<(32-Entity32IndexBits) - 1
)

// Bit layout of the wide identifier's integer form: index low, generation high.
const (
	Entity64IndexMask       = 1<<32 - 1
	Entity64GenerationShift = 32
	Entity64GenerationMask  = 1<<32 - 1
)

// Entity32 packs index and generation into one 32-bit word.
// The all-ones word is the tombstone.
type Entity32 uint32

func NewEntity32(index, generation uint32) Entity32 {
	return Entity32((generation&Entity32GenerationMask)<<Entity32GenerationShift | index&Entity32IndexMask)
}

func (e Entity32) Index() uint32     { return uint32(e) & Entity32IndexMask }
func (e Entity32) ToType() uint64    { return uint64(e) }
func (Entity32) Tombstone() Entity32 { return ^Entity32(0) }

func (e Entity32) Generation() uint32 {
	return uint32(e) >> Entity32GenerationShift & Entity32GenerationMask
}

func (Entity32) With(index, generation uint32) Entity32 { return NewEntity32(index, generation) }

// FromType keeps the low 32 bits; any bit pattern decodes to some pair.
func (Entity32) FromType(v uint64) Entity32 { return Entity32(uint32(v)) }

func (e Entity32) String() string {
	if e == e.Tombstone() {
		return "entity(tombstone)"
	}
	return fmt.Sprintf("entity(%d:%d)", e.Index(), e.Generation())
}

// Entity64 holds index and generation as two full 32-bit fields.
type Entity64 struct {
	index      uint32
	generation uint32
}

func NewEntity64(index, generation uint32) Entity64 {
	return Entity64{index: index, generation: generation}
}

func (e Entity64) Index() uint32      { return e.index }
func (e Entity64) Generation() uint32 { return e.generation }
func (Entity64) Tombstone() Entity64  { return Entity64{index: ^uint32(0), generation: ^uint32(0)} }

func (Entity64) With(index, generation uint32) Entity64 { return NewEntity64(index, generation) }

func (e Entity64) ToType() uint64 {
	return uint64(e.generation)<<Entity64GenerationShift | uint64(e.index)
}

func (Entity64) FromType(v uint64) Entity64 {
	return Entity64{
		index:      uint32(v & Entity64IndexMask),
		generation: uint32(v >> Entity64GenerationShift & Entity64GenerationMask),
	}
}

func (e Entity64) String() string {
	if e == e.Tombstone() {
		return "entity(tombstone)"
	}
	return fmt.Sprintf("entity(%d:%d)", e.index, e.generation)
}

// Tombstone returns the reserved "no entity" value of E.
func Tombstone[E Identifier[E]]() E {
	var zero E
	return zero.Tombstone()
}

// FromType decodes the integer form of an identifier of width E.
func FromType[E Identifier[E]](v uint64) E {
	var zero E
	return zero.FromType(v)
}

// maxIndex is the first index that can never be handed out; it doubles as
// the end-of-list marker in index-threaded lists.
func maxIndex[E Identifier[E]]() uint32 {
	return Tombstone[E]().Index()
}

// maxGeneration is the last generation a slot may carry; the next bump
// would wrap to zero.
func maxGeneration[E Identifier[E]]() uint32 {
	return Tombstone[E]().Generation()
}
