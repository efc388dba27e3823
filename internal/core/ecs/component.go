package ecs

// Transform is assigned to every entity by Allocate. Rotation is a
// quaternion (x, y, z, w); Matrix is column-major and maintained by the
// transform subsystem, not by the registry.
type Transform struct {
	Matrix   [16]float32
	Position [3]float32
	Rotation [4]float32
	Scale    [3]float32
}

// NewTransform returns the identity transform.
func NewTransform() Transform {
	return Transform{
		Matrix: [16]float32{
			1, 0, 0, 0,
			0, 1, 0, 0,
			0, 0, 1, 0,
			0, 0, 0, 1,
		},
		Rotation: [4]float32{0, 0, 0, 1},
		Scale:    [3]float32{1, 1, 1},
	}
}

// Translate moves the position by (dx, dy, dz) and keeps the matrix
// translation column in sync.
func (t *Transform) Translate(dx, dy, dz float32) {
	t.SetPosition(t.Position[0]+dx, t.Position[1]+dy, t.Position[2]+dz)
}

func (t *Transform) SetPosition(x, y, z float32) {
	t.Position = [3]float32{x, y, z}
	t.Matrix[12], t.Matrix[13], t.Matrix[14] = x, y, z
}

// Relationship links an entity into a parent/child tree. Children of one
// parent form a singly linked list through NextSibling. Unset links hold
// the tombstone.
type Relationship[E Identifier[E]] struct {
	Parent      E
	FirstChild  E
	NextSibling E
}

func NewRelationship[E Identifier[E]]() Relationship[E] {
	tomb := Tombstone[E]()
	return Relationship[E]{Parent: tomb, FirstChild: tomb, NextSibling: tomb}
}
