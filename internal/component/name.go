package component

// Name is a display label, usually the prefab an entity was spawned from.
type Name struct {
	Value string
}
