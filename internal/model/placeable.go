package model

// Placeable is a static prop: containers, terminals, furniture.
type Placeable struct {
	*WorldObject

	usable       bool
	hasInventory bool
	open         bool
	itemCount    int
}

// PlaceableProps carries blueprint values for NewPlaceable.
type PlaceableProps struct {
	Usable       bool
	HasInventory bool
	ItemCount    int
}

func NewPlaceable(objectID uint32, tag string, loc Location, props PlaceableProps) *Placeable {
	return &Placeable{
		WorldObject:  NewWorldObject(objectID, ObjectTypePlaceable, tag, loc),
		usable:       props.Usable,
		hasInventory: props.HasInventory,
		itemCount:    props.ItemCount,
	}
}

// Selectable: only usable placeables can be clicked.
func (p *Placeable) Selectable() bool {
	return p.usable
}

func (p *Placeable) IsUsable() bool {
	return p.usable
}

func (p *Placeable) HasInventory() bool {
	return p.hasInventory
}

func (p *Placeable) ItemCount() int {
	return p.itemCount
}

func (p *Placeable) SetItemCount(n int) {
	p.itemCount = n
}

func (p *Placeable) IsOpen() bool {
	return p.open
}

func (p *Placeable) Open() {
	p.open = true
}

func (p *Placeable) Close() {
	p.open = false
}
