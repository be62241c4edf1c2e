package entity

// Advance returns e moved by its speed along every set direction flag.
// Coordinates saturate at 0 and at the bounds instead of wrapping around.
func Advance(e Entity, b Bounds) Entity {
	if e.Direction.Still() || e.Speed == 0 {
		return e
	}
	speed := int(e.Speed)
	x, y := int(e.Position.X), int(e.Position.Y)

	if e.Direction.Up {
		y -= speed
	}
	if e.Direction.Down {
		y += speed
	}
	if e.Direction.Left {
		x -= speed
	}
	if e.Direction.Right {
		x += speed
	}

	e.Position = Position{
		X: saturate(x, b.MaxX),
		Y: saturate(y, b.MaxY),
	}
	return e
}

// AdvanceAll advances every entity in place.
func AdvanceAll(entities []Entity, b Bounds) {
	for i := range entities {
		entities[i] = Advance(entities[i], b)
	}
}

func saturate(v int, max uint16) uint16 {
	switch {
	case v < 0:
		return 0
	case v > int(max):
		return max
	default:
		return uint16(v)
	}
}
