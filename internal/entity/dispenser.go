package entity

// Dispenser is the entity kind for an Engineer dispenser.
type Dispenser struct{ building }

func (d *Dispenser) Kind() Kind     { return KindDispenser }
func (d *Dispenser) Handle() Handle { return d.handle }
func (d *Dispenser) Origin() Vec3   { return d.Pos }
func (d *Dispenser) HasShape() bool { return true }
func (d *Dispenser) Shape() Shape   { return buildingShape() }
func (d *Dispenser) Owner() Handle  { return d.Builder }

// DecodeDispenserInitial constructs a Dispenser's initial state.
func DecodeDispenserInitial(selfHandle Handle, props Props) *Dispenser {
	d := &Dispenser{building: building{handle: selfHandle}}
	d.Apply(decodeBuildingPatch(props))
	return d
}

// DecodeDispenserPatch is a pure function of props.
func DecodeDispenserPatch(props Props) buildingPatch {
	return decodeBuildingPatch(props)
}

// Apply mutates d in place from patch.
func (d *Dispenser) Apply(patch buildingPatch) {
	d.apply(patch)
}
