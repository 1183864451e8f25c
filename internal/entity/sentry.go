package entity

// Sentry is the entity kind for an Engineer sentry gun.
type Sentry struct{ building }

func (s *Sentry) Kind() Kind     { return KindSentry }
func (s *Sentry) Handle() Handle { return s.handle }
func (s *Sentry) Origin() Vec3   { return s.Pos }
func (s *Sentry) HasShape() bool { return true }
func (s *Sentry) Shape() Shape   { return buildingShape() }
func (s *Sentry) Owner() Handle  { return s.Builder }

// DecodeSentryInitial constructs a Sentry's initial state.
func DecodeSentryInitial(selfHandle Handle, props Props) *Sentry {
	s := &Sentry{building: building{handle: selfHandle}}
	s.Apply(DecodeSentryPatch(props))
	return s
}

// DecodeSentryPatch is a pure function of props.
func DecodeSentryPatch(props Props) buildingPatch {
	return decodeBuildingPatch(props)
}

// Apply mutates s in place from patch.
func (s *Sentry) Apply(patch buildingPatch) {
	s.apply(patch)
}
