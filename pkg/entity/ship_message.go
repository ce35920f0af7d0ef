package entity

import "github.com/opd-ai/go-starcruiser/pkg/physics"

// ToPlayerShipMessage renders the ship for ship selection.
func (s *Ship) ToPlayerShipMessage() PlayerShipMessage {
	return PlayerShipMessage{
		ID:        s.ID,
		Name:      s.Designation,
		ShipClass: s.Template.ClassName,
	}
}

// ToMessage renders the full ship state for its own crew. ships resolves
// names of scan and map selection targets and may be nil.
func (s *Ship) ToMessage(ships ShipLookup) ShipMessage {
	msg := ShipMessage{
		ID:                   s.ID,
		Designation:          s.Designation,
		ShipClass:            s.Template.ClassName,
		Faction:              s.Faction.Name,
		Position:             s.Position.Round(2),
		Speed:                s.Speed.Round(2),
		Rotation:             physics.Round(s.Rotation, 4),
		Heading:              physics.Round(s.Heading(), 2),
		Velocity:             physics.Round(s.Speed.Length(), 2),
		Throttle:             s.Throttle,
		Thrust:               physics.Round(s.Thrust, 2),
		Rudder:               s.Rudder,
		Hull:                 physics.Round(s.Hull, 2),
		HullMax:              s.Template.Hull,
		History:              s.history.Samples(),
		ShortRangeScopeRange: s.Template.ShortRangeScopeRange,
		SensorRange:          physics.Round(s.SensorRange(), 2),
		Waypoints:            make([]WaypointMessage, 0, s.waypoints.Len()),
		LockProgress:         LockProgress{Status: s.lock.Status()},
		Beams:                make([]BeamMessage, 0, len(s.beams)),
		Tubes:                make([]TubeMessage, 0, len(s.tubes)),
		Magazine:             s.Magazine,
		Shield:               s.shield.ToMessage(),
		JumpDrive:            s.jump.ToMessage(),
		Power:                s.power.ToMessage(),
		MapSelection:         s.mapSelectionMessage(ships),
	}
	for _, wp := range s.waypoints.All() {
		msg.Waypoints = append(msg.Waypoints, wp.toMessage(s.Position))
	}
	if s.scan != nil {
		msg.ScanProgress = &ScanProgress{
			TargetID:    s.scan.TargetID,
			Designation: designationOf(ships, s.scan.TargetID),
			Progress:    physics.Round(s.scan.Progress(), 2),
		}
	}
	if s.lock != nil {
		msg.LockProgress.TargetID = s.lock.TargetID
		msg.LockProgress.Progress = physics.Round(s.lock.Progress(), 2)
	}
	for _, b := range s.beams {
		msg.Beams = append(msg.Beams, b.ToMessage())
	}
	for _, t := range s.tubes {
		msg.Tubes = append(msg.Tubes, t.ToMessage())
	}
	return msg
}

// ToContactMessage renders the ship as seen by observer.
func (s *Ship) ToContactMessage(observer *Ship) ContactMessage {
	relative := s.Position.Sub(observer.Position)
	return ContactMessage{
		ID:               s.ID,
		Type:             observer.ContactTypeOf(s),
		ScanLevel:        observer.ScanLevelOf(s.ID),
		Designation:      s.Designation,
		Position:         s.Position.Round(2),
		RelativePosition: relative.Round(2),
		Speed:            s.Speed.Round(2),
		Rotation:         physics.Round(s.Rotation, 4),
		Heading:          physics.Round(s.Heading(), 2),
		Bearing:          physics.Round(relative.Heading(), 2),
		Velocity:         physics.Round(s.Speed.Length(), 2),
		History:          s.history.Samples(),
		Locked:           observer.lock != nil && observer.lock.TargetID == s.ID,
	}
}

// ToScopeContactMessage renders the ship for observer's short range scope.
func (s *Ship) ToScopeContactMessage(observer *Ship) ScopeContactMessage {
	return ScopeContactMessage{
		ID:               s.ID,
		Type:             observer.ContactTypeOf(s),
		Designation:      s.Designation,
		RelativePosition: s.Position.Sub(observer.Position).Round(2),
		Rotation:         physics.Round(s.Rotation, 4),
		Locked:           observer.lock != nil && observer.lock.TargetID == s.ID,
	}
}

func (s *Ship) mapSelectionMessage(ships ShipLookup) *MapSelectionMessage {
	switch {
	case s.mapSelection.WaypointIndex != 0:
		wp, ok := s.waypoints.Get(s.mapSelection.WaypointIndex)
		if !ok {
			return nil
		}
		relative := wp.Position.Sub(s.Position)
		return &MapSelectionMessage{
			Label:     wp.Name(),
			Position:  wp.Position.Round(2),
			Bearing:   physics.Round(relative.Heading(), 2),
			Range:     physics.Round(relative.Length(), 2),
			Waypoint:  wp.Index,
			CanDelete: true,
		}
	case s.mapSelection.ShipID != "" && ships != nil:
		target := ships.Ship(s.mapSelection.ShipID)
		if target == nil {
			return nil
		}
		relative := target.Position.Sub(s.Position)
		level := s.ScanLevelOf(target.ID)
		msg := &MapSelectionMessage{
			Label:     target.Designation,
			Position:  target.Position.Round(2),
			Bearing:   physics.Round(relative.Heading(), 2),
			Range:     physics.Round(relative.Length(), 2),
			ShipID:    target.ID,
			ScanLevel: &level,
			CanScan:   !level.IsMax(),
		}
		if level >= ScanDetailed {
			hull := physics.Round(target.Hull, 2)
			shield := target.shield.ToMessage()
			msg.Hull = &hull
			msg.Shield = &shield
		}
		return msg
	default:
		return nil
	}
}

func designationOf(ships ShipLookup, id ObjectID) string {
	if ships == nil {
		return ""
	}
	if target := ships.Ship(id); target != nil {
		return target.Designation
	}
	return ""
}
