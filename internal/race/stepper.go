package race

import "math"

// upNormal is the push direction used when a body's center lands exactly on a
// peg's center and the contact normal is undefined.
var upNormal = Vec2{X: 0, Y: -1}

// Advance moves the race forward one frame and reports the outcome. Once a
// winner is latched the state is left untouched and the same result is
// returned on every call.
func Advance(s *State, src Source) Tick {
	if s.Finished() {
		return s.tick(nil)
	}

	var events []CollisionEvent
	for i := range s.Bodies {
		events = stepBody(&s.Bodies[i], s.Geometry.Lanes[i], s.Obstacles[i], s.Physics, src, events)
	}

	if s.Options.Camera {
		s.updateCamera()
	}

	s.Frame++

	if lane := s.finishedLane(); lane != 0 {
		s.winner = lane
		b := s.Bodies[lane-1]
		events = append(events, CollisionEvent{Type: EventFinish, Lane: lane, Speed: b.Velocity.Magnitude()})
	}

	return s.tick(events)
}

func stepBody(b *Body, lane Lane, obstacles []Obstacle, ph Physics, src Source, events []CollisionEvent) []CollisionEvent {
	integrate(b, ph)

	if speed, hit := resolveWalls(b, lane, ph); hit {
		events = append(events, CollisionEvent{Type: EventWall, Lane: b.Lane, Speed: speed})
	}
	if speed, hit := resolveCeiling(b, ph); hit {
		events = append(events, CollisionEvent{Type: EventCeiling, Lane: b.Lane, Speed: speed})
	}

	// Overlaps are resolved one at a time in placement order; a later push may
	// partly undo an earlier one when pegs crowd together.
	for i, o := range obstacles {
		if speed, hit := resolveObstacle(b, o, ph, src); hit {
			events = append(events, CollisionEvent{Type: EventObstacle, Lane: b.Lane, Obstacle: i, Speed: speed})
		}
	}

	// A peg push can carry the body through a wall.
	resolveWalls(b, lane, ph)

	return events
}

func integrate(b *Body, ph Physics) {
	b.Velocity.Y += ph.Gravity
	b.Velocity.X *= ph.Friction
	if ph.DampVertical {
		b.Velocity.Y *= ph.Friction
	}
	if ph.MaxFallSpeed > 0 && b.Velocity.Y > ph.MaxFallSpeed {
		b.Velocity.Y = ph.MaxFallSpeed
	}
	b.Position = b.Position.Plus(b.Velocity)
}

// resolveWalls clamps the body inside its lane. The horizontal velocity is
// always sent away from the wall that was hit, so a body can never stick.
func resolveWalls(b *Body, lane Lane, ph Physics) (float64, bool) {
	left := lane.Left + b.Radius
	right := lane.Right - b.Radius

	switch {
	case b.Position.X < left:
		speed := math.Abs(b.Velocity.X)
		b.Position.X = left
		b.Velocity.X = speed * ph.Bounce
		return speed, true
	case b.Position.X > right:
		speed := math.Abs(b.Velocity.X)
		b.Position.X = right
		b.Velocity.X = -speed * ph.Bounce
		return speed, true
	}
	return 0, false
}

func resolveCeiling(b *Body, ph Physics) (float64, bool) {
	if b.Position.Y >= b.Radius {
		return 0, false
	}
	speed := math.Abs(b.Velocity.Y)
	b.Position.Y = b.Radius
	b.Velocity.Y = speed * ph.Bounce
	return speed, true
}

// resolveObstacle separates a body from a peg it overlaps, reflects the
// approaching part of its velocity about the contact normal and loses energy
// through the bounce coefficient. A small horizontal kick, bounded by
// Physics.Perturbation times the post-bounce speed, keeps paths from
// repeating.
func resolveObstacle(b *Body, o Obstacle, ph Physics, src Source) (float64, bool) {
	delta := b.Position.Minus(o.Position)
	minDist := b.Radius + o.Radius
	distSq := delta.MagnitudeSquared()
	if distSq >= minDist*minDist {
		return 0, false
	}

	n := delta.Normalize()
	if n.IsZero() {
		n = upNormal
	}

	impact := b.Velocity.Magnitude()

	b.Position = o.Position.Plus(n.Times(minDist))

	if b.Velocity.Dot(n) < 0 {
		b.Velocity = b.Velocity.Reflect(n)
	}
	b.Velocity = b.Velocity.Times(ph.Bounce)
	b.Velocity.X += spread(src) * ph.Perturbation * b.Velocity.Magnitude()

	return impact, true
}

// updateCamera eases the vertical offset toward the leading body.
func (s *State) updateCamera() {
	lead := math.Max(s.Bodies[0].Position.Y, s.Bodies[1].Position.Y)
	target := math.Max(lead-s.Geometry.VisibleHeight*CameraLeadFraction, 0)
	s.Camera += (target - s.Camera) * CameraSmoothing
}

// finishedLane returns the lane of the first body, in lane order, at or past
// the finish line. Lane 1 wins a same-frame tie.
func (s *State) finishedLane() int {
	for _, b := range s.Bodies {
		if b.Position.Y >= s.Geometry.FinishY {
			return b.Lane
		}
	}
	return 0
}
