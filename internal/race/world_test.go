package race

import (
	"math"
	"testing"
)

func mustGeometry(t *testing.T, mode TrackMode) Geometry {
	t.Helper()
	g, err := NewGeometry(DefaultCanvasWidth, DefaultCanvasHeight, mode, DefaultTrackLength)
	if err != nil {
		t.Fatalf("NewGeometry(%s): %v", mode, err)
	}
	return g
}

func TestBuildRaceDefaultsBlankLabels(t *testing.T) {
	g := mustGeometry(t, TrackShort)

	s := BuildRace("   ", "", g, DefaultOptions(TrackShort), NewSource(1))
	if s.Bodies[0].Label != DefaultLabel1 || s.Bodies[1].Label != DefaultLabel2 {
		t.Errorf("labels = %q/%q, want defaults", s.Bodies[0].Label, s.Bodies[1].Label)
	}

	s = BuildRace("  Pizza ", "Sushi", g, DefaultOptions(TrackShort), NewSource(1))
	if s.Bodies[0].Label != "Pizza" || s.Bodies[1].Label != "Sushi" {
		t.Errorf("labels = %q/%q, want Pizza/Sushi", s.Bodies[0].Label, s.Bodies[1].Label)
	}
	if s.ID == "" {
		t.Error("race ID should be set")
	}
}

func TestBuildRacePlacesBodiesAtLaneCenters(t *testing.T) {
	for _, mode := range []TrackMode{TrackShort, TrackLong} {
		g := mustGeometry(t, mode)
		phys := PhysicsFor(mode)
		s := BuildRace("a", "b", g, DefaultOptions(mode), NewSource(3))

		for i, b := range s.Bodies {
			lane := g.Lanes[i]
			if b.Lane != lane.Number {
				t.Errorf("%s body %d lane = %d, want %d", mode, i, b.Lane, lane.Number)
			}
			if b.Position.X != lane.Center() || b.Position.Y != BodyStartY {
				t.Errorf("%s body %d at (%.4f,%.4f), want (%.4f,%.4f)", mode, i, b.Position.X, b.Position.Y, lane.Center(), BodyStartY)
			}
			if b.Velocity.Y != 0 {
				t.Errorf("%s body %d vy = %.4f, want 0", mode, i, b.Velocity.Y)
			}
			if math.Abs(b.Velocity.X) >= BodyInitialSpeed {
				t.Errorf("%s body %d vx = %.4f, want |vx| < %.1f", mode, i, b.Velocity.X, BodyInitialSpeed)
			}
			if b.Radius != phys.BodyRadius {
				t.Errorf("%s body %d radius = %.1f, want %.1f", mode, i, b.Radius, phys.BodyRadius)
			}
		}
		if s.Bodies[0].Color == s.Bodies[1].Color {
			t.Errorf("%s bodies share color %s", mode, s.Bodies[0].Color)
		}
	}
}

func TestObstaclesKeepMinimumSeparation(t *testing.T) {
	for _, mode := range []TrackMode{TrackShort, TrackLong} {
		for _, placement := range []Placement{PlacementRows, PlacementScatter} {
			g := mustGeometry(t, mode)
			opts := Options{Mode: mode, Placement: placement}
			minSep := MinSeparation(placement, PhysicsFor(mode))

			for seed := int64(1); seed <= 20; seed++ {
				s := BuildRace("a", "b", g, opts, NewSource(seed))
				for lane, obs := range s.Obstacles {
					for i := 0; i < len(obs); i++ {
						for j := i + 1; j < len(obs); j++ {
							if d := obs[i].Position.DistanceTo(obs[j].Position); d < minSep {
								t.Fatalf("%s/%s seed %d lane %d: obstacles %d,%d are %.4f apart, want >= %.4f",
									mode, placement, seed, lane+1, i, j, d, minSep)
							}
						}
					}
				}
			}
		}
	}
}

func TestObstaclesStayInsideTheirLane(t *testing.T) {
	for _, mode := range []TrackMode{TrackShort, TrackLong} {
		for _, placement := range []Placement{PlacementRows, PlacementScatter} {
			g := mustGeometry(t, mode)
			phys := PhysicsFor(mode)
			pad := wallPadding(phys)
			s := BuildRace("a", "b", g, Options{Mode: mode, Placement: placement}, NewSource(11))

			for i, obs := range s.Obstacles {
				lane := g.Lanes[i]
				if len(obs) == 0 {
					t.Errorf("%s/%s lane %d has no obstacles", mode, placement, lane.Number)
				}
				for _, o := range obs {
					if o.Position.X < lane.Left+pad || o.Position.X > lane.Right-pad {
						t.Errorf("%s/%s lane %d obstacle x=%.4f outside [%.4f, %.4f]",
							mode, placement, lane.Number, o.Position.X, lane.Left+pad, lane.Right-pad)
					}
					if o.Position.Y <= BodyStartY || o.Position.Y >= g.FinishY {
						t.Errorf("%s/%s lane %d obstacle y=%.4f outside the course", mode, placement, lane.Number, o.Position.Y)
					}
					if o.Radius < ObstacleMinRadius || o.Radius > ObstacleMaxRadius {
						t.Errorf("%s/%s obstacle radius %.4f out of range", mode, placement, o.Radius)
					}
				}
			}
		}
	}
}

func TestRowsPlacementPutsAtMostThreePerRow(t *testing.T) {
	g := mustGeometry(t, TrackShort)
	s := BuildRace("a", "b", g, Options{Mode: TrackShort, Placement: PlacementRows}, NewSource(5))

	for i, obs := range s.Obstacles {
		perRow := map[float64]int{}
		for _, o := range obs {
			perRow[o.Position.Y]++
		}
		if len(perRow) > ObstacleRows {
			t.Errorf("lane %d uses %d rows, want at most %d", i+1, len(perRow), ObstacleRows)
		}
		for y, n := range perRow {
			if n > RowMinObstacles+RowExtraObstacles-1 {
				t.Errorf("lane %d row y=%.1f has %d obstacles", i+1, y, n)
			}
		}
	}
}

func TestBuildRaceIsReproducibleForASeed(t *testing.T) {
	g := mustGeometry(t, TrackLong)
	a := BuildRace("a", "b", g, DefaultOptions(TrackLong), NewSource(42))
	b := BuildRace("a", "b", g, DefaultOptions(TrackLong), NewSource(42))

	if a.Bodies != b.Bodies {
		t.Errorf("bodies differ: %+v vs %+v", a.Bodies, b.Bodies)
	}
	for lane := range a.Obstacles {
		if len(a.Obstacles[lane]) != len(b.Obstacles[lane]) {
			t.Fatalf("lane %d: %d vs %d obstacles", lane+1, len(a.Obstacles[lane]), len(b.Obstacles[lane]))
		}
		for i := range a.Obstacles[lane] {
			if a.Obstacles[lane][i] != b.Obstacles[lane][i] {
				t.Errorf("lane %d obstacle %d differs", lane+1, i)
			}
		}
	}
}

func TestBuildRaceNarrowLaneGetsNoObstacles(t *testing.T) {
	// 60px lanes cannot keep a body-sized gap on both sides of a peg.
	g, err := NewGeometry(180, 500, TrackShort, 0)
	if err != nil {
		t.Fatalf("NewGeometry: %v", err)
	}
	s := BuildRace("a", "b", g, DefaultOptions(TrackShort), NewSource(1))
	for i, obs := range s.Obstacles {
		if len(obs) != 0 {
			t.Errorf("lane %d got %d obstacles, want none", i+1, len(obs))
		}
	}
}
