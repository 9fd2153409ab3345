package race

import (
	"math"
	"strings"

	"github.com/dhconnelly/rtreego"
	"github.com/segmentio/ksuid"
)

// BuildRace drops one body at the top of each lane and scatters each lane's
// own pegs. It never fails: when the lane is too crowded to honour the
// separation threshold it simply places fewer obstacles.
func BuildRace(label1, label2 string, geom Geometry, opts Options, src Source) *State {
	phys := PhysicsFor(opts.Mode)

	s := &State{
		ID:       ksuid.New().String(),
		Options:  opts,
		Physics:  phys,
		Geometry: geom,
	}

	labels := [2]string{labelOrDefault(label1, DefaultLabel1), labelOrDefault(label2, DefaultLabel2)}
	colors := [2]string{Lane1Color, Lane2Color}
	for i, lane := range geom.Lanes {
		s.Bodies[i] = Body{
			Position: NewVec2(lane.Center(), BodyStartY),
			Velocity: NewVec2(spread(src)*BodyInitialSpeed, 0),
			Radius:   phys.BodyRadius,
			Label:    labels[i],
			Color:    colors[i],
			Lane:     lane.Number,
		}
	}

	for i, lane := range geom.Lanes {
		switch opts.Placement {
		case PlacementScatter:
			s.Obstacles[i] = placeScattered(lane, geom, phys, src)
		default:
			s.Obstacles[i] = placeRows(lane, geom, phys, src)
		}
	}

	return s
}

func labelOrDefault(label, fallback string) string {
	if l := strings.TrimSpace(label); l != "" {
		return l
	}
	return fallback
}

// MinSeparation is the minimum center distance between two pegs of a lane
// for a placement policy. It never drops below the width a body needs to
// pass between two of the largest pegs.
func MinSeparation(p Placement, phys Physics) float64 {
	base := RowMinSeparation
	if p == PlacementScatter {
		base = ScatterMinSeparation
	}
	return math.Max(base, 2*ObstacleMaxRadius+2*phys.BodyRadius+PassageMargin)
}

// wallPadding keeps a body-sized passage between any peg and the lane wall.
func wallPadding(phys Physics) float64 {
	return math.Max(WallPadding, ObstacleMaxRadius+2*phys.BodyRadius+PassageMargin)
}

// span returns the x-range pegs may be centered in, or ok=false when the lane
// is too narrow to hold any.
func span(lane Lane, phys Physics) (left, width float64, ok bool) {
	pad := wallPadding(phys)
	width = lane.Width() - 2*pad
	if width < 0 {
		return 0, 0, false
	}
	return lane.Left + pad, width, true
}

func placeRows(lane Lane, geom Geometry, phys Physics, src Source) []Obstacle {
	left, width, ok := span(lane, phys)
	if !ok {
		return nil
	}
	startY := RowsStartY
	endY := geom.FinishY - RowsFinishClearance
	if endY <= startY {
		return nil
	}

	rows := ObstacleRows
	if n := int((endY - startY) / RowLongSpacing); n > rows {
		rows = n
	}
	rowHeight := (endY - startY) / float64(rows)

	ix := newSeparationIndex(MinSeparation(PlacementRows, phys))
	for row := 0; row < rows; row++ {
		y := startY + float64(row)*rowHeight + rowHeight/2
		n := RowMinObstacles + int(src.Float64()*RowExtraObstacles)
		for i := 0; i < n; i++ {
			for attempt := 0; attempt < RowPlacementRetries; attempt++ {
				o := Obstacle{
					Position: NewVec2(left+src.Float64()*width, y),
					Radius:   ObstacleMinRadius + src.Float64()*ObstacleRadiusSpan,
				}
				if ix.tryInsert(o) {
					break
				}
			}
		}
	}
	return ix.placed
}

func placeScattered(lane Lane, geom Geometry, phys Physics, src Source) []Obstacle {
	left, width, ok := span(lane, phys)
	if !ok {
		return nil
	}
	startY := ScatterStartY
	endY := geom.FinishY - ScatterEndInset
	if endY <= startY {
		return nil
	}
	height := endY - startY

	target := int(width * height * ScatterDensity)
	if target < ScatterMinObstacles {
		target = ScatterMinObstacles
	}

	ix := newSeparationIndex(MinSeparation(PlacementScatter, phys))
	for i := 0; i < target; i++ {
		for attempt := 0; attempt < ScatterPlacementRetry; attempt++ {
			o := Obstacle{
				Position: NewVec2(left+src.Float64()*width, startY+src.Float64()*height),
				Radius:   ObstacleMinRadius + src.Float64()*ObstacleRadiusSpan,
			}
			if ix.tryInsert(o) {
				break
			}
		}
	}
	return ix.placed
}

// separationIndex answers "is anything closer than minSep?" for one lane with
// an r-tree broadphase followed by an exact distance check.
type separationIndex struct {
	tree   *rtreego.Rtree
	minSep float64
	placed []Obstacle
}

type indexedObstacle struct {
	Obstacle
}

func (o indexedObstacle) Bounds() rtreego.Rect {
	return rtreego.Point{o.Position.X, o.Position.Y}.ToRect(o.Radius)
}

func newSeparationIndex(minSep float64) *separationIndex {
	return &separationIndex{
		tree:   rtreego.NewTree(2, 4, 16),
		minSep: minSep,
	}
}

func (ix *separationIndex) tryInsert(o Obstacle) bool {
	query := rtreego.Point{o.Position.X, o.Position.Y}.ToRect(ix.minSep)
	for _, near := range ix.tree.SearchIntersect(query) {
		if near.(indexedObstacle).Position.DistanceTo(o.Position) < ix.minSep {
			return false
		}
	}
	ix.tree.Insert(indexedObstacle{o})
	ix.placed = append(ix.placed, o)
	return true
}
