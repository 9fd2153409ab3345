package race

import "fmt"

// Lane is a vertical corridor between two x-bounds. Number is 1 or 2.
type Lane struct {
	Number int     `json:"number" msgpack:"number"`
	Left   float64 `json:"left" msgpack:"left"`
	Right  float64 `json:"right" msgpack:"right"`
}

func (l Lane) Width() float64 {
	return l.Right - l.Left
}

func (l Lane) Center() float64 {
	return l.Left + l.Width()/2
}

// Geometry is the lane and track layout a race is built on. It is owned by the
// presentation layer and derived from the available canvas.
type Geometry struct {
	Lanes         [2]Lane `json:"lanes" msgpack:"lanes"`
	TrackLength   float64 `json:"track_length" msgpack:"track_length"`
	FinishY       float64 `json:"finish_y" msgpack:"finish_y"`
	VisibleHeight float64 `json:"visible_height" msgpack:"visible_height"`
}

// NewGeometry lays out two lanes across a canvas. Short tracks span the canvas
// height; long tracks run for trackLength and scroll.
func NewGeometry(canvasWidth, canvasHeight float64, mode TrackMode, trackLength float64) (Geometry, error) {
	laneWidth := (canvasWidth - LaneGutter) / 2
	if laneWidth < MinLaneWidth {
		return Geometry{}, fmt.Errorf("canvas width %.0f leaves lanes of %.0f, need at least %.0f", canvasWidth, laneWidth, MinLaneWidth)
	}
	if canvasHeight <= ShortFinishInset+BodyStartY {
		return Geometry{}, fmt.Errorf("canvas height %.0f too small", canvasHeight)
	}

	lane1Start := LaneMarginLeft
	lane2Start := canvasWidth/2 + LaneCenterOffset

	g := Geometry{
		Lanes: [2]Lane{
			{Number: 1, Left: lane1Start, Right: lane1Start + laneWidth},
			{Number: 2, Left: lane2Start, Right: lane2Start + laneWidth},
		},
		VisibleHeight: canvasHeight,
	}

	switch mode {
	case TrackLong:
		if trackLength <= canvasHeight {
			return Geometry{}, fmt.Errorf("long track length %.0f must exceed canvas height %.0f", trackLength, canvasHeight)
		}
		g.TrackLength = trackLength
		g.FinishY = trackLength - LongFinishInset
	case TrackShort:
		g.TrackLength = canvasHeight
		g.FinishY = canvasHeight - ShortFinishInset
	default:
		return Geometry{}, fmt.Errorf("unknown track mode %q", mode)
	}

	return g, nil
}

// Lane returns the lane with the given number (1 or 2).
func (g Geometry) Lane(number int) Lane {
	return g.Lanes[number-1]
}
