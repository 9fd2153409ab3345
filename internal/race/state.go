package race

// Body is one competitor: a ball dropped down its own lane.
type Body struct {
	Position Vec2    `json:"position" msgpack:"position"`
	Velocity Vec2    `json:"velocity" msgpack:"velocity"`
	Radius   float64 `json:"radius" msgpack:"radius"`
	Label    string  `json:"label" msgpack:"label"`
	Color    string  `json:"color" msgpack:"color"`
	Lane     int     `json:"lane" msgpack:"lane"`
}

// Obstacle is a static peg.
type Obstacle struct {
	Position Vec2    `json:"position" msgpack:"position"`
	Radius   float64 `json:"radius" msgpack:"radius"`
}

// EventType classifies a CollisionEvent.
type EventType string

const (
	EventWall     EventType = "wall"
	EventCeiling  EventType = "ceiling"
	EventObstacle EventType = "obstacle"
	EventFinish   EventType = "finish"
)

// CollisionEvent records something a body hit during one frame, for the
// renderer to flash or play a sound.
type CollisionEvent struct {
	Type     EventType `json:"type" msgpack:"type"`
	Lane     int       `json:"lane" msgpack:"lane"`
	Obstacle int       `json:"obstacle,omitempty" msgpack:"obstacle,omitempty"` // index into the lane's obstacles
	Speed    float64   `json:"speed" msgpack:"speed"`                           // impact speed
}

// Tick is the outcome of one Advance.
type Tick struct {
	Frame      int              `json:"frame" msgpack:"frame"`
	Finished   bool             `json:"finished" msgpack:"finished"`
	Winner     string           `json:"winner,omitempty" msgpack:"winner,omitempty"`
	WinnerLane int              `json:"winner_lane,omitempty" msgpack:"winner_lane,omitempty"`
	Events     []CollisionEvent `json:"events,omitempty" msgpack:"events,omitempty"`
}

// State is everything about one race. A new race replaces it entirely; the
// caller owns the single living instance and hands it to Advance each frame.
type State struct {
	ID        string
	Options   Options
	Physics   Physics
	Geometry  Geometry
	Bodies    [2]Body
	Obstacles [2][]Obstacle // per lane, never shared
	Camera    float64
	Frame     int

	winner int // lane number of the latched winner, 0 while racing
}

// Finished reports whether a winner has been latched.
func (s *State) Finished() bool {
	return s.winner != 0
}

// Winner returns the latched winning body.
func (s *State) Winner() (Body, bool) {
	if s.winner == 0 {
		return Body{}, false
	}
	return s.Bodies[s.winner-1], true
}

func (s *State) tick(events []CollisionEvent) Tick {
	t := Tick{Frame: s.Frame, Finished: s.Finished(), Events: events}
	if w, ok := s.Winner(); ok {
		t.Winner = w.Label
		t.WinnerLane = w.Lane
	}
	return t
}

// BodyView is the render view of a body.
type BodyView struct {
	Lane   int     `json:"lane" msgpack:"lane"`
	Label  string  `json:"label" msgpack:"label"`
	Color  string  `json:"color" msgpack:"color"`
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	Radius float64 `json:"radius" msgpack:"radius"`
}

// Snapshot is what the renderer needs every frame.
type Snapshot struct {
	RaceID   string      `json:"race_id" msgpack:"race_id"`
	Frame    int         `json:"frame" msgpack:"frame"`
	Bodies   [2]BodyView `json:"bodies" msgpack:"bodies"`
	Camera   float64     `json:"camera" msgpack:"camera"`
	FinishY  float64     `json:"finish_y" msgpack:"finish_y"`
	Finished bool        `json:"finished" msgpack:"finished"`
	Winner   string      `json:"winner,omitempty" msgpack:"winner,omitempty"`
}

func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		RaceID:   s.ID,
		Frame:    s.Frame,
		Camera:   s.Camera,
		FinishY:  s.Geometry.FinishY,
		Finished: s.Finished(),
	}
	for i, b := range s.Bodies {
		snap.Bodies[i] = BodyView{
			Lane:   b.Lane,
			Label:  b.Label,
			Color:  b.Color,
			X:      b.Position.X,
			Y:      b.Position.Y,
			Radius: b.Radius,
		}
	}
	if w, ok := s.Winner(); ok {
		snap.Winner = w.Label
	}
	return snap
}

// Layout is the static part of a race, sent once when it starts.
type Layout struct {
	RaceID    string        `json:"race_id" msgpack:"race_id"`
	Options   Options       `json:"options" msgpack:"options"`
	Geometry  Geometry      `json:"geometry" msgpack:"geometry"`
	Labels    [2]string     `json:"labels" msgpack:"labels"`
	Colors    [2]string     `json:"colors" msgpack:"colors"`
	Obstacles [2][]Obstacle `json:"obstacles" msgpack:"obstacles"`
}

func (s *State) Layout() Layout {
	return Layout{
		RaceID:    s.ID,
		Options:   s.Options,
		Geometry:  s.Geometry,
		Labels:    [2]string{s.Bodies[0].Label, s.Bodies[1].Label},
		Colors:    [2]string{s.Bodies[0].Color, s.Bodies[1].Color},
		Obstacles: s.Obstacles,
	}
}
