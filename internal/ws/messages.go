package ws

import (
	"github.com/playpool/racer/internal/race"
)

// Outbound message types
const (
	TypeRaceStarted      = "race_started"
	TypeFrame            = "frame"
	TypeRaceResult       = "race_result"
	TypeRaceStalled      = "race_stalled"
	TypeRaceState        = "race_state"
	TypeRaceAnnouncement = "race_announcement"
	TypeError            = "error"
)

// Inbound command types
const (
	CmdStartRace = "start_race"
	CmdGetState  = "get_state"
)

// Message is the envelope of everything sent to a viewer.
type Message struct {
	Type string `json:"type" msgpack:"type"`
	Data any    `json:"data,omitempty" msgpack:"data,omitempty"`
}

// Command is a request from a viewer. ClientID is filled in by the hub.
type Command struct {
	Type    string `json:"type" msgpack:"type"`
	Option1 string `json:"option1,omitempty" msgpack:"option1,omitempty"`
	Option2 string `json:"option2,omitempty" msgpack:"option2,omitempty"`

	ClientID string `json:"-" msgpack:"-"`
}

type FrameData struct {
	Snapshot race.Snapshot         `json:"snapshot" msgpack:"snapshot"`
	Events   []race.CollisionEvent `json:"events,omitempty" msgpack:"events,omitempty"`
}

// RaceResult is broadcast to the room once the result delay has passed and
// published on the race events channel.
type RaceResult struct {
	RaceID string `json:"race_id" msgpack:"race_id"`
	Room   string `json:"room" msgpack:"room"`
	Winner string `json:"winner" msgpack:"winner"`
	Lane   int    `json:"lane" msgpack:"lane"`
	Frames int    `json:"frames" msgpack:"frames"`
}

type StalledData struct {
	RaceID string `json:"race_id" msgpack:"race_id"`
	Frames int    `json:"frames" msgpack:"frames"`
}

// RaceStateData answers get_state. Layout and Snapshot are nil while the
// room is idle.
type RaceStateData struct {
	Racing   bool           `json:"racing" msgpack:"racing"`
	Options  race.Options   `json:"options" msgpack:"options"`
	Geometry race.Geometry  `json:"geometry" msgpack:"geometry"`
	Layout   *race.Layout   `json:"layout,omitempty" msgpack:"layout,omitempty"`
	Snapshot *race.Snapshot `json:"snapshot,omitempty" msgpack:"snapshot,omitempty"`
}

type ErrorData struct {
	Message string `json:"message" msgpack:"message"`
}
