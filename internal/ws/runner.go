package ws

import (
	"context"
	"time"

	"github.com/playpool/racer/internal/logging"
	"github.com/playpool/racer/internal/race"
	"github.com/rs/zerolog"
)

// Broadcaster delivers messages to viewers.
type Broadcaster interface {
	BroadcastToRoom(room string, msg Message)
	SendToClient(clientID string, msg Message)
}

// ResultPublisher fans race results out beyond this process.
type ResultPublisher interface {
	PublishResult(ctx context.Context, result RaceResult) error
}

// Clock is the time source of a runner.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// RunnerConfig holds the runner settings shared by every room.
type RunnerConfig struct {
	FrameInterval time.Duration
	ResultDelay   time.Duration
	MaxFrames     int // 0 = no cap
}

// Runner drives the races of one room. All race state is owned by the Run
// goroutine; viewers talk to it through Submit.
type Runner struct {
	room      string
	engine    *race.Engine
	out       Broadcaster
	publisher ResultPublisher
	clock     Clock
	cfg       RunnerConfig
	commands  chan Command
	logger    zerolog.Logger

	state      *race.State
	finishedAt time.Time
	done       bool // result or stall already announced
}

// NewRunner creates a runner for room. publisher and clock may be nil.
func NewRunner(room string, engine *race.Engine, out Broadcaster, publisher ResultPublisher, clock Clock, cfg RunnerConfig) *Runner {
	if clock == nil {
		clock = systemClock{}
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = time.Second / 60
	}
	return &Runner{
		room:      room,
		engine:    engine,
		out:       out,
		publisher: publisher,
		clock:     clock,
		cfg:       cfg,
		commands:  make(chan Command, 16),
		logger:    logging.For("runner").With().Str("room", room).Logger(),
	}
}

// Submit queues a viewer command. It returns false when the queue is full.
func (r *Runner) Submit(cmd Command) bool {
	select {
	case r.commands <- cmd:
		return true
	default:
		r.logger.Warn().Str("type", cmd.Type).Msg("command queue full, dropping command")
		return false
	}
}

// Run ticks the room at the frame rate until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.FrameInterval)
	defer ticker.Stop()

	r.logger.Debug().Dur("frame_interval", r.cfg.FrameInterval).Msg("runner started")
	for {
		select {
		case <-ctx.Done():
			r.logger.Debug().Msg("runner stopped")
			return
		case cmd := <-r.commands:
			r.handle(ctx, cmd)
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r *Runner) handle(ctx context.Context, cmd Command) {
	switch cmd.Type {
	case CmdStartRace:
		r.start(cmd.Option1, cmd.Option2)
	case CmdGetState:
		r.out.SendToClient(cmd.ClientID, Message{Type: TypeRaceState, Data: r.stateData()})
	default:
		r.logger.Debug().Str("type", cmd.Type).Msg("unknown command")
		r.out.SendToClient(cmd.ClientID, Message{Type: TypeError, Data: ErrorData{Message: "unknown command: " + cmd.Type}})
	}
}

// start replaces whatever race the room had.
func (r *Runner) start(option1, option2 string) {
	if r.state != nil && !r.done {
		r.logger.Info().Str("race_id", r.state.ID).Int("frame", r.state.Frame).Msg("replacing race in progress")
	}
	r.state = r.engine.StartRace(option1, option2)
	r.finishedAt = time.Time{}
	r.done = false

	r.logger.Info().
		Str("race_id", r.state.ID).
		Str("option1", r.state.Bodies[0].Label).
		Str("option2", r.state.Bodies[1].Label).
		Int("obstacles", len(r.state.Obstacles[0])+len(r.state.Obstacles[1])).
		Msg("race started")
	r.out.BroadcastToRoom(r.room, Message{Type: TypeRaceStarted, Data: r.state.Layout()})
}

func (r *Runner) tick(ctx context.Context) {
	if r.state == nil || r.done {
		return
	}
	now := r.clock.Now()

	if !r.state.Finished() {
		t := r.engine.Advance(r.state)
		r.out.BroadcastToRoom(r.room, Message{Type: TypeFrame, Data: FrameData{Snapshot: r.state.Snapshot(), Events: t.Events}})

		if t.Finished {
			r.finishedAt = now
			r.logger.Info().Str("race_id", r.state.ID).Str("winner", t.Winner).Int("frames", t.Frame).Msg("winner latched")
		} else if r.cfg.MaxFrames > 0 && r.state.Frame >= r.cfg.MaxFrames {
			r.done = true
			r.logger.Warn().Str("race_id", r.state.ID).Int("frames", r.state.Frame).Msg("race stalled")
			r.out.BroadcastToRoom(r.room, Message{Type: TypeRaceStalled, Data: StalledData{RaceID: r.state.ID, Frames: r.state.Frame}})
			return
		}
	}

	if r.state.Finished() && now.Sub(r.finishedAt) >= r.cfg.ResultDelay {
		r.announce(ctx)
	}
}

func (r *Runner) announce(ctx context.Context) {
	r.done = true
	w, _ := r.state.Winner()
	result := RaceResult{
		RaceID: r.state.ID,
		Room:   r.room,
		Winner: w.Label,
		Lane:   w.Lane,
		Frames: r.state.Frame,
	}
	r.out.BroadcastToRoom(r.room, Message{Type: TypeRaceResult, Data: result})

	if r.publisher == nil {
		return
	}
	if err := r.publisher.PublishResult(ctx, result); err != nil {
		r.logger.Error().Err(err).Str("race_id", result.RaceID).Msg("failed to publish race result")
	}
}

func (r *Runner) stateData() RaceStateData {
	data := RaceStateData{
		Options:  r.engine.Options(),
		Geometry: r.engine.Geometry(),
	}
	if r.state == nil {
		return data
	}
	layout := r.state.Layout()
	snap := r.state.Snapshot()
	data.Racing = !r.state.Finished() && !r.done
	data.Layout = &layout
	data.Snapshot = &snap
	return data
}
