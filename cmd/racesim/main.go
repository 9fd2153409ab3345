package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cheggaaa/pb"
	"github.com/davecgh/go-spew/spew"
	"github.com/ttacon/chalk"
	"github.com/urfave/cli"

	"github.com/playpool/racer/internal/config"
	"github.com/playpool/racer/internal/logging"
	"github.com/playpool/racer/internal/race"
)

func main() {
	app := makeapp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, chalk.Red.Color("error: "+err.Error()))
		os.Exit(1)
	}
}

var trackFlags = []cli.Flag{
	cli.StringFlag{Name: "mode", Usage: "Track mode (short|long); defaults to RACE_TRACK_MODE"},
	cli.StringFlag{Name: "placement", Usage: "Obstacle placement (rows|scatter)"},
	cli.StringFlag{Name: "camera", Usage: "Follow the leader (true|false)"},
	cli.IntFlag{Name: "max-frames", Value: 20000, Usage: "Give up after this many frames; 0 runs forever"},
}

func makeapp() *cli.App {
	app := cli.NewApp()
	app.Name = "racesim"
	app.Usage = "Run two-lane ball races headless"
	app.Before = func(c *cli.Context) error {
		logging.Setup("development", "warn")
		return nil
	}

	app.Commands = []cli.Command{
		{
			Name:  "run",
			Usage: "Run one race and print the winner",
			Flags: append([]cli.Flag{
				cli.StringFlag{Name: "option1", Usage: "Label of lane 1"},
				cli.StringFlag{Name: "option2", Usage: "Label of lane 2"},
				cli.Int64Flag{Name: "seed", Usage: "Random seed; 0 seeds from the clock"},
			}, trackFlags...),
			Action: func(c *cli.Context) error {
				cfg := configFromFlags(c)
				engine, err := newEngine(cfg, sourceFor(c.Int64("seed")))
				if err != nil {
					return err
				}
				return runAction(engine, c.String("option1"), c.String("option2"), c.Int("max-frames"))
			},
		},
		{
			Name:  "batch",
			Usage: "Run many races and report how often each lane wins",
			Flags: append([]cli.Flag{
				cli.IntFlag{Name: "races", Value: 100, Usage: "Number of races"},
				cli.Int64Flag{Name: "seed", Usage: "Seed of the first race; race i uses seed+i. 0 seeds from the clock"},
			}, trackFlags...),
			Action: func(c *cli.Context) error {
				n := c.Int("races")
				if n <= 0 {
					return errors.New("--races must be positive")
				}
				cfg := configFromFlags(c)

				bar := pb.New(n)
				bar.SetWidth(80)
				bar.Start()
				stats, err := runBatch(cfg, n, c.Int64("seed"), c.Int("max-frames"), func() { bar.Increment() })
				bar.Finish()
				if err != nil {
					return err
				}
				printStats(stats)
				return nil
			},
		},
		{
			Name:  "inspect",
			Usage: "Build a world and dump it",
			Flags: append([]cli.Flag{
				cli.Int64Flag{Name: "seed", Value: 1, Usage: "Random seed"},
			}, trackFlags...),
			Action: func(c *cli.Context) error {
				engine, err := newEngine(configFromFlags(c), race.NewSource(c.Int64("seed")))
				if err != nil {
					return err
				}
				s := engine.StartRace("", "")
				spew.Dump(s.Layout())
				fmt.Printf("physics: %+v\n", s.Physics)
				return nil
			},
		},
	}

	return app
}

// configFromFlags starts from the environment and lets flags override it.
func configFromFlags(c *cli.Context) *config.Config {
	cfg := config.Load()
	if c.IsSet("mode") {
		cfg.TrackMode = strings.ToLower(c.String("mode"))
	}
	if c.IsSet("placement") {
		cfg.Placement = strings.ToLower(c.String("placement"))
	}
	if c.IsSet("camera") {
		cfg.Camera = strings.ToLower(c.String("camera"))
	}
	return cfg
}

func newEngine(cfg *config.Config, src race.Source) (*race.Engine, error) {
	opts := cfg.RaceOptions()
	geom, err := cfg.Geometry(opts)
	if err != nil {
		return nil, fmt.Errorf("track layout: %w", err)
	}
	return race.NewEngine(geom, opts, src), nil
}

func sourceFor(seed int64) race.Source {
	if seed == 0 {
		return race.NewTimeSource()
	}
	return race.NewSource(seed)
}

func runAction(engine *race.Engine, option1, option2 string, maxFrames int) error {
	s := engine.StartRace(option1, option2)
	start := time.Now()
	t, err := engine.Run(s, maxFrames)
	if err != nil {
		return fmt.Errorf("race %s: %w", s.ID, err)
	}

	fmt.Printf("%s vs %s\n", laneColor(1).Color(s.Bodies[0].Label), laneColor(2).Color(s.Bodies[1].Label))
	fmt.Printf("winner: %s (lane %d) after %d frames [%s]\n", laneColor(t.WinnerLane).Color(t.Winner), t.WinnerLane, t.Frame, time.Since(start).Round(time.Microsecond))
	return nil
}

func laneColor(lane int) chalk.Color {
	if lane == 2 {
		return chalk.Red
	}
	return chalk.Blue
}

type batchStats struct {
	Races       int
	Wins        [2]int
	Stalls      int
	TotalFrames int // over finished races
}

func (b batchStats) share(lane int) float64 {
	finished := b.Races - b.Stalls
	if finished == 0 {
		return 0
	}
	return float64(b.Wins[lane-1]) / float64(finished)
}

func (b batchStats) meanFrames() float64 {
	finished := b.Races - b.Stalls
	if finished == 0 {
		return 0
	}
	return float64(b.TotalFrames) / float64(finished)
}

func runBatch(cfg *config.Config, n int, seed int64, maxFrames int, progress func()) (batchStats, error) {
	stats := batchStats{Races: n}
	for i := 0; i < n; i++ {
		src := race.NewTimeSource()
		if seed != 0 {
			src = race.NewSource(seed + int64(i))
		}
		engine, err := newEngine(cfg, src)
		if err != nil {
			return stats, err
		}

		s := engine.StartRace("", "")
		t, err := engine.Run(s, maxFrames)
		switch {
		case errors.Is(err, race.ErrRaceStalled):
			stats.Stalls++
		case err != nil:
			return stats, err
		default:
			stats.Wins[t.WinnerLane-1]++
			stats.TotalFrames += t.Frame
		}
		if progress != nil {
			progress()
		}
	}
	return stats, nil
}

func printStats(b batchStats) {
	fmt.Printf("races: %d  stalled: %d  mean frames: %.1f\n", b.Races, b.Stalls, b.meanFrames())
	for lane := 1; lane <= 2; lane++ {
		line := fmt.Sprintf("lane %d: %d wins (%.1f%%)", lane, b.Wins[lane-1], 100*b.share(lane))
		fmt.Println(laneColor(lane).Color(line))
	}
}
