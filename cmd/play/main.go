package main

import (
	"errors"
	"flag"
	"hash/maphash"
	"math/rand/v2"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/okhotnik/minesweeper-agent/internal/game"
	"github.com/okhotnik/minesweeper-agent/internal/play"
)

var log = logrus.New()

func main() {
	var (
		width   = flag.Int("width", 9, "board width")
		height  = flag.Int("height", 9, "board height")
		mines   = flag.Int("mines", 10, "mine count")
		startX  = flag.Int("x", 0, "starting cell x")
		startY  = flag.Int("y", 0, "starting cell y")
		seed    = flag.Uint64("seed", 0, "rng seed (0 seeds randomly)")
		verbose = flag.Bool("v", false, "print the board after every move")
	)
	flag.Parse()

	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	params := game.GameParams{
		Width:     *width,
		Height:    *height,
		MineCount: *mines,
	}
	if err := params.Validate(); err != nil {
		log.Fatal(err)
	}

	s1, s2 := *seed, *seed
	if *seed == 0 {
		s1 = new(maphash.Hash).Sum64()
		s2 = new(maphash.Hash).Sum64()
	}
	rnd := rand.New(rand.NewPCG(s1, s2))

	session, err := play.NewSession(params, *startX, *startY, rnd)
	if err != nil {
		log.Fatal(err)
	}

	var moves, guesses int
	for !session.Done() {
		move, err := session.Step()
		if errors.Is(err, play.ErrNoMoves) {
			break
		}
		if err != nil {
			log.Fatal(err)
		}
		moves++
		if move.Guess {
			guesses++
		}
		fields := logrus.Fields{
			"x": move.X, "y": move.Y, "guess": move.Guess,
		}
		if move.Mine {
			log.WithFields(fields).Warn("boom")
		} else {
			fields["nearby"] = move.Nearby
			log.WithFields(fields).Info("opened")
		}
		if *verbose {
			os.Stdout.WriteString(session.State.Render() + "\n")
		}
	}

	os.Stdout.WriteString(session.State.Render() + "\n")

	summary := log.WithFields(logrus.Fields{
		"params":  params.String(),
		"moves":   moves,
		"guesses": guesses,
	})
	switch {
	case session.State.Won:
		summary.Info("solved")
	case session.State.Dead:
		summary.Info("hit a mine")
	default:
		summary.Info("out of moves")
	}
}
