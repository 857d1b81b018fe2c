package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"hive/communication/client"
	"hive/communication/server"
	"hive/display"
	"hive/experiments"
	"hive/game"
	"hive/meta"
	"hive/player"
	"hive/searcher"
	"hive/utils"
	"net"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type config struct {
	mode        string
	host        string
	port        int
	reservation string
	seed        uint64
	games       int
	maxTurns    int
	outDir      string
	board       string
	color       string
	logLevel    string
}

func main() {
	var cfg config
	flag.StringVar(&cfg.mode, "mode", "client", "One of client, serve, selfplay or moves")
	flag.StringVar(&cfg.host, "host", meta.DefaultHost, "Game server host")
	flag.IntVar(&cfg.port, "port", meta.DefaultPort, "Game server port")
	flag.StringVar(&cfg.reservation, "reservation", "", "Reservation code of a prepared game")
	flag.Uint64Var(&cfg.seed, "seed", 0, "Seed of the random policy, 0 for time based")
	flag.IntVar(&cfg.games, "games", meta.DefaultGames, "Number of self-play games")
	flag.IntVar(&cfg.maxTurns, "maxturns", 0, "Turn cap of self-play games, 0 for the round limit")
	flag.StringVar(&cfg.outDir, "out", meta.DefaultOutDir, "Directory of self-play records, empty to skip")
	flag.StringVar(&cfg.board, "board", "", "ASCII hex grid file for moves mode")
	flag.StringVar(&cfg.color, "color", "RED", "Player to list moves for")
	flag.StringVar(&cfg.logLevel, "loglevel", "info", "Log level (trace, debug, info, warn, error)")
	flag.Parse()

	if err := setupLogging(cfg.logLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch cfg.mode {
	case "client":
		err = runClient(ctx, cfg)
	case "serve":
		err = runServer(ctx, cfg)
	case "selfplay":
		err = runSelfPlay(cfg)
	case "moves":
		err = listMoves(cfg)
	default:
		err = fmt.Errorf("unknown mode %q", cfg.mode)
	}
	if err != nil {
		log.Error().Err(err).Msgf("%s failed", cfg.mode)
		os.Exit(1)
	}
}

func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)
	if isatty.IsTerminal(os.Stderr.Fd()) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: colorable.NewColorableStderr(), TimeFormat: time.Kitchen})
	}
	return nil
}

func newPolicy(seed uint64) searcher.Policy {
	if seed == 0 {
		return searcher.NewRandomPolicy()
	}
	return searcher.NewRandomPolicy(searcher.WithSeed(seed))
}

func runClient(ctx context.Context, cfg config) error {
	addr := net.JoinHostPort(cfg.host, strconv.Itoa(cfg.port))
	c, err := client.Dial(ctx, addr)
	if err != nil {
		return err
	}
	defer c.Close()

	if cfg.reservation != "" {
		err = c.JoinPrepared(cfg.reservation)
	} else {
		err = c.Join(meta.GameType)
	}
	if err != nil {
		return fmt.Errorf("joining: %w", err)
	}

	go func() {
		<-ctx.Done()
		c.Close()
	}()
	return player.NewPlayer(c, newPolicy(cfg.seed)).Play()
}

func runServer(ctx context.Context, cfg config) error {
	s, err := server.Listen(net.JoinHostPort(cfg.host, strconv.Itoa(cfg.port)), server.WithTurnTimeout(meta.DefaultTurnTimeout))
	if err != nil {
		return err
	}
	return s.Serve(ctx)
}

func runSelfPlay(cfg config) error {
	summary, err := experiments.RunSelfPlay(experiments.Config{
		Games:    cfg.games,
		Seed:     cfg.seed,
		MaxTurns: cfg.maxTurns,
		OutDir:   cfg.outDir,
	})
	if err != nil {
		return err
	}
	fmt.Printf("red %d, blue %d, draws %d\n", summary.RedWins, summary.BlueWins, summary.Draws)
	if summary.Dir != "" {
		fmt.Printf("records written to %s\n", summary.Dir)
	}
	return nil
}

// listMoves prints the legal moves of a color on a board read from an ASCII grid.
func listMoves(cfg config) error {
	if cfg.board == "" {
		return errors.New("moves mode needs -board")
	}
	raw, err := os.ReadFile(cfg.board)
	if err != nil {
		return err
	}
	board, err := game.ParseASCIIHexGrid(string(raw))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", cfg.board, err)
	}
	color, err := game.ParsePlayerColor(cfg.color)
	if err != nil {
		return err
	}

	state := stateFromBoard(board, color)
	moves := state.PossibleMoves(color)
	destinations := make([]game.AxialCoords, 0, len(moves))
	for _, m := range moves {
		destinations = append(destinations, m.To())
		fmt.Println(m)
	}
	fmt.Print(display.NewRenderer(display.WithHighlight(destinations...)).State(state))
	fmt.Printf("%d moves for %s\n", len(moves), color)
	return nil
}

// stateFromBoard builds a state whose pools hold every piece not on the board.
func stateFromBoard(board *game.Board, current game.PlayerColor) *game.GameState {
	state := game.NewGameState(game.Player{}, game.Player{})
	state.Board = board
	for _, pf := range board.OccupiedFields() {
		for _, p := range pf.Field.PieceStack() {
			if p.Owner == game.Red {
				state.UndeployedRed, _ = utils.RemoveFirst(state.UndeployedRed, p)
			} else {
				state.UndeployedBlue, _ = utils.RemoveFirst(state.UndeployedBlue, p)
			}
			state.Turn++
		}
	}
	// Keep the parity of the turn consistent with the player to move.
	if (state.Turn%2 == 0) != (current == state.StartPlayerColor) {
		state.Turn++
	}
	state.CurrentPlayerColor = current
	return state
}
