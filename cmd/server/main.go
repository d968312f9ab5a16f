package main

import (
	"context"
	"embed"
	"errors"
	"hash/maphash"
	"math/rand/v2"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
	"golang.org/x/sync/errgroup"

	"github.com/okhotnik/minesweeper-agent/internal/config"
	"github.com/okhotnik/minesweeper-agent/internal/database"
	"github.com/okhotnik/minesweeper-agent/internal/handlers"
	"github.com/okhotnik/minesweeper-agent/internal/middleware"
)

//go:embed migrations/*.sql
var migrations embed.FS

var log = logrus.New()

func setupLogging() error {
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	if config.Development() {
		log.SetLevel(logrus.DebugLevel)
	}

	logFile := config.LogFile()
	if logFile == "" {
		return nil
	}
	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   logFile,
		MaxSize:    50,
		MaxBackups: 3,
		MaxAge:     28,
		Level:      logrus.InfoLevel,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		return err
	}
	log.AddHook(hook)
	return nil
}

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func buildRouter(
	game *handlers.GameHandler, auth *handlers.Auth,
) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("POST /game", game.NewGame)
	router.HandleFunc("GET /game/{id}", game.Fetch)
	router.HandleFunc("POST /game/{id}/step", game.Step)
	router.HandleFunc("POST /game/{id}/solve", game.Solve)
	router.HandleFunc("POST /game/{id}/forfeit", game.Forfeit)
	router.HandleFunc("/game/{id}/watch", game.Watch)
	router.HandleFunc("GET /highscores", game.Highscores)

	router.HandleFunc("POST /register", auth.Register)
	router.HandleFunc("POST /login", auth.Login)
	router.HandleFunc("POST /logout", auth.Logout)
	router.HandleFunc("GET /status", auth.Status)

	return router
}

func main() {
	mainCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	if err := setupLogging(); err != nil {
		log.Fatal("unable to set up logging: ", err)
	}

	db, err := database.ConnectAndMigrate(mainCtx, migrations)
	if err != nil {
		log.Fatal("unable to connect to database: ", err)
	}
	defer db.Close()

	jwt, err := config.NewJWT()
	if err != nil {
		log.Fatal("unable to load JWT keys: ", err)
	}

	cookies, err := config.NewCookies(jwt)
	if err != nil {
		log.Fatal("unable to configure cookies: ", err)
	}

	ws := config.NewWebSocket()

	router := buildRouter(
		handlers.NewGameHandler(log, db, ws, createRand()),
		handlers.NewAuth(log, db, cookies, jwt),
	)

	addr := config.Addr()
	server := &http.Server{
		Addr: addr,
		Handler: middleware.Wrap(
			router,
			middleware.Cors(),
			middleware.Auth(cookies),
			middleware.Logging(log),
		),
		BaseContext: func(l net.Listener) context.Context {
			return mainCtx
		},
	}

	log.Infof("ready to serve @ %s", addr)

	g, gCtx := errgroup.WithContext(mainCtx)
	g.Go(func() error {
		return server.ListenAndServe()
	})
	g.Go(func() error {
		<-gCtx.Done()
		return server.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("exit reason: ", err)
	}
}
