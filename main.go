package main

import (
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"github.com/coder/quartz"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/mglvn/uno/internal/handlers"
	"github.com/mglvn/uno/internal/middleware"
)

type CLI struct {
	Addr      string        `help:"Listen address." default:":3000" env:"UNO_ADDR"`
	StaticDir string        `help:"Directory of client assets to serve." default:"web" env:"UNO_STATIC_DIR"`
	BotDelay  time.Duration `help:"Delay before the computer seat moves." default:"1s" env:"UNO_BOT_DELAY"`
	Verbose   bool          `short:"v" help:"Enable debug logging."`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("uno-server"),
		kong.Description("Real-time multiplayer UNO room server"),
		kong.UsageOnError(),
	)

	if cli.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logger := logrus.StandardLogger()

	srv := handlers.NewServer(logger, quartz.NewReal(), cli.BotDelay)

	mux := http.NewServeMux()
	mux.Handle("/", middleware.LogMiddleware(logger)(http.FileServer(http.Dir(cli.StaticDir))))
	mux.Handle("/ws", handlers.WSHandler(logger, srv))

	l, err := net.Listen("tcp", cli.Addr)
	if err != nil {
		logger.Fatalf("failed to listen: %v", err)
	}
	logger.Infof("listening on %s", l.Addr())

	// No global read/write timeouts: /ws connections are long-lived.
	server := &http.Server{Handler: mux}

	errc := make(chan error, 1)
	go func() {
		errc <- server.Serve(l)
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	select {
	case err := <-errc:
		logger.Errorf("failed to serve: %v", err)
	case sig := <-sigs:
		logger.Infof("terminating: %v", sig)
	}
}
