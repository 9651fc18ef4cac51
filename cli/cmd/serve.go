package cmd

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/ardnew/jidelnicek/log"
	"github.com/ardnew/jidelnicek/server"
)

// Serve runs the JSON HTTP API.
type Serve struct {
	Listen string   `default:":8080" env:"JIDELNICEK_LISTEN" help:"Listen address."`
	CORS   []string `env:"JIDELNICEK_CORS_ORIGINS" help:"Allowed CORS origin ('*' for any); repeatable." name:"cors-origin" placeholder:"ORIGIN"`
}

// Run executes the serve command until the context is canceled.
func (s *Serve) Run(ctx context.Context) error {
	feed := feedFrom(ctx)

	dict, err := feed.dictionary()
	if err != nil {
		return err
	}

	logger := log.Default().With(slog.String("component", "server"))

	if logger.Level() > log.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := server.New(server.Config{
		Addr:        s.Listen,
		CORSOrigins: s.CORS,
		Dictionary:  dict,
		Parser:      feed.options(),
		Logger:      logger,
	})

	return srv.Run(ctx)
}
