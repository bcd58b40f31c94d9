package main

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/insightdelivered/cardstatement/internal/api"
	"github.com/insightdelivered/cardstatement/internal/observability"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP conversion API",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			logger := observability.NewLogger(cfg.LogLevel)
			defer logger.Sync()

			h := &api.Handler{
				Logger:          logger,
				Metrics:         observability.NewMetrics(),
				Options:         cfg.ParserOptions(),
				DefaultPassword: cfg.PDFPassword,
			}
			app := api.NewApp(h, cfg.MaxUploadMB)

			go func() {
				<-c.Context.Done()
				logger.Info("shutting down")
				if err := app.Shutdown(); err != nil {
					logger.Error("shutdown failed", zap.Error(err))
				}
			}()

			logger.Info("listening",
				zap.String("addr", cfg.Addr()),
				zap.String("date_detector", cfg.DateDetector),
				zap.Bool("strict", cfg.StrictParse),
				zap.String("version", version),
			)
			return app.Listen(cfg.Addr())
		},
	}
}
