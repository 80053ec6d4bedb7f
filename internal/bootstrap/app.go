package bootstrap

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"studymatrix-backend/internal/analysis"
	"studymatrix-backend/internal/analysis/gemini"
	"studymatrix-backend/internal/export"
	"studymatrix-backend/internal/extract"
	"studymatrix-backend/internal/pipeline"
	"studymatrix-backend/internal/shared/config"
	"studymatrix-backend/internal/shared/server"
	"studymatrix-backend/internal/snapshot"
	"studymatrix-backend/internal/studies"
)

// App holds shared dependencies.
type App struct {
	Config   config.Config
	Router   *gin.Engine
	Store    *studies.Store
	Analysis analysis.Client
	Pipeline *pipeline.Pipeline
	Codec    *snapshot.Codec

	StudiesHandler *studies.Handler
	ExportHandler  *export.Handler
	ShareHandler   *snapshot.Handler

	closers []func() error
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	app := &App{
		Config: cfg,
		Store:  studies.NewStore(),
		Codec:  &snapshot.Codec{MaxTokenChars: cfg.ShareMaxTokenChars},
	}

	if err := buildAnalysisClient(app); err != nil {
		return nil, err
	}

	app.Pipeline = &pipeline.Pipeline{
		Store:             app.Store,
		Analysis:          app.Analysis,
		Validate:          extract.ValidatePDF,
		HeartbeatInterval: time.Duration(cfg.ProgressIntervalMS) * time.Millisecond,
		Timeout:           time.Duration(cfg.AnalysisTimeoutSeconds) * time.Second,
	}

	app.StudiesHandler = studies.NewHandler(app.Store, app.Pipeline)
	app.ExportHandler = export.NewHandler(app.Store)
	app.ShareHandler = snapshot.NewHandler(app.Store, app.Codec, cfg.PublicBaseURL)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:         cfg,
		StudiesHandler: app.StudiesHandler,
		ExportHandler:  app.ExportHandler,
		ShareHandler:   app.ShareHandler,
	})

	return app, nil
}

func buildAnalysisClient(app *App) error {
	cfg := app.Config
	if cfg.LLMProvider != "gemini" || cfg.GCPProject == "" {
		log.Printf("bootstrap: analysis provider not configured; uploads will fail analysis")
		app.Analysis = analysis.PlaceholderClient{}
		return nil
	}

	client, err := gemini.NewClient(context.Background(), cfg.GCPProject, cfg.VertexAIRegion, cfg.LLMModel)
	if err != nil {
		return err
	}
	app.Analysis = client
	app.closers = append(app.closers, client.Close)
	return nil
}

// Close releases held resources.
func (a *App) Close() error {
	var firstErr error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
