package studymate

import (
	"fmt"

	"github.com/kart-io/logger"

	"github.com/Rayyan1704/StudyMate/pkg/app"
)

const (
	appName        = "studymate"
	appDescription = `StudyMate Retrieval Service

The session-scoped document retrieval engine for StudyMate.

This server provides:
  - Document upload and asynchronous ingestion (PDF, DOCX, PPTX, TXT)
  - Sentence-aware chunking with embeddings and per-session vector search
  - Mode-aware context assembly (chat, tutor, notes, quiz) under a token budget`
)

// NewApp creates a new application instance.
func NewApp() *app.App {
	opts := NewOptions()

	return app.NewApp(
		app.WithName(appName),
		app.WithShortDescription("StudyMate retrieval service"),
		app.WithDescription(appDescription),
		app.WithOptions(opts),
		app.WithRunFunc(func() error {
			return Run(opts)
		}),
	)
}

// Run runs the StudyMate service with the given options.
func Run(opts *Options) error {
	fmt.Printf("Starting %s...\n", appName)

	opts.Log.AddInitialField("service.name", appName)
	opts.Log.AddInitialField("service.version", app.GetVersion())

	srv, err := NewServer(opts)
	if err != nil {
		return err
	}

	logger.Info("StudyMate service is ready")
	return srv.Run()
}
