package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/youruser/certgate/internal/certificate"
	"github.com/youruser/certgate/internal/config"
	"github.com/youruser/certgate/internal/form"
	imagepkg "github.com/youruser/certgate/internal/image"
	"github.com/youruser/certgate/internal/logging"
	"github.com/youruser/certgate/internal/presenter"
	"github.com/youruser/certgate/internal/session"
)

// app is what every subcommand needs, built once the config is loaded.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	service *session.Service
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "certgate",
		Short: "Training certificate generator",
		Long: `certgate unlocks a certificate form once the training video has been watched,
validates the form and renders a PNG certificate from a template and an optional photo.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newRenderCmd(a))
	return cmd
}

func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	a.service = newService(cfg, logger)
	return nil
}

func newService(cfg config.Config, logger *zap.Logger) *session.Service {
	composer := imagepkg.NewComposer(imagepkg.TemplateFrom(cfg.TemplatePath), logger.Named("composer"))
	composer.Subtitle = cfg.Subtitle
	composer.StampQR = cfg.QREnabled
	return session.NewService(
		form.Default(),
		certificate.NewIDGenerator(cfg.IDPrefix),
		composer,
		presenter.New(cfg.FilePrefix),
		logger.Named("session"),
	)
}
