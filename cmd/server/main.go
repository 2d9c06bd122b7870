package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-print"

	"github.com/goliatone/go-uptask"
	"github.com/goliatone/go-uptask/mailer"
	"github.com/goliatone/go-uptask/server"
)

func main() {
	logger := uptask.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	cfg := uptask.LoadConfig()
	logger.Info("starting uptask api", "config", print.MaybePrettyJSON(cfg))

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *uptask.Config, logger uptask.Logger) error {
	db, err := uptask.OpenDB(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := uptask.Migrate(db); err != nil {
		return err
	}

	repo := uptask.NewRepositoryManager(db)
	repo.MustValidate()

	tokens := uptask.NewTokenService(
		[]byte(cfg.JWTSigningKey),
		cfg.TokenExpiration,
		"uptask",
		logger,
	)

	var mail uptask.Mailer
	if cfg.SMTPHost != "" {
		smtp, err := mailer.NewSMTPMailer(mailer.Config{
			Host:        cfg.SMTPHost,
			Port:        cfg.SMTPPort,
			Username:    cfg.SMTPUser,
			Password:    cfg.SMTPPassword,
			From:        cfg.SMTPFrom,
			FrontendURL: cfg.FrontendURL,
		})
		if err != nil {
			return err
		}
		mail = smtp
	} else {
		logger.Warn("no smtp host configured, email codes will be logged")
		mail = mailer.NewLogMailer(logger)
	}

	accounts := uptask.NewAccountManager(repo, tokens, mail,
		uptask.WithLogger(logger),
		uptask.WithCodeTTL(cfg.ConfirmationTTL),
	)

	srv := server.New(repo, accounts, tokens, server.WithLogger(logger))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errs := make(chan error, 1)
	go func() {
		errs <- srv.Listen(cfg.HTTPAddr)
	}()

	select {
	case err := <-errs:
		return err
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
		return srv.Shutdown()
	}
}
