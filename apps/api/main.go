package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	echoapi "github.com/campushq/clubhub/apps/api/echo"
	"github.com/campushq/clubhub/core"
	"github.com/campushq/clubhub/core/club"
	"github.com/campushq/clubhub/core/membership"
	"github.com/campushq/clubhub/core/user"
	emailsvc "github.com/campushq/clubhub/services/email"
	logsvc "github.com/campushq/clubhub/services/logger"
	"github.com/campushq/clubhub/storage/database"
	sqlxrepos "github.com/campushq/clubhub/storage/database/sqlx"
)

const shutdownTimeout = 20 * time.Second

func main() {
	core.Conf = core.LoadConfig()

	logger, err := logsvc.NewZapLogger()
	errAndDie(err)
	defer func() { _ = logger.Sync() }()

	// set up DB
	db, err := database.Open(core.Conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(database.Ping(db))

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), mailSvc)
	clubSvc := club.NewService(sqlxrepos.NewClubRepository(db))
	memberSvc := membership.NewService(sqlxrepos.NewMembershipRepository(db))

	// start API server
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	app := echoapi.NewServer(&echoapi.Options{
		Address:        core.Conf.Server.Address(),
		Logger:         logger,
		UserSvc:        usrSvc,
		ClubSvc:        clubSvc,
		MembershipSvc:  memberSvc,
		SignalShutdown: func() { shutdown <- syscall.SIGTERM },
	})

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", "address", core.Conf.Server.Address())
		serverErrors <- app.Start()
	}()

	select {
	case err = <-serverErrors:
		logger.Error("server error", err)
		os.Exit(1)
	case sig := <-shutdown:
		logger.Info("shutting down", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err = app.Stop(ctx); err != nil {
			logger.Error("graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

func errAndDie(err error) {
	if err != nil {
		log.Fatalf("%+v", err)
	}
}
