package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/trezcool/shule/apps/api/echo"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/access"
	"github.com/trezcool/shule/core/user"
	"github.com/trezcool/shule/services/email"
	"github.com/trezcool/shule/services/logger"
	"github.com/trezcool/shule/storage/database"
	"github.com/trezcool/shule/storage/database/inmem"
	"github.com/trezcool/shule/storage/database/postgres"
)

func main() {
	std := log.New(os.Stderr, "API : ", log.LstdFlags|log.Lshortfile)

	// set up logging
	var appLogger core.Logger
	if core.Conf.Debug {
		appLogger = logsvc.NewConsoleLogger()
	} else {
		appLogger = logsvc.NewRollbarLogger(std, core.Conf)
	}

	// set up repositories
	var usrRepo user.Repository
	if core.Conf.DatabaseURL == "" {
		memDB, err := inmemdb.Open()
		errAndDie(std, err)
		usrRepo = inmemdb.NewUserRepository(memDB)
	} else {
		db, err := database.Open(core.Conf)
		errAndDie(std, err)
		defer db.Close()
		usrRepo = postgresdb.NewUserRepository(db)
	}

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(appLogger)
	}
	usrSvc := user.NewService(usrRepo, mailSvc)

	// the access policy is fatal at startup, never at navigation time
	policy, err := loadPolicy()
	errAndDie(std, err)
	gate := access.NewGate(policy, nil)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	app := echoapi.NewServer(&echoapi.Options{
		Addr:           core.Conf.Server.Addr,
		UserSvc:        usrSvc,
		Gate:           gate,
		Logger:         appLogger,
		SignalShutdown: func() { shutdown <- syscall.SIGTERM },
	})

	serverErrors := make(chan error, 1)
	go func() {
		std.Printf("API server listening on %s", core.Conf.Server.Addr)
		serverErrors <- app.Start()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			std.Fatalf("server error: %v", err)
		}
	case sig := <-shutdown:
		std.Printf("shutting down on %v", sig)
		ctx, cancel := context.WithTimeout(context.Background(), core.Conf.Server.ShutdownTimeout)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			std.Fatalf("graceful shutdown failed: %v", err)
		}
	}
}

func loadPolicy() (*access.Policy, error) {
	if core.Conf.RoutesFile != "" {
		return access.LoadPolicyFile(core.Conf.RoutesFile)
	}
	return access.DefaultPolicy()
}

func errAndDie(std *log.Logger, err error) {
	if err != nil {
		std.Fatal(err)
	}
}
