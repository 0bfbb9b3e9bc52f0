/*
file: rudis/cmd/rudis-server/main.go
*/

// rudis-server is the process entrypoint: load configuration, build the
// logger, store, background stats reporter, and listener, then block until
// an interrupt or termination signal triggers a graceful shutdown.
package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/akashmaji946/rudis/internal/config"
	"github.com/akashmaji946/rudis/internal/rlog"
	"github.com/akashmaji946/rudis/internal/server"
	"github.com/akashmaji946/rudis/internal/statsrep"
	"github.com/akashmaji946/rudis/internal/store"
)

func main() {
	fmt.Println(">>> rudis-server <<<")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := rlog.NewStderr().SetLevel(rlog.ParseLevel(cfg.LogLevel))

	var tlsConfig *tls.Config
	if cfg.TLSEnabled() {
		cert, err := tls.LoadX509KeyPair(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			log.Error("loading TLS keypair: %v", err)
			os.Exit(1)
		}
		tlsConfig = &tls.Config{Certificates: []tls.Certificate{cert}}
	}

	st := store.New()
	srv := server.New(cfg.Addr, st, log, tlsConfig)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go statsrep.Run(ctx, log, statsrep.DefaultInterval)

	if err := srv.ListenAndServe(ctx); err != nil {
		log.Error("server stopped with error: %v", err)
		os.Exit(1)
	}

	log.Info("goodbye")
}
