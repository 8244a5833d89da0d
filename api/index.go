// Package api exposes the iam-proxy as a single serverless HTTP handler.
package api

import (
	"context"
	"net/http"

	"github.com/SebbieMzingKe/iam-profile/internal/config"
	"github.com/SebbieMzingKe/iam-profile/internal/logger"
	"github.com/SebbieMzingKe/iam-profile/internal/server"
)

var router = func() http.Handler {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.DebugMode, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	srv, err := server.New(context.Background(), cfg, log)
	if err != nil {
		panic(err)
	}
	return srv.Router
}()

func Handler(w http.ResponseWriter, r *http.Request) {
	router.ServeHTTP(w, r)
}
