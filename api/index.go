package handler

import (
	"net/http"
	"sync"

	"arena/config"
	"arena/di"
	"arena/shared/logger"
	"arena/transport/http/response"
)

var (
	app     *di.Application
	initErr error
	once    sync.Once
)

func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.SetLogLevel(cfg)

		app, initErr = di.InitializeService()
	})

	if initErr != nil {
		response.WithError(w, initErr)

		return
	}

	app.HTTP.ServeHTTP(w, r)
}
