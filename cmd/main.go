package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/chenBenjamin97/distraction-detector/pkg/api"
	"github.com/chenBenjamin97/distraction-detector/pkg/config"
	"github.com/chenBenjamin97/distraction-detector/pkg/inference"
	"github.com/chenBenjamin97/distraction-detector/pkg/logger"
	"github.com/chenBenjamin97/distraction-detector/pkg/video"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Error: Could not load configuration, got '%v'", err)
	}

	log := logger.New(cfg.LoggerOptions())
	if cfg.EnvFileLoaded {
		log.Debug("Loaded environment from .env")
	}

	//uploaded videos are staged here until analyzed
	if _, err := os.Stat(cfg.Upload.TempDir); err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(cfg.Upload.TempDir, 0766); err != nil {
				log.Fatalf("Error Creating '%s' directory, got '%v'", cfg.Upload.TempDir, err)
			}
		}
	}

	//a missing model is not fatal: the server starts and answers 503 on prediction endpoints
	var net inference.Network
	if loaded, err := video.LoadNetwork(cfg.Model.Path, cfg.Model.Backend, cfg.Model.Target); err != nil {
		log.Errorf("Could not load model, got '%v'", err)
		log.Warnf("Place your trained model at '%s' (or set MODEL_PATH) and restart", cfg.Model.Path)
	} else {
		net = loaded
		log.WithFields(logger.Fields{
			"path":       cfg.Model.Path,
			"input_size": cfg.Model.InputSize,
			"backend":    cfg.Model.Backend,
			"target":     cfg.Model.Target,
		}).Info("Model loaded")
	}

	classifier := inference.NewClassifier(net, cfg.Model.InputSize)
	defer classifier.Close()

	gin.SetMode(cfg.HTTP.Mode)
	handler := api.NewHandler(classifier, video.Open, api.Options{
		MaxImageBytes: cfg.MaxImageBytes(),
		MaxVideoBytes: cfg.MaxVideoBytes(),
		TempDir:       cfg.Upload.TempDir,
		SampleRate:    cfg.Video.SampleRate,
	}, log)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTP.Port,
		Handler: api.SetRouter(handler, cfg.CORS.Origins, log),
	}

	go func() {
		log.Infof("Listening on port %s (model loaded: %v)", cfg.HTTP.Port, classifier.Available())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error: Got '%v'", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown, got '%v'", err)
	}
	log.Info("Server exited")
}
