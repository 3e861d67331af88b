package main

import (
	"context"
	"embed"
	"errors"
	"flag"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
	"github.com/tristangrace/uispin/config"
	"github.com/tristangrace/uispin/designs"
	"github.com/tristangrace/uispin/events"
	apidesigns "github.com/tristangrace/uispin/handlers/api/designs"
	"github.com/tristangrace/uispin/handlers/api/generate"
	apiproviders "github.com/tristangrace/uispin/handlers/api/providers"
	"github.com/tristangrace/uispin/handlers/images"
	requestLogger "github.com/tristangrace/uispin/middleware"
	"github.com/tristangrace/uispin/providers"
	"github.com/tristangrace/uispin/stores"
)

//go:embed all:frontend
var assets embed.FS

func handleUI() http.HandlerFunc {
	sub, err := fs.Sub(assets, "frontend")
	if err != nil {
		panic(err)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/" || path == "" {
			path = "/index.html"
		}

		f, err := sub.Open(strings.TrimPrefix(path, "/"))
		if err != nil {
			// Extension-less paths are client-side routes.
			if errors.Is(err, fs.ErrNotExist) && !strings.Contains(path, ".") {
				path = "/index.html"
				f, err = sub.Open("index.html")
			} else {
				http.NotFound(w, r)
				return
			}
		}
		if err != nil {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		defer f.Close()

		content, err := io.ReadAll(f)
		if err != nil {
			http.Error(w, "Error reading file", http.StatusInternalServerError)
			return
		}

		contentType := http.DetectContentType(content)
		switch {
		case strings.HasSuffix(path, ".js"):
			contentType = "application/javascript"
		case strings.HasSuffix(path, ".html"):
			contentType = "text/html; charset=utf-8"
		case strings.HasSuffix(path, ".css"):
			contentType = "text/css"
		case strings.HasSuffix(path, ".png"):
			contentType = "image/png"
		case strings.HasSuffix(path, ".svg"):
			contentType = "image/svg+xml"
		}

		w.Header().Set("Content-Type", contentType)
		if _, err := w.Write(content); err != nil {
			logrus.WithError(err).Debug("Failed to write UI asset")
		}
	}
}

func setupRouter(registry *providers.Registry, service *designs.Service, store stores.Store, notifier events.Notifier) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Origin", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", generate.HandleGenerate(registry, service, notifier))
		r.Get("/providers", apiproviders.HandleList(registry))
		r.Route("/designs", func(r chi.Router) {
			r.Get("/", apidesigns.HandleList(service))
			r.Get("/{id}", apidesigns.HandleGet(service))
		})
	})

	r.Get("/designs/images/{name}", images.HandleGet(store))

	r.NotFound(handleUI())
	return r
}

func waitForShutdown(srv *http.Server, feed *events.Feed, store stores.Store) {
	signalC := make(chan os.Signal, 1)
	signal.Notify(signalC, os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
	s := <-signalC
	logrus.WithField("signal", s.String()).Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	feed.Close()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Warn("Server shutdown did not complete cleanly")
	}
	if closer, ok := store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close store")
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}

	listenAddress := flag.String("listen", ":"+cfg.Server.Port, "The address to listen on.")
	logLevel := flag.String("loglevel", cfg.LogLevel, "The log level (debug, info, warn, error).")
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	store := stores.GetStore(cfg.Storage)

	registry, err := providers.FromConfig(cfg.Providers)
	if err != nil {
		logrus.Fatalf("Failed to set up providers: %v", err)
	}
	for _, p := range registry.List() {
		logrus.WithFields(logrus.Fields{
			"provider":   p.Name,
			"configured": p.Configured,
			"default":    p.Default,
		}).Info("Image provider registered")
	}

	service := designs.NewService(store, &http.Client{Timeout: cfg.Providers.Timeout})
	feed := events.NewFeed()

	r := setupRouter(registry, service, store, feed)
	r.Mount("/socket.io/", feed.Handler())

	srv := &http.Server{
		Addr:              *listenAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logrus.WithField("addr", *listenAddress).Info("starting server")
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithField("event", "start server").Fatal(err)
		}
	}()

	waitForShutdown(srv, feed, store)
}
