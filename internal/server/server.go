package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Server serves generated feed artifacts over HTTP.
type Server struct {
	feedsDir string
}

func New(feedsDir string) *Server {
	return &Server{
		feedsDir: feedsDir,
	}
}

// Handler routes GET /feeds/{cityID}.xml to the stored artifact.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /feeds/{city}", s.handleFeed)
	return mux
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("city")
	cityID, err := strconv.Atoi(strings.TrimSuffix(name, ".xml"))
	if err != nil {
		http.Error(w, "invalid city id", http.StatusBadRequest)
		return
	}

	path := filepath.Join(s.feedsDir, strconv.Itoa(cityID)+".xml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "feed not found", http.StatusNotFound)
			return
		}
		log.Errorf("Failed to read feed %s: %v", path, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.Write(data)
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("Serving feeds on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("feed server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
