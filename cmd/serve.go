package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/peakstay/parity-cli/internal/health"
	"github.com/peakstay/parity-cli/internal/model"
	"github.com/peakstay/parity-cli/internal/pipeline"
	"github.com/peakstay/parity-cli/internal/recommend"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		engine := initEngine()

		mux := http.NewServeMux()

		mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		mux.HandleFunc("GET /api/analysis", func(w http.ResponseWriter, r *http.Request) {
			req, err := queryRequest(r)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}

			analysis, err := engine.Run(r.Context(), req)
			if err != nil {
				writeAnalysisError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, analysis)
		})

		mux.HandleFunc("GET /api/recommendations", func(w http.ResponseWriter, r *http.Request) {
			req, err := queryRequest(r)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}

			threshold := cfg.Strategy.ThresholdPct
			if s := r.URL.Query().Get("threshold"); s != "" {
				threshold, err = strconv.ParseFloat(s, 64)
				if err != nil || threshold <= 0 {
					writeJSON(w, http.StatusBadRequest, map[string]string{"error": "threshold must be a positive number"})
					return
				}
			}

			analysis, err := engine.Run(r.Context(), req)
			if err != nil {
				writeAnalysisError(w, err)
				return
			}

			recs := recommend.Build(analysis.Records, req.Mode, threshold, analysis.Rates.Rates)
			writeJSON(w, http.StatusOK, map[string]any{
				"mode":            req.Mode,
				"threshold_pct":   threshold,
				"recommendations": recs,
				"warnings":        analysis.Warnings,
			})
		})

		mux.HandleFunc("GET /api/scraper-health", func(w http.ResponseWriter, r *http.Request) {
			snap, err := engine.Snapshot(r.Context())
			if err != nil {
				writeAnalysisError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, health.Summarize(health.Records(snap)))
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// queryRequest builds a pipeline request from URL query parameters.
func queryRequest(r *http.Request) (pipeline.Request, error) {
	q := r.URL.Query()

	modeStr := q.Get("strategy")
	if modeStr == "" {
		modeStr = cfg.Strategy.Mode
	}
	mode, err := model.ParseStrategyMode(modeStr)
	if err != nil {
		return pipeline.Request{}, err
	}

	req := pipeline.Request{Mode: mode, Hotel: q.Get("hotel")}
	if s := q.Get("from"); s != "" {
		if req.From, err = time.Parse("2006-01-02", s); err != nil {
			return pipeline.Request{}, eris.Errorf("invalid from date %q (want YYYY-MM-DD)", s)
		}
	}
	if s := q.Get("to"); s != "" {
		if req.To, err = time.Parse("2006-01-02", s); err != nil {
			return pipeline.Request{}, eris.Errorf("invalid to date %q (want YYYY-MM-DD)", s)
		}
	}
	return req, nil
}

// writeAnalysisError maps pipeline failures onto HTTP statuses: no data at
// all is a 503 (the sources are down), anything else a 500.
func writeAnalysisError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if eris.Is(err, pipeline.ErrNoData) {
		status = http.StatusServiceUnavailable
	}
	zap.L().Error("request failed", zap.Error(err))
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
