package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/discovery-funnel/internal/config"
	"github.com/sells-group/discovery-funnel/internal/store"
	"github.com/sells-group/discovery-funnel/pkg/ice"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the discovery API server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		client, err := newICEClient(cfg)
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(st, client, cfg),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newRouter builds the HTTP API. Every discovery request constructs its own
// workflow over the shared collaborator handles, so concurrent requests
// share no intermediate state.
func newRouter(st store.Store, client ice.Client, cfg *config.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", "x-api-key", "Authorization"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
		})
	})

	r.Route("/api/discovery", func(r chi.Router) {
		r.Use(apiKeyAuth(cfg.Server.APIKey))

		r.Post("/workflow", func(w http.ResponseWriter, req *http.Request) {
			wf, err := newWorkflow(st, client, cfg)
			if err != nil {
				writeWorkflowError(w, err)
				return
			}

			result, err := wf.Run(req.Context())
			if err != nil {
				zap.L().Error("discovery workflow failed", zap.Error(err))
				writeWorkflowError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, result)
		})

		r.Get("/products/{category}", func(w http.ResponseWriter, req *http.Request) {
			category := chi.URLParam(req, "category")

			wf, err := newWorkflow(st, client, cfg)
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]any{
					"success": false,
					"error":   "Failed to Fetch Products",
					"message": err.Error(),
				})
				return
			}

			products, err := wf.ProductsByCategory(req.Context(), category)
			if err != nil {
				zap.L().Error("products by category failed",
					zap.String("category", category),
					zap.Error(err),
				)
				writeJSON(w, http.StatusInternalServerError, map[string]any{
					"success": false,
					"error":   "Failed to Fetch Products",
					"message": err.Error(),
				})
				return
			}

			writeJSON(w, http.StatusOK, map[string]any{
				"success":  true,
				"category": category,
				"count":    len(products),
				"products": products,
			})
		})

		r.Get("/status", func(w http.ResponseWriter, req *http.Request) {
			wf, err := newWorkflow(st, client, cfg)
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]any{
					"success": false,
					"error":   "Status Check Failed",
					"message": err.Error(),
				})
				return
			}

			connections := wf.TestConnections(req.Context())
			allConnected := true
			for _, ok := range connections {
				allConnected = allConnected && ok
			}

			status := http.StatusOK
			if !allConnected {
				status = http.StatusServiceUnavailable
			}
			writeJSON(w, status, map[string]any{
				"success":   allConnected,
				"services":  connections,
				"timestamp": time.Now().UTC(),
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})

	return r
}

// apiKeyAuth validates the caller's API key from the x-api-key or
// Authorization header, tolerating a Bearer prefix.
func apiKeyAuth(expected string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if expected == "" {
				writeJSON(w, http.StatusInternalServerError, map[string]any{
					"error":   "Configuration Error",
					"message": "Server API key not configured",
				})
				return
			}

			key := req.Header.Get("x-api-key")
			if key == "" {
				key = req.Header.Get("Authorization")
			}
			if key == "" {
				writeJSON(w, http.StatusUnauthorized, map[string]any{
					"error":   "Authentication Required",
					"message": "API key is required. Include it in x-api-key header",
				})
				return
			}

			key = strings.TrimSpace(strings.TrimPrefix(key, "Bearer "))
			if key != expected {
				writeJSON(w, http.StatusForbidden, map[string]any{
					"error":   "Authentication Failed",
					"message": "Invalid API key",
				})
				return
			}

			next.ServeHTTP(w, req)
		})
	}
}

func writeWorkflowError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]any{
		"success":   false,
		"error":     "Discovery Workflow Failed",
		"message":   err.Error(),
		"timestamp": time.Now().UTC(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
