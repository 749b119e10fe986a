// Package http implements the HTTP transport for deskpilot.
//
// This is the API the browser front end talks to: one endpoint to submit a
// spoken command and one to list example phrases. Every route carries CORS
// headers, and the Swagger UI documents both endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/nadzzz/deskpilot/internal/command"
	"github.com/nadzzz/deskpilot/internal/config"
	"github.com/nadzzz/deskpilot/internal/message"
	"github.com/nadzzz/deskpilot/internal/transport"
)

// maxBody bounds the request body; commands are one spoken sentence.
const maxBody = 1 << 20

// Transport implements transport.Transport over HTTP.
type Transport struct {
	port    int
	origins []string

	mu     sync.Mutex
	server *http.Server
}

// New creates a new HTTP transport from config.
func New(cfg config.HTTPConfig) *Transport {
	return &Transport{port: cfg.Port, origins: cfg.AllowedOrigins}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "http" }

// CommandRequest is the body of POST /api/process-command.
type CommandRequest struct {
	// Command is the free text from speech-to-text.
	Command string `json:"command" example:"create a folder called Projects"`

	// ResponseMode is "text" (default) or "text+audio".
	ResponseMode message.ResponseMode `json:"response_mode,omitempty" example:"text"`
}

// CommandResponse is the body returned by POST /api/process-command.
type CommandResponse struct {
	Response            string `json:"response" example:"📁 Folder 'Projects' created successfully."`
	ResponseAudio       string `json:"response_audio,omitempty"`
	ResponseContentType string `json:"response_content_type,omitempty"`
}

// Handler builds the routed, CORS-wrapped handler for svc.
func (t *Transport) Handler(svc transport.Service) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/process-command", func(w http.ResponseWriter, r *http.Request) {
		handleProcessCommand(w, r, svc)
	})
	mux.HandleFunc("GET /api/get-help", func(w http.ResponseWriter, r *http.Request) {
		handleGetHelp(w, r, svc)
	})

	// Swagger UI over the document registered by the docs package.
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	origins := t.origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(mux)
}

// Listen starts the HTTP server and routes incoming requests to svc.
func (t *Transport) Listen(ctx context.Context, svc transport.Service) error {
	srv := &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(t.port)),
		Handler:           t.Handler(svc),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	t.mu.Lock()
	t.server = srv
	t.mu.Unlock()

	slog.Info("http transport listening", "port", t.port)

	go func() {
		<-ctx.Done()
		slog.Info("http transport shutting down")
		_ = t.Close()
	}()

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http listen: %w", err)
	}
	return nil
}

// handleProcessCommand runs one spoken command.
//
// @Summary     Process a spoken command
// @Description Classifies the free text into the command grammar and executes it on this machine
// @Description (filesystem, volume or brightness). The outcome is always returned as a status line
// @Description with HTTP 200; failures are described in the text, not the status code.
// @Tags        commands
// @Accept      json
// @Produce     json
// @Param       request  body      CommandRequest   true  "Spoken command"
// @Success     200      {object}  CommandResponse  "Status line"
// @Router      /api/process-command [post]
func handleProcessCommand(w http.ResponseWriter, r *http.Request, svc transport.Service) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("process-command panicked", "panic", rec, "remote", r.RemoteAddr)
			writeJSON(w, CommandResponse{Response: fmt.Sprintf("⚠ Error: %v", rec)})
		}
	}()

	var body CommandRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		slog.Warn("invalid process-command body", "error", err, "remote", r.RemoteAddr)
		writeJSON(w, CommandResponse{Response: fmt.Sprintf("⚠ Error: invalid request body: %v", err)})
		return
	}

	resp := svc.Handle(r.Context(), &message.Request{
		Source:       "http",
		Command:      body.Command,
		ResponseMode: body.ResponseMode,
		Timestamp:    time.Now(),
	})
	writeJSON(w, CommandResponse{
		Response:            resp.Response,
		ResponseAudio:       resp.ResponseAudio,
		ResponseContentType: resp.ResponseContentType,
	})
}

// handleGetHelp lists example phrases.
//
// @Summary     List example commands
// @Tags        commands
// @Produce     json
// @Success     200  {object}  command.Help
// @Router      /api/get-help [get]
func handleGetHelp(w http.ResponseWriter, _ *http.Request, svc transport.Service) {
	var help command.Help = svc.Help()
	writeJSON(w, help)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("writing response", "error", err)
	}
}

// Close gracefully shuts down the HTTP server.
func (t *Transport) Close() error {
	t.mu.Lock()
	srv := t.server
	t.mu.Unlock()
	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
