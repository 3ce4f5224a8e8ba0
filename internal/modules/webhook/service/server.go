package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"signal_bot/internal/processor"
	"signal_bot/pkg/logger"

	"github.com/bytedance/sonic"
)

// Server is the inbound signal boundary: one goroutine per request, all
// serialization happens further down in the processor.
type Server struct {
	proc *processor.Processor
	srv  *http.Server
}

func NewServer(host string, port int, proc *processor.Processor) *Server {
	s := &Server{proc: proc}

	mux := http.NewServeMux()
	mux.HandleFunc("/webhook", s.handleWebhook)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.srv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return s
}

func (s *Server) Start() {
	go func() {
		logger.Info("webhook listening on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("webhook server: %v", err)
		}
	}()
}

func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, processor.Outcome{
			Status: processor.StatusError, Message: "read body failed",
		})
		return
	}

	sig, err := ParseSignal(body)
	if err != nil {
		logger.Error("webhook: validation failed: %v", err)
		writeJSON(w, http.StatusBadRequest, processor.Outcome{
			Status: processor.StatusRejected, Reason: "validation_failed", Message: err.Error(),
		})
		return
	}

	out := s.proc.Handle(r.Context(), sig)

	code := http.StatusOK
	if out.Status == processor.StatusError {
		code = http.StatusInternalServerError
	}
	writeJSON(w, code, out)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	data, err := sonic.Marshal(v)
	if err != nil {
		return
	}
	_, _ = w.Write(data)
}
