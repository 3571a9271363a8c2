package authority

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

/*
Server exposes the authority over HTTP.

  GET  /params                 public parameters and P_pub
  GET  /pubkey?id=...&kind=... public key for an identity, no issuance recorded
  POST /extract                private key for an identity, appended to the issuance log
  GET  /issuances/root         merkle root over the issuance log
  GET  /issuances/proof?id=... inclusion proof for one issuance
  GET  /health                 store and secret status

Requests to /extract are not authenticated here; deployments are expected to put
the endpoint behind whatever identity verification the application needs.
*/
type Server struct {
	service    *Service
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer creates a new server instance
func NewServer(service *Service, port int, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		service: service,
		logger:  logger,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/params", s.handleParams)
	mux.HandleFunc("/pubkey", s.handlePublicKey)
	mux.HandleFunc("/extract", s.handleExtract)

	// Audit endpoints
	mux.HandleFunc("/issuances/root", s.handleIssuanceRoot)
	mux.HandleFunc("/issuances/proof", s.handleIssuanceProof)

	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	go func() {
		s.logger.Sugar().Infow("Starting HTTP server", "port", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != http.ErrServerClosed {
			s.logger.Sugar().Errorw("HTTP server error", "error", err)
		}
	}()
	return nil
}

// Stop stops the HTTP server
func (s *Server) Stop() error {
	return s.httpServer.Close()
}

// GetHandler returns the HTTP handler (for testing)
func (s *Server) GetHandler() http.Handler {
	return s.httpServer.Handler
}
