package queryserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
	"github.com/weightdag/dagd/infrastructure/metrics"
)

const (
	gracefulShutdownTimeout = 30 * time.Second
	readHeaderTimeout       = 10 * time.Second
)

// Server is the read-only HTTP server answering queries about the DAG
type Server struct {
	consensus   externalapi.Consensus
	metrics     *metrics.Metrics
	networkName string

	handler       http.Handler
	httpServer    *http.Server
	nextRequestID uint64
}

// New creates a query server over the given consensus. metrics may be nil,
// in which case the /metrics route is not served.
func New(consensus externalapi.Consensus, networkName string, metrics *metrics.Metrics) *Server {
	s := &Server{
		consensus:   consensus,
		metrics:     metrics,
		networkName: networkName,
	}

	router := mux.NewRouter()
	router.Use(recoveryMiddleware)
	router.Use(s.loggingMiddleware)
	router.Use(s.metricsMiddleware)
	router.Use(setJSONMiddleware)
	s.addRoutes(router)
	s.handler = handlers.CORS()(router)
	return s
}

// Handler returns the http.Handler serving every query route
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on listenAddr and serves queries in the background
func (s *Server) Start(listenAddr string) error {
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", listenAddr)
	}

	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	log.Infof("Query server listening on %s", listener.Addr())
	spawn("queryserver.Start-Serve", func() {
		err := s.httpServer.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("Query server stopped: %s", err)
		}
	})
	return nil
}

// Stop gracefully shuts the query server down
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()
	return errors.Wrap(s.httpServer.Shutdown(ctx), "error shutting down the query server")
}
