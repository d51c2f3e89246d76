package metrics

import (
	"context"
	"fmt"

	"github.com/moonfall/devserve/fs"
	libhttp "github.com/moonfall/devserve/lib/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Path the metrics are served on
const Path = "/metrics"

// Server serves the metrics
type Server struct {
	server *libhttp.Server
}

// Start the metrics server if configured
//
// If the server wasn't configured the *Server returned is nil
func Start(ctx context.Context, opt *Options, gatherer prometheus.Gatherer) (*Server, error) {
	if !opt.Enabled() {
		return nil, nil
	}
	server, err := libhttp.NewServer(ctx, libhttp.WithConfig(opt.HTTP))
	if err != nil {
		return nil, fmt.Errorf("failed to init metrics server: %w", err)
	}
	server.Router().Get(Path, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}).ServeHTTP)
	server.Serve()
	for _, url := range server.URLs() {
		fs.Logf(nil, "Serving metrics on %s", url+Path[1:])
	}
	return &Server{server: server}, nil
}

// URLs returns the URLs the metrics are served on
func (s *Server) URLs() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.server.URLs()))
	for _, url := range s.server.URLs() {
		out = append(out, url+Path[1:])
	}
	return out
}

// Shutdown the metrics server, a nil *Server is OK
func (s *Server) Shutdown() error {
	if s == nil {
		return nil
	}
	return s.server.Shutdown()
}
