package cli

import (
	"context"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/matzehuels/railpath/pkg/errors"
	"github.com/matzehuels/railpath/pkg/network"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
	cleanupInterval   = time.Minute
)

// serveCommand runs the HTTP API until the context is cancelled.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		listen string
		ttl    time.Duration
		opts   serveOpts
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve networks, routes and replay sessions over HTTP",
		Long: `Serve the HTTP API.

Endpoints:
  GET    /healthz
  GET    /api/v1/networks
  GET    /api/v1/networks/{name}
  POST   /api/v1/routes                 {"from": "北京", "to": "深圳", "trace": true}
  POST   /api/v1/sessions               {"from": "北京", "to": "深圳"}
  GET    /api/v1/sessions/{id}
  POST   /api/v1/sessions/{id}/step?n=1
  GET    /api/v1/sessions/{id}/frame.svg
  GET    /api/v1/sessions/{id}/play?interval=500ms   (websocket)
  DELETE /api/v1/sessions/{id}
  GET    /metrics                       (unless --metrics=false)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen == "" {
				listen = c.Config.Listen
			}
			if opts.rps < 0 || opts.burst < 1 {
				return errors.New(errors.ErrCodeInvalidInput, "--rate must be non-negative and --burst at least 1")
			}
			srv, err := c.newServer(ttl, opts)
			if err != nil {
				return err
			}
			return c.runServer(cmd.Context(), srv, listen)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config, "+defaultListen+")")
	cmd.Flags().DurationVar(&ttl, "session-ttl", defaultSessionTTL, "discard replay sessions idle for this long")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", true, "serve Prometheus metrics at /metrics")
	cmd.Flags().Float64Var(&opts.rps, "rate", 0, "limit API requests per second (0 = unlimited)")
	cmd.Flags().IntVar(&opts.burst, "burst", 20, "requests allowed in a burst when --rate is set")
	return cmd
}

// serveOpts holds the optional server features.
type serveOpts struct {
	metrics bool
	rps     float64
	burst   int
}

// newServer builds a server over every built-in network plus the
// configured network file, if any. The selected network is the default.
func (c *CLI) newServer(ttl time.Duration, opts serveOpts) (*Server, error) {
	selected, err := c.loadNetwork()
	if err != nil {
		return nil, err
	}
	nets := []network.Network{selected}
	for _, name := range network.Names() {
		if name == selected.Name {
			continue
		}
		n, err := network.Builtin(name)
		if err != nil {
			return nil, err
		}
		nets = append(nets, n)
	}

	srv := NewServer(nets, selected.Name, c.Config.Colors, c.Logger)
	srv.sessions = newSessionStore(ttl)
	if opts.metrics {
		srv.metrics = newMetrics()
		srv.metrics.register()
	}
	if opts.rps > 0 {
		srv.limiter = rate.NewLimiter(rate.Limit(opts.rps), opts.burst)
	}
	return srv, nil
}

// runServer listens on addr and shuts down gracefully when ctx ends.
func (c *CLI) runServer(ctx context.Context, srv *Server, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if n := srv.sessions.Cleanup(); n > 0 {
					c.Logger.Debug("expired sessions removed", "count", n)
				}
			}
		}
	})

	g.Go(func() error {
		printInfo("Listening on %s", StyleHighlight.Render(addr))
		printDetail("default network: %s, sessions expire after %s", srv.defaultNetwork, srv.sessions.ttl)
		if err := hs.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
