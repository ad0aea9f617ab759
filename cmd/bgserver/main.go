// Command bgserver runs the gammonboard table server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/yourusername/gammonboard/internal/log"
	"github.com/yourusername/gammonboard/pkg/api"
	"github.com/yourusername/gammonboard/pkg/external"
)

const version = "0.1.0"

func main() {
	m, err := newMainFlags(os.Args, os.LookupEnv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if m.showVersion {
		fmt.Printf("gammonboard table server v%s\n", version)
		os.Exit(0)
	}
	l := log.Default("")
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := m.run(ctx, l); err != nil {
		l.Printf("Server error: %v", err)
		os.Exit(1)
	}
}

// run serves the table server and, when configured, the text protocol server until ctx
// is done or one of them fails.
func (m mainFlags) run(ctx context.Context, l log.Logger) error {
	backend, closeBackend, err := m.newBackend(ctx)
	if err != nil {
		return err
	}
	defer closeBackend()
	if backend == nil {
		l.Printf("Game records are not kept")
	} else {
		l.Printf("Keeping game records in %s", m.db)
	}

	server, err := api.NewServer(m.server, backend, l, version)
	if err != nil {
		return err
	}

	var ext *external.Server
	if len(m.externalAddr) != 0 {
		opts := external.DefaultServerOptions()
		opts.Addr = m.externalAddr
		ext = external.NewServer(opts, l)
		if err := ext.Start(); err != nil {
			return err
		}
		l.Printf("Text protocol server listening on %v", ext.Addr())
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(ctx)
	})
	if ext != nil {
		g.Go(func() error {
			<-ctx.Done()
			return ext.Stop()
		})
	}
	return g.Wait()
}
