package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/sessionkeeper/internal/client/client"
	"github.com/dmitrijs2005/sessionkeeper/internal/client/config"
	"github.com/dmitrijs2005/sessionkeeper/internal/client/services"
)

type App struct {
	config   *config.Config
	sessions services.SessionService
	in       *bufio.Scanner
	out      io.Writer
	closers  []func() error
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	var apiClient client.Client
	switch c.Transport {
	case config.TransportHTTP:
		apiClient = client.NewHTTPClient(c.HTTPBaseURL, c.RequestTimeout)
	default:
		apiClient, err = client.NewGRPCClient(c.ServerEndpointAddr)
		if err != nil {
			_ = db.DB.Close()
			return nil, err
		}
	}

	return &App{
		config:   c,
		sessions: services.NewSessionService(apiClient, db.Session),
		in:       bufio.NewScanner(os.Stdin),
		out:      os.Stdout,
		closers:  []func() error{db.DB.Close},
	}, nil
}

// Run greets the user and serves the REPL until exit or EOF.
func (a *App) Run(ctx context.Context) {
	defer a.close(ctx)

	a.println("Welcome to sessionkeeper CLI (type 'help' for commands)")

	pingCtx, cancel := a.requestContext(ctx)
	if err := a.sessions.Ping(pingCtx); err != nil {
		a.println("Server is not reachable right now; commands may fail.")
	}
	cancel()

	runREPL(ctx, a, func() string { return a.getStatus(ctx) }, a.in)
}

func (a *App) close(ctx context.Context) {
	_ = a.sessions.Close(ctx)
	for _, c := range a.closers {
		_ = c()
	}
}

func (a *App) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := a.config.RequestTimeout
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// getStatus renders the prompt suffix: the signed-in email, if any.
func (a *App) getStatus(ctx context.Context) string {
	st, err := a.sessions.Status(ctx)
	if err != nil || !st.SignedIn {
		return ""
	}
	return fmt.Sprintf("(%s)", st.Email)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
