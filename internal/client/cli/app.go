package cli

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/themisai/themis/internal/client/api"
	"github.com/themisai/themis/internal/client/authstore"
	"github.com/themisai/themis/internal/client/chat"
	"github.com/themisai/themis/internal/client/config"
	"github.com/themisai/themis/internal/client/guard"
	"github.com/themisai/themis/internal/client/localdb"
	"github.com/themisai/themis/internal/client/models"
	"github.com/themisai/themis/internal/client/render"
	"github.com/themisai/themis/internal/logging"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// getSimpleText and getPassword are indirections for tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// authAPI is the part of api.Client used by the auth screens.
type authAPI interface {
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, r models.SignUpRequest) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type App struct {
	auth     authAPI
	router   *guard.Router
	engine   *chat.Engine
	renderer *render.Renderer
	reader   *bufio.Reader
	log      logging.Logger
	path     string
	closers  []func() error
}

// NewApp opens the local database and wires the client together.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	repos, err := localdb.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	store := authstore.NewSQLiteStore(repos.Metadata)
	client := api.New(cfg.APIURL, store,
		api.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		api.WithLogger(log),
	)

	renderer, err := render.New(80, false)
	if err != nil {
		log.Warn(ctx, "markdown rendering disabled", "err", err)
	}

	a := newApp(client, store, renderer, bufio.NewReader(os.Stdin), log)
	a.closers = append(a.closers, repos.Close)
	return a, nil
}

// backend is the full API surface the app needs.
type backend interface {
	authAPI
	guard.Verifier
	chat.API
}

func newApp(c backend, store authstore.Store, r *render.Renderer, reader *bufio.Reader, log logging.Logger) *App {
	a := &App{
		auth:     c,
		renderer: r,
		reader:   reader,
		log:      log,
		path:     guard.PathLanding,
	}
	a.router = guard.NewRouter(guard.New(store, c, log))
	a.engine = chat.New(c, store, a, log)
	return a
}

// Navigate switches the active route. The router re-checks it before the
// next screen is shown.
func (a *App) Navigate(path string) {
	a.path = path
}

// Run shows screens until the user quits, input ends or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	for ctx.Err() == nil {
		rt, err := a.router.Resolve(ctx, a.path)
		if err != nil {
			return err
		}
		a.path = rt.Path

		var quit bool
		switch rt.Path {
		case guard.PathSignIn:
			quit = a.signIn(ctx)
		case guard.PathSignUp:
			quit = a.signUp(ctx)
		case guard.PathForgotPassword:
			quit = a.forgotPassword(ctx)
		case guard.PathResetPassword:
			quit = a.resetPassword(ctx)
		case guard.PathChat:
			quit = a.chat(ctx)
		default:
			quit = a.landing(ctx)
		}
		if quit {
			printlnFn("Sampai jumpa!")
			return nil
		}
	}
	return nil
}

func (a *App) close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.log.Warn(context.Background(), "close failed", "err", err)
		}
	}
}

func (a *App) readLine(prompt string) (string, error) {
	return getSimpleText(a.reader, prompt, os.Stdout)
}
