package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/homepoint/internal/client/api"
	"github.com/dmitrijs2005/homepoint/internal/client/config"
	"github.com/dmitrijs2005/homepoint/internal/client/httpclient"
	"github.com/dmitrijs2005/homepoint/internal/client/imagesrc"
	"github.com/dmitrijs2005/homepoint/internal/client/notify"
	"github.com/dmitrijs2005/homepoint/internal/client/querycache"
	"github.com/dmitrijs2005/homepoint/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/homepoint/internal/client/services"
	"github.com/dmitrijs2005/homepoint/internal/client/store"
	"github.com/dmitrijs2005/homepoint/internal/common"
	"github.com/dmitrijs2005/homepoint/internal/logging"
)

type App struct {
	config   *config.Config
	log      logging.Logger
	auth     services.AuthService
	screens  *services.Screens
	notify   notify.Notifier
	resolver *imagesrc.Resolver
	reader   *bufio.Reader
	out      io.Writer
	userName string

	closers []func() error
}

// NewApp opens the local database and builds every layer from c.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := store.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	resolver := &imagesrc.Resolver{}
	if c.S3Endpoint != "" || c.S3AccessKey != "" {
		s3src, err := imagesrc.NewS3(ctx, imagesrc.S3Config{
			Region:    c.S3Region,
			Endpoint:  c.S3Endpoint,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
		})
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("s3 source: %w", err)
		}
		resolver.S3 = s3src
	}

	creds := services.NewCredentialStore(metadata.NewSQLiteRepository(db), c.StorePassphrase)
	hc := httpclient.New(httpclient.Config{
		BaseURL: c.APIBaseURL,
		Timeout: c.RequestTimeout,
		Tokens:  creds,
		Logger:  log,
	})
	a := api.New(hc)
	cache := querycache.New(
		querycache.WithGCGrace(c.CacheGCGrace),
		querycache.WithLogger(log),
	)

	app := newApp(
		services.NewAuthService(a.Auth, creds, cache),
		services.NewScreens(a, cache),
		notify.NewConsole(os.Stdout),
		os.Stdin, os.Stdout,
	)
	app.config = c
	app.log = log
	app.resolver = resolver
	app.closers = []func() error{
		func() error { cache.Close(); return nil },
		db.Close,
	}
	return app, nil
}

func newApp(auth services.AuthService, screens *services.Screens, n notify.Notifier, in io.Reader, out io.Writer) *App {
	return &App{
		log:      logging.Nop(),
		auth:     auth,
		screens:  screens,
		notify:   n,
		resolver: &imagesrc.Resolver{},
		reader:   bufio.NewReader(in),
		out:      out,
	}
}

// Run restores a stored session and blocks in the REPL until exit.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to the homepoint admin console (type 'help' for commands)")
	a.restoreSession(ctx)
	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close releases the cache and the local database.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return "(signed out)"
	}
	return "(" + a.userName + ")"
}

func (a *App) restoreSession(ctx context.Context) {
	sess, err := a.auth.Session(ctx)
	switch {
	case err == nil:
		a.userName = sess.UserName
		if a.userName == "" {
			a.userName = "admin"
		}
	case errors.Is(err, common.ErrSessionExpired):
		a.notify.Error("Session expired, please log in again")
	case errors.Is(err, common.ErrNotLoggedIn):
	default:
		a.log.Warn(ctx, "cannot read stored session", "error", err)
	}
}

// fail reports err to the operator and returns it.
func (a *App) fail(prefix string, err error) error {
	if errors.Is(err, common.ErrUnauthorized) && a.isLoggedIn() {
		a.notify.Error("Not authorized, your session may have expired; use login")
		return err
	}
	notify.Failure(a.notify, prefix, err)
	return err
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) text(prompt string) (string, error) {
	return GetSimpleText(a.reader, prompt, a.out)
}

// ask prompts for a field and keeps cur on empty input.
func (a *App) ask(label, cur string) (string, error) {
	prompt := label
	if cur != "" {
		prompt += " [" + cur + "]"
	}
	v, err := a.text(prompt)
	if err != nil {
		return "", err
	}
	if v == "" {
		return cur, nil
	}
	return v, nil
}

type field struct {
	label string
	ptr   *string
}

func (a *App) askAll(fields ...field) error {
	for _, f := range fields {
		v, err := a.ask(f.label, *f.ptr)
		if err != nil {
			return err
		}
		*f.ptr = v
	}
	return nil
}
