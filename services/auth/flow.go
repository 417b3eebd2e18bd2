package authsvc

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/term"
)

var (
	termIsTerminal = term.IsTerminal
	isTerminalFunc = termIsTerminal // mockable

	ErrNotInteractive = errors.New("authorization required: run the command from a terminal once")
	ErrInvalidState   = errors.New("invalid state received")
	ErrAuthFailed     = errors.New("authorization failed")
)

// Flow is the OAuth2 installed-app flow: the user consents in a browser, which is redirected
// to a local callback server with the authorization code.
type Flow struct {
	conf    *oauth2.Config
	timeout time.Duration
	out     io.Writer
}

// NewFlow reads the client secret file downloaded from the Google API console.
func NewFlow(credentialsFile string, timeout time.Duration, out io.Writer, scopes ...string) (*Flow, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, errors.Wrap(err, "reading client secret file")
	}
	conf, err := google.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, errors.Wrap(err, "parsing client secret file")
	}
	return &Flow{conf: conf, timeout: timeout, out: out}, nil
}

func (f *Flow) Config() *oauth2.Config {
	return f.conf
}

// Run prints the consent URL and waits for the browser to come back with the code.
func (f *Flow) Run(ctx context.Context) (*oauth2.Token, error) {
	if !isTerminalFunc(int(os.Stdin.Fd())) {
		return nil, ErrNotInteractive
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, errors.Wrap(err, "starting callback server")
	}
	conf := *f.conf
	conf.RedirectURL = "http://" + ln.Addr().String() + "/"

	state := uuid.New().String()
	codes := make(chan string, 1)
	errs := make(chan error, 1)

	srv := &http.Server{Handler: newCallbackServer(state, codes, errs)}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			notify(errs, err)
		}
	}()
	defer srv.Close()

	_, _ = fmt.Fprintf(f.out, "Please visit this URL to authorize this application: %s\n",
		conf.AuthCodeURL(state, oauth2.AccessTypeOffline))

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	select {
	case code := <-codes:
		tok, err := conf.Exchange(ctx, code)
		if err != nil {
			return nil, errors.Wrap(err, "exchanging authorization code")
		}
		return tok, nil
	case err := <-errs:
		return nil, err
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "waiting for authorization")
	}
}

func newCallbackServer(expectedState string, codes chan<- string, errs chan<- error) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.OFF)

	e.GET("/", func(ctx echo.Context) error {
		if ctx.QueryParam("state") != expectedState {
			notify(errs, ErrInvalidState)
			return ctx.String(http.StatusBadRequest, "Invalid state")
		}
		if reason := ctx.QueryParam("error"); reason != "" {
			notify(errs, errors.Wrap(ErrAuthFailed, reason))
			return ctx.String(http.StatusBadRequest, "Auth failed: "+reason)
		}
		code := ctx.QueryParam("code")
		if code == "" {
			notify(errs, errors.Wrap(ErrAuthFailed, "no code received"))
			return ctx.String(http.StatusBadRequest, "No code received")
		}
		select {
		case codes <- code:
		default: // already authorized
		}
		return ctx.String(http.StatusOK, "Authentication successful! You can close this window and return to the terminal.")
	})
	return e
}

func notify(errs chan<- error, err error) {
	select {
	case errs <- err:
	default:
	}
}
