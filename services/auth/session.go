package authsvc

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/trezcool/hwunzipper/core"
)

type (
	// Authorizer obtains a new token from the user.
	Authorizer interface {
		Run(ctx context.Context) (*oauth2.Token, error)
	}

	// Session scopes the use of a token: acquired before, persisted after.
	Session struct {
		conf   *oauth2.Config
		cache  *TokenCache
		auth   Authorizer
		logger core.Logger
	}
)

func NewSession(conf *oauth2.Config, cache *TokenCache, auth Authorizer, logger core.Logger) *Session {
	return &Session{conf: conf, cache: cache, auth: auth, logger: logger}
}

// WithTokenSource hands a refreshing token source to `fn` and saves the current token once
// `fn` succeeded. A token obtained from the user is saved right away.
func (s *Session) WithTokenSource(ctx context.Context, fn func(oauth2.TokenSource) error) error {
	tok, err := s.cache.Load()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("ignoring unreadable token cache", err)
		}
		tok = nil
	}

	// If there are no (valid) credentials available, let the user log in.
	if tok == nil || (!tok.Valid() && tok.RefreshToken == "") {
		if tok, err = s.auth.Run(ctx); err != nil {
			return err
		}
		if err = s.cache.Save(tok); err != nil {
			return err
		}
		s.logger.Info("authorization saved")
	}

	ts := oauth2.ReuseTokenSource(tok, s.conf.TokenSource(ctx, tok))
	if err := fn(ts); err != nil {
		return err
	}

	cur, err := ts.Token()
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return s.cache.Save(cur)
}
