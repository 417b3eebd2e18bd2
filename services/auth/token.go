// Package authsvc acquires the OAuth2 token the spreadsheet is read with: from the token
// cache when possible, through the installed-app flow otherwise.
package authsvc

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// TokenCache stores the user's access and refresh tokens. The file is created automatically
// when the authorization flow completes for the first time.
type TokenCache struct {
	path string
}

func NewTokenCache(path string) *TokenCache {
	return &TokenCache{path: path}
}

// Load reads the cached token. The error satisfies errors.Is(err, os.ErrNotExist) when there is none.
func (c *TokenCache) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, errors.Wrapf(err, "decoding token %s", c.path)
	}
	return &tok, nil
}

func (c *TokenCache) Save(tok *oauth2.Token) error {
	if tok == nil {
		return nil
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding token")
	}
	if dir := filepath.Dir(c.path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return errors.Wrap(err, "creating token directory")
		}
	}
	return errors.Wrapf(os.WriteFile(c.path, data, 0600), "writing token %s", c.path)
}
