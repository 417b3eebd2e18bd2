package main

import (
	"context"
	"os"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"github.com/trezcool/hwunzipper/core"
	"github.com/trezcool/hwunzipper/core/roster"
	authsvc "github.com/trezcool/hwunzipper/services/auth"
	"github.com/trezcool/hwunzipper/storage/spreadsheet/gsheets"
	xlsxsheet "github.com/trezcool/hwunzipper/storage/spreadsheet/xlsx"
)

// withSource opens the roster source selected by `conf` for the duration of `fn`:
// the workbook file when one is set, the Google spreadsheet otherwise.
func withSource(ctx context.Context, conf *core.Config, logger core.Logger, fn func(roster.Source) error) error {
	if conf.Sheet.File != "" {
		src, err := xlsxsheet.Open(conf.Sheet.File)
		if err != nil {
			return err
		}
		defer src.Close()
		return fn(src)
	}

	flow, err := authsvc.NewFlow(conf.Auth.CredentialsFile, conf.Auth.CallbackTimeout, os.Stdout, gsheets.Scope)
	if err != nil {
		return err
	}
	sess := authsvc.NewSession(flow.Config(), authsvc.NewTokenCache(conf.Auth.TokenFile), flow, logger)
	return sess.WithTokenSource(ctx, func(ts oauth2.TokenSource) error {
		src, err := gsheets.New(ctx, conf.Sheet.ID, option.WithTokenSource(ts))
		if err != nil {
			return err
		}
		return fn(src)
	})
}
