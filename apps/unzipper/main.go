package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/hwunzipper/core"
	emailsvc "github.com/trezcool/hwunzipper/services/email"
	logsvc "github.com/trezcool/hwunzipper/services/logger"
)

func main() {
	conf, err := core.NewConfig()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger := logsvc.NewRollbarLogger(logsvc.NewStdLogger(os.Stderr, "UNZIPPER : "), conf)
	logger.Enable(conf.RollbarToken != "" && !conf.Debug)

	cli := commandLine{
		conf:   conf,
		logger: logger,
		mailer: emailsvc.NewService(conf, logger, emailsvc.NewConsoleService(os.Stdout, conf)),
		stderr: os.Stderr,
	}
	err = cli.run(os.Args)
	code := core.ExitCode(err)
	if err != nil && !errors.Is(err, core.ErrUsage) {
		var exitErr *core.ExitError
		if errors.As(err, &exitErr) {
			_, _ = fmt.Fprintln(os.Stderr, exitErr.Message)
		} else {
			logger.Error("unzipping failed", err, core.Grader{Name: conf.Grader.Name, Email: conf.Grader.Email})
			_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	logger.Close()
	os.Exit(code)
}
