package logsvc

import (
	"io"
	"log"
	"os"

	"github.com/labstack/gommon/color"
	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/hwunzipper/core"
)

type RollbarLogger struct {
	std   *log.Logger
	clr   *color.Color
	debug bool
}

var _ core.Logger = (*RollbarLogger)(nil)

// NewStdLogger returns the std logger the application logs are mirrored to.
func NewStdLogger(w io.Writer, prefix string) *log.Logger {
	return log.New(w, prefix, log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
}

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	if host, err := os.Hostname(); err == nil {
		rollbar.SetServerHost(host)
	}
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)

	clr := color.New()
	clr.SetOutput(std.Writer())
	return &RollbarLogger{std: std, clr: clr, debug: conf.Debug}
}

// NewLoggerMock returns a logger that neither prints nor reports.
func NewLoggerMock() *RollbarLogger {
	clr := color.New()
	clr.Disable()
	rollbar.SetEnabled(false)
	return &RollbarLogger{std: log.New(io.Discard, "", 0), clr: clr, debug: true}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// Close waits for the pending reports to be sent.
func (l RollbarLogger) Close() {
	rollbar.Wait()
}

// expected fmt: msg | error, map[string]interface{}, core.Grader
func (l RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	var graderSet bool
	newArgs := make([]interface{}, 0, len(args)+1)
	newArgs = append(newArgs, msg)
	for _, arg := range args {
		// set running Grader
		if g, ok := arg.(core.Grader); ok {
			if !graderSet { // only set one Grader
				rollbar.SetPerson(g.Email, g.Name, g.Email)
				graderSet = true
			}
		} else {
			newArgs = append(newArgs, arg)
		}
	}
	if !graderSet {
		rollbar.ClearPerson()
	}
	return newArgs
}

func (l RollbarLogger) print(level, msg string, args []interface{}) {
	l.std.Output(3, level+" "+msg)
	for _, arg := range args {
		if _, ok := arg.(core.Grader); ok {
			continue
		}
		l.std.Printf("%+v\n", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	if !l.debug {
		return
	}
	rollbar.Debug(l.prepare(msg, args)...)
	l.print(l.clr.Grey("DEBUG"), msg, args)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(l.prepare(msg, args)...)
	l.print(l.clr.Green("INFO"), msg, args)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(l.prepare(msg, args)...)
	l.print(l.clr.Yellow("WARN"), msg, args)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(l.prepare(msg, args)...)
	l.print(l.clr.Red("ERROR"), msg, args)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rollbar.Critical(l.prepare(msg, args)...)
	l.print(l.clr.Magenta("FATAL"), msg, args)
	rollbar.Wait()
	os.Exit(1)
}
