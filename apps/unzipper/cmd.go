package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/mail"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/hwunzipper/core"
	"github.com/trezcool/hwunzipper/core/homework"
	"github.com/trezcool/hwunzipper/core/roster"
	"github.com/trezcool/hwunzipper/core/submission"
)

const usage = `Usage:
  unzipper [flags] <archive.zip> [out_dir]

The archive is the Moodle download of a homework: "C<course>-<num>.zip" for hard homework,
with the easy marker in its name for easy homework. out_dir defaults to the current directory.

Flags:
`

var withSourceFunc = withSource // mockable

type commandLine struct {
	conf   *core.Config
	logger core.Logger
	mailer core.EmailService
	stderr io.Writer
}

func (cli *commandLine) printUsage(fs *flag.FlagSet) {
	_, _ = fmt.Fprint(cli.stderr, usage)
	fs.PrintDefaults()
}

func (cli *commandLine) run(args []string) error {
	fs := flag.NewFlagSet("unzipper", flag.ContinueOnError)
	fs.SetOutput(cli.stderr)
	rosterFile := fs.String("roster", "", "Read the roster from this .xlsx workbook instead of the Google spreadsheet.")
	notify := fs.Bool("notify", false, "Mail the late submissions report to the grader.")
	fs.Usage = func() { cli.printUsage(fs) }

	if err := fs.Parse(args[1:]); err != nil {
		return core.NewExitError(1, "", core.ErrUsage)
	}
	if fs.NArg() < 1 {
		cli.printUsage(fs)
		return core.NewExitError(1, "", core.ErrUsage)
	}
	if *rosterFile != "" {
		cli.conf.Sheet.File = *rosterFile
	}
	if err := cli.conf.Validate(); err != nil {
		return err
	}

	zipPath := fs.Arg(0)
	zr, err := submission.Open(zipPath)
	if err != nil {
		return core.NewExitError(2, zipPath+" is not a valid .zip file.", err)
	}
	defer zr.Close()

	root := "./"
	if fs.NArg() > 1 {
		root = fs.Arg(1)
	}
	if err := homework.EnsureDir(root); err != nil {
		return err
	}

	hw, err := homework.ParseArchiveName(zipPath, cli.conf.Homework.EasyMarker)
	if err != nil {
		return core.NewExitError(3, filepath.Base(zipPath)+" does not look like moodle's zip file.", err)
	}
	outDir := hw.OutputDir(root)
	if err := homework.EnsureDir(outDir); err != nil {
		return err
	}

	students, due, err := cli.resolve(hw)
	if err != nil {
		return err
	}

	opts := submission.Options{OutDir: outDir, SubmissionMarker: cli.conf.Homework.SubmissionMarker, DueDate: due}
	proc, err := submission.NewProcessor(students, opts, cli.logger)
	if err != nil {
		return err
	}
	rep, err := proc.Process(&zr.Reader)
	if err != nil {
		return err
	}
	cli.logger.Info(fmt.Sprintf("%s: %s", outDir, rep))

	if *notify {
		return cli.notify(filepath.Base(outDir), rep, opts)
	}
	return nil
}

func (cli *commandLine) resolve(hw homework.Archive) (roster.Roster, time.Time, error) {
	var (
		students roster.Roster
		due      time.Time
	)
	offset := hw.Kind.Offset(cli.conf.Homework.EasyOffset, cli.conf.Homework.HardOffset)
	err := withSourceFunc(context.Background(), cli.conf, cli.logger, func(src roster.Source) error {
		var err error
		students, due, err = roster.NewResolver(src, roster.NewOptions(cli.conf), cli.logger).
			Resolve(context.Background(), hw.Number, offset)
		return err
	})
	if errors.Is(err, roster.ErrGraderNotFound) {
		msg := "Can't find " + cli.conf.Grader.Name + " .\nMaybe you don't have rights to put marks?"
		return nil, time.Time{}, core.NewExitError(4, msg, err)
	}
	return students, due, err
}

func (cli *commandLine) notify(dir string, rep submission.Report, opts submission.Options) error {
	if cli.conf.Grader.Email == "" {
		cli.logger.Warn("no grader email configured, skipping the late report")
		return nil
	}
	to := mail.Address{Name: cli.conf.Grader.Name, Address: cli.conf.Grader.Email}
	msg := submission.NewLateReportMessage(to, dir, rep, opts)
	if msg == nil {
		return nil
	}
	return errors.Wrap(cli.mailer.SendMessages(msg), "mailing the late report")
}
