package submission

import (
	"net/mail"
	texttmpl "text/template"

	"github.com/trezcool/hwunzipper/core"
)

var lateReportTmpl = texttmpl.Must(texttmpl.New("late_report").Parse(
	`Late submissions for {{.Dir}} (due {{.Due.Format "02 Jan 2006, 15:04"}}):
{{range .Students}}
{{.Student.Key}} ({{.Student.ID}})
{{- range .Files}}
  - {{.File}}: {{.Minutes}} minutes late
{{- end}}
{{end}}
{{.Report}}
`))

// NewLateReportMessage builds the email sent to the grader after an archive is processed.
// It returns nil when nothing was late.
func NewLateReportMessage(to mail.Address, dir string, rep Report, opts Options) *core.EmailMessage {
	late := rep.LateByStudent()
	if len(late) == 0 {
		return nil
	}
	return &core.EmailMessage{
		To:       []mail.Address{to},
		Subject:  "Late submissions: " + dir,
		Template: lateReportTmpl,
		TemplateData: map[string]interface{}{
			"Dir":      dir,
			"Due":      opts.DueDate,
			"Students": late,
			"Report":   rep.String(),
		},
	}
}
