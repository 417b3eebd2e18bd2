package emailsvc

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/hwunzipper/core"
	logsvc "github.com/trezcool/hwunzipper/services/logger"
)

func testConfig() *core.Config {
	return &core.Config{AppName: "HW Unzipper", DefaultFromEmail: "noreply@example.com"}
}

func testMessages() []*core.EmailMessage {
	to := []mail.Address{{Name: "Grader", Address: "grader@example.com"}}
	return []*core.EmailMessage{
		{To: to, Subject: "late", BodyStr: "task.py: 61 minutes late"},
		{Subject: "no recipients", BodyStr: "lol"},
		{To: to, Subject: "no content"},
	}
}

func TestConsoleService_SendMessages(t *testing.T) {
	var out bytes.Buffer
	svc := NewConsoleService(&out, testConfig())

	require.NoError(t, svc.SendMessages(testMessages()...))

	require.Len(t, svc.SentMessages, 1)
	assert.Equal(t, "late", svc.SentMessages[0].Subject)
	assert.Contains(t, out.String(), "Subject: [HW Unzipper] late\r\n")
	assert.Contains(t, out.String(), `To: "Grader" <grader@example.com>`)
	assert.Contains(t, out.String(), "task.py: 61 minutes late")
}

func TestSendgridService_SendMessages(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "accepted", status: http.StatusAccepted},
		{name: "rejected", status: http.StatusUnauthorized, wantErr: ErrSendFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var bodies []map[string]interface{}
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, endpoint, r.URL.Path)
				assert.Equal(t, "Bearer k3y", r.Header.Get("Authorization"))
				data, _ := io.ReadAll(r.Body)
				var body map[string]interface{}
				_ = json.Unmarshal(data, &body)
				bodies = append(bodies, body)
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()
			oldHost := host
			host = srv.URL
			defer func() { host = oldHost }()

			conf := testConfig()
			conf.SendgridApiKey = "k3y"
			svc := NewService(conf, logsvc.NewLoggerMock(), NewConsoleServiceMock(conf))

			err := svc.SendMessages(testMessages()...)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				assert.NoError(t, err)
			}
			require.Len(t, bodies, 1)
			p := bodies[0]["personalizations"].([]interface{})[0].(map[string]interface{})
			assert.Equal(t, "[HW Unzipper] late", p["subject"])
		})
	}
}

func TestNewService_console(t *testing.T) {
	conf := testConfig()
	console := NewConsoleServiceMock(conf)
	assert.Same(t, console, NewService(conf, logsvc.NewLoggerMock(), console))
}
