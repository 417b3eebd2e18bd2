package logsvc

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/hwunzipper/core"
)

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	conf := &core.Config{Env: "TEST", Build: "test", Debug: false}
	logger := NewRollbarLogger(NewStdLogger(&buf, "TEST : "), conf)
	logger.Enable(false)

	grader := core.Grader{Name: "Иван Филипов", Email: "ivan@test.bg"}
	logger.Debug("hidden unless debug")
	logger.Info("extracted", grader)
	logger.Warn("careful", map[string]interface{}{"entry": "a.cpp"})
	logger.Error("boom", errors.New("disk full"))

	out := buf.String()
	assert.NotContains(t, out, "hidden unless debug")
	assert.Contains(t, out, "INFO extracted")
	assert.NotContains(t, out, "Иван Филипов", "the grader is only attached to reports")
	assert.Contains(t, out, "WARN careful")
	assert.Contains(t, out, "map[entry:a.cpp]")
	assert.Contains(t, out, "ERROR boom")
	assert.Contains(t, out, "disk full")
	assert.True(t, strings.HasPrefix(out, "TEST : "))
}

func TestRollbarLogger_prepare(t *testing.T) {
	logger := NewLoggerMock()
	err := errors.New("lol")
	args := logger.prepare("msg", []interface{}{core.Grader{Name: "G"}, err, core.Grader{Name: "H"}})
	assert.Equal(t, []interface{}{"msg", err}, args)
}
