package core

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("TEST_GRADER_NAME", "  Петър   Петров ")
	t.Setenv("TEST_HARD_OFFSET", "13")
	t.Setenv("TEST_TIME_ZONE", "Europe/Sofia")
	t.Setenv("TEST_CALLBACK_TIMEOUT", "30s")

	conf, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "TEST", conf.Env)
	assert.Equal(t, "Петър Петров", conf.Grader.Name)
	assert.Equal(t, 2, conf.Homework.EasyOffset)
	assert.Equal(t, 13, conf.Homework.HardOffset)
	assert.Equal(t, "Europe/Sofia", conf.Homework.Location.String())
	assert.Equal(t, 30*time.Second, conf.Auth.CallbackTimeout)
	assert.Equal(t, "Sheet1!A4:R195", conf.Sheet.GridRange)
	assert.NoError(t, conf.Validate())
}

func TestNewConfig_badTimeZone(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("TEST_TIME_ZONE", "Mars/Olympus")

	_, err := NewConfig()
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	t.Setenv("ENV", "test")

	tests := []struct {
		name       string
		modify     func(c *Config)
		wantFields []string
	}{
		{name: "valid", modify: func(c *Config) {}},
		{name: "offline roster", modify: func(c *Config) { c.Sheet.ID = ""; c.Sheet.File = "roster.xlsx" }},
		{name: "no roster", modify: func(c *Config) { c.Sheet.ID = "" }, wantFields: []string{"spreadsheet_id"}},
		{name: "bad roster file", modify: func(c *Config) { c.Sheet.File = "roster.csv" }, wantFields: []string{"roster_file"}},
		{name: "bad range", modify: func(c *Config) { c.Sheet.GridRange = "A4:R195" }, wantFields: []string{"grid_range"}},
		{name: "blank grader", modify: func(c *Config) { c.Grader.Name = "  " }, wantFields: []string{"grader_name"}},
		{name: "bad email", modify: func(c *Config) { c.Grader.Email = "lol" }, wantFields: []string{"grader_email"}},
		{name: "no location", modify: func(c *Config) { c.Homework.Location = nil }, wantFields: []string{"time_zone"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf, err := NewConfig()
			require.NoError(t, err)
			tt.modify(conf)

			err = conf.Validate()
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			fields := make([]string, 0, len(verr.Fields))
			for _, f := range verr.Fields {
				fields = append(fields, f.Field)
				assert.NotEmpty(t, f.Error)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}
