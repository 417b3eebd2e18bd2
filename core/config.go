package core

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	AppName string
	Env     string // DEV (local; default), TEST, PROD
	Build   string
	Debug   bool

	Sheet struct {
		ID         string `json:"spreadsheet_id" validate:"required_without=File"`
		File       string `json:"roster_file" validate:"omitempty,endswith=.xlsx"`
		NamesRange string `json:"names_range" validate:"required,a1range"`
		DatesRange string `json:"dates_range" validate:"required,a1range"`
		GridRange  string `json:"grid_range" validate:"required,a1range"`
	}

	Grader struct {
		Name  string `json:"grader_name" validate:"notblank"`
		Email string `json:"grader_email" validate:"omitempty,email"`
	}

	Homework struct {
		EasyOffset       int            `json:"easy_offset" validate:"min=0"`
		HardOffset       int            `json:"hard_offset" validate:"min=0"`
		EasyMarker       string         `json:"easy_marker" validate:"notblank"`
		SubmissionMarker string         `json:"submission_marker" validate:"notblank"`
		DueDateLayout    string         `json:"due_date_layout" validate:"notblank"`
		Location         *time.Location `json:"time_zone" validate:"required"`
	}

	Auth struct {
		CredentialsFile string `json:"credentials_file" validate:"required"`
		TokenFile       string `json:"token_file" validate:"required"`
		CallbackTimeout time.Duration
	}

	RollbarToken     string
	SendgridApiKey   string
	DefaultFromEmail string `json:"default_from_email" validate:"omitempty,email"`
}

// NewConfig reads the configuration from defaults, an optional `config/.env.<env>` file and
// the environment (prefixed by the env name, e.g. DEV_GRADER_NAME).
func NewConfig() (*Config, error) {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", false)
	v.SetDefault("appName", "HW Unzipper")
	v.SetDefault("build", "develop")
	v.SetDefault("spreadsheet_id", "1CgFx73YgVE8uRnUVS2q3TUc5Kl_N18_zFTtvZVUGgqc")
	v.SetDefault("names_range", "Sheet1!B205:B217")
	v.SetDefault("dates_range", "Sheet1!D198:R198")
	v.SetDefault("grid_range", "Sheet1!A4:R195")
	v.SetDefault("grader_name", "Иван Филипов")
	v.SetDefault("grader_email", "")
	v.SetDefault("easy_offset", 2)
	v.SetDefault("hard_offset", 12)
	v.SetDefault("easy_marker", "леко")
	v.SetDefault("submission_marker", "_assignsubmission_file_")
	v.SetDefault("due_date_layout", "2 1 2006, 15:04")
	v.SetDefault("time_zone", "Local")
	v.SetDefault("credentials_file", "credentials.json")
	v.SetDefault("token_file", "token.json")
	v.SetDefault("callback_timeout", 5*time.Minute)
	v.SetDefault("rollbar_token", "")
	v.SetDefault("sendgrid_api_key", "")
	v.SetDefault("default_from_email", "noreply@example.com")

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "config.godotenv(%s)", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "config.os.Stat(%s)", dotEnvPath)
	}
	v.AutomaticEnv()

	loc, err := time.LoadLocation(v.GetString("time_zone"))
	if err != nil {
		return nil, errors.Wrap(err, "config.time_zone")
	}

	conf := &Config{
		AppName:          v.GetString("appName"),
		Env:              env,
		Build:            v.GetString("build"),
		Debug:            v.GetBool("debug"),
		RollbarToken:     v.GetString("rollbar_token"),
		SendgridApiKey:   v.GetString("sendgrid_api_key"),
		DefaultFromEmail: v.GetString("default_from_email"),
	}
	conf.Sheet.ID = v.GetString("spreadsheet_id")
	conf.Sheet.NamesRange = v.GetString("names_range")
	conf.Sheet.DatesRange = v.GetString("dates_range")
	conf.Sheet.GridRange = v.GetString("grid_range")
	conf.Grader.Name = CleanString(v.GetString("grader_name"))
	conf.Grader.Email = CleanString(v.GetString("grader_email"), true /* lower */)
	conf.Homework.EasyOffset = v.GetInt("easy_offset")
	conf.Homework.HardOffset = v.GetInt("hard_offset")
	conf.Homework.EasyMarker = strings.ToLower(v.GetString("easy_marker"))
	conf.Homework.SubmissionMarker = v.GetString("submission_marker")
	conf.Homework.DueDateLayout = v.GetString("due_date_layout")
	conf.Homework.Location = loc
	conf.Auth.CredentialsFile = v.GetString("credentials_file")
	conf.Auth.TokenFile = v.GetString("token_file")
	conf.Auth.CallbackTimeout = v.GetDuration("callback_timeout")

	return conf, nil
}

// Validate checks the configuration once all overrides (e.g. CLI flags) are applied.
func (c *Config) Validate() error {
	return ValidateStruct(c)
}
