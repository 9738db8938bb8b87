package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/sourceqa/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"SOURCEQA_CONFIG",
	"SOURCEQA_ENV_FILE",
	"SOURCEQA_ADDR",
	"SOURCEQA_DATABASE_DSN",
	"SOURCEQA_TABLE_BACKEND",
	"SOURCEQA_SOURCING_SPREADSHEET_ID",
	"SOURCEQA_QA_SPREADSHEET_ID",
	"SOURCEQA_HEADER_ROWS",
	"SOURCEQA_EVENT_QUEUE_SIZE",
	"SOURCEQA_EVENT_RELAYS",
	"SOURCEQA_EVENT_BACKOFF",
	"SOURCEQA_AMQP_URL",
	"SOURCEQA_LOG_FORMAT",
}

func clearConfigEnvVars() {
	for _, k := range configEnvVars {
		_ = os.Unsetenv(k)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a config loader without a dotenv file", t, func() {
		clearConfigEnvVars()
		_ = os.Setenv("SOURCEQA_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
		defer clearConfigEnvVars()

		convey.Convey("When only the database DSN and xlsx backend are set", func() {
			_ = os.Setenv("SOURCEQA_DATABASE_DSN", "user:pw@tcp(localhost:3306)/qa")
			_ = os.Setenv("SOURCEQA_TABLE_BACKEND", "xlsx")

			cfg, err := config.Load(ctx)

			convey.Convey("Then defaults fill the rest", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.PeopleSheet, convey.ShouldEqual, "List")
				convey.So(cfg.QASheet, convey.ShouldEqual, "List of candidates for QA")
				convey.So(cfg.HeaderRows, convey.ShouldEqual, 1)
				convey.So(cfg.EventQueueSize, convey.ShouldEqual, 1024)
				convey.So(cfg.EventRelays, convey.ShouldEqual, 1)
				convey.So(cfg.EventRetries, convey.ShouldEqual, 3)
				convey.So(cfg.Origins(), convey.ShouldResemble, []string{"*"})
			})
		})

		convey.Convey("When a YAML file and env vars are both given", func() {
			path := writeFile(t, "config.yaml", `
addr: ":9090"
table_backend: sheets
sourcing_spreadsheet_id: from-file
qa_spreadsheet_id: qa-file
database_dsn: "file-dsn"
header_rows: 2
allowed_origins: "chrome-extension://abc, https://relevancy.example"
`)
			_ = os.Setenv("SOURCEQA_CONFIG", path)
			_ = os.Setenv("SOURCEQA_ADDR", ":8080")
			_ = os.Setenv("SOURCEQA_EVENT_QUEUE_SIZE", "16")
			_ = os.Setenv("SOURCEQA_EVENT_RELAYS", "4")
			_ = os.Setenv("SOURCEQA_EVENT_BACKOFF", "1s")

			cfg, err := config.Load(ctx)

			convey.Convey("Then env vars override the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.EventQueueSize, convey.ShouldEqual, 16)
				convey.So(cfg.EventRelays, convey.ShouldEqual, 4)
				convey.So(cfg.EventBackoff, convey.ShouldEqual, time.Second)
				convey.So(cfg.SourcingSpreadsheetID, convey.ShouldEqual, "from-file")
				convey.So(cfg.DatabaseDSN, convey.ShouldEqual, "file-dsn")
				convey.So(cfg.HeaderRows, convey.ShouldEqual, 2)
				convey.So(cfg.Origins(), convey.ShouldResemble, []string{"chrome-extension://abc", "https://relevancy.example"})
			})
		})

		convey.Convey("When a dotenv file provides values", func() {
			dotenv := writeFile(t, "test.env", "SOURCEQA_DATABASE_DSN=dotenv-dsn\nSOURCEQA_TABLE_BACKEND=xlsx\nSOURCEQA_LOG_FORMAT=json\n")
			_ = os.Setenv("SOURCEQA_ENV_FILE", dotenv)

			cfg, err := config.Load(ctx)

			convey.Convey("Then they reach the config through the environment", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DatabaseDSN, convey.ShouldEqual, "dotenv-dsn")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			})
		})

		convey.Convey("When the YAML file is invalid or missing", func() {
			_ = os.Setenv("SOURCEQA_CONFIG", writeFile(t, "bad.yaml", "invalid: yaml: content: ["))
			_, errBad := config.Load(ctx)

			_ = os.Setenv("SOURCEQA_CONFIG", "/non/existent/file.yaml")
			_, errMissing := config.Load(ctx)

			convey.So(errors.Is(errBad, config.ErrLoadConfig), convey.ShouldBeTrue)
			convey.So(errors.Is(errMissing, config.ErrLoadConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the database DSN is missing", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then validation fails", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "database_dsn")
			})
		})
	})
}
