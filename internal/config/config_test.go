package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validYAML = `
server:
  port: 9090
database:
  driver: mysql
  host: db.plant.local
  user: maint
  password: s3cret
  name: plantmind
assistant:
  ollama_url: http://ollama.plant.local:11434
  model: qwen2.5:14b
notify:
  platform: slack
  token: xoxb-test
  channel: "#maintenance"
  digest_cron: "0 6 * * 1-5"
  digest_days: 5
diagnostic_types:
  - code: VIBRATION
    name: Vibration analysis
    duration_minutes: 30
    color_code: "#FFD700"
  - code: THERMAL
    name: Thermal imaging
    duration_minutes: 45
`

func TestParse_Valid(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Host != "db.plant.local" || cfg.Database.User != "maint" {
		t.Errorf("database = %+v, want host/user from yaml", cfg.Database)
	}
	if cfg.Assistant.Model != "qwen2.5:14b" {
		t.Errorf("assistant.model = %q", cfg.Assistant.Model)
	}
	if cfg.Notify.Platform != "slack" || cfg.Notify.DigestDays != 5 {
		t.Errorf("notify = %+v", cfg.Notify)
	}
	if len(cfg.Types) != 2 || cfg.Types[0].Code != "VIBRATION" {
		t.Errorf("diagnostic_types = %+v", cfg.Types)
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 8080 {
		t.Errorf("server defaults = %+v", cfg.Server)
	}
	if cfg.Database.Driver != "mysql" || cfg.Database.Host != "127.0.0.1" || cfg.Database.Port != 3306 {
		t.Errorf("database defaults = %+v", cfg.Database)
	}
	if cfg.Database.User != "root" || cfg.Database.Name != "plantmind" {
		t.Errorf("database defaults = %+v", cfg.Database)
	}
	if cfg.Assistant.OllamaURL != "http://127.0.0.1:11434" {
		t.Errorf("assistant.ollama_url default = %q", cfg.Assistant.OllamaURL)
	}
	if cfg.Notify.DigestCron != "0 7 * * 1-5" || cfg.Notify.DigestDays != 7 {
		t.Errorf("notify defaults = %+v", cfg.Notify)
	}
}

func TestParse_InvalidDriver(t *testing.T) {
	_, err := Parse([]byte("database:\n  driver: postgres\n"))
	if err == nil {
		t.Fatal("want error for unknown driver")
	}
	if !strings.Contains(err.Error(), "database.driver") {
		t.Errorf("error %q should name database.driver", err)
	}
}

func TestParse_NotifyRequiresTokenAndChannel(t *testing.T) {
	_, err := Parse([]byte("notify:\n  platform: discord\n"))
	if err == nil {
		t.Fatal("want error for notify without token/channel")
	}
	for _, want := range []string{"notify.token", "notify.channel"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should name %s", err, want)
		}
	}
}

func TestParse_InvalidPlatform(t *testing.T) {
	_, err := Parse([]byte("notify:\n  platform: telegram\n  token: x\n  channel: y\n"))
	if err == nil {
		t.Fatal("want error for unknown platform")
	}
	if !strings.Contains(err.Error(), "notify.platform") {
		t.Errorf("error %q should name notify.platform", err)
	}
}

func TestParse_TypeValidation(t *testing.T) {
	yaml := `
diagnostic_types:
  - name: Nameless
    duration_minutes: 30
  - code: BAD
    duration_minutes: 0
`
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatal("want validation error")
	}
	for _, want := range []string{"diagnostic_types[0].code", "diagnostic_types[1].duration_minutes"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should name %s", err, want)
		}
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("server: ["))
	if err == nil {
		t.Fatal("want parse error")
	}
	if !strings.Contains(err.Error(), "config: parse") {
		t.Errorf("error %q should carry the parse prefix", err)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(validYAML), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("want error for missing file")
	}
}
