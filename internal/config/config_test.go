package config

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
[server]
host = 192.168.1.20
port = 8080
backend = s3
bucket = my-images
region = eu-west-1
max_upload_mb = 50

[editor]
server_url = http://192.168.1.20:8080
color = 4
thickness = 2
font = 1

[notify]
upload = true
save = false
delete = true
copy = true
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Server.Host != "192.168.1.20" {
		t.Errorf("Expected host '192.168.1.20', got '%s'", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.Backend != "s3" || cfg.Server.Bucket != "my-images" || cfg.Server.Region != "eu-west-1" {
		t.Errorf("Unexpected s3 settings: %+v", cfg.Server)
	}
	if cfg.Server.MaxUploadMB != 50 {
		t.Errorf("Expected max_upload_mb 50, got %d", cfg.Server.MaxUploadMB)
	}

	if cfg.Editor.ServerURL != "http://192.168.1.20:8080" {
		t.Errorf("Unexpected server_url '%s'", cfg.Editor.ServerURL)
	}
	if cfg.Editor.Color != 4 || cfg.Editor.Thickness != 2 || cfg.Editor.Font != 1 {
		t.Errorf("Unexpected editor defaults: %+v", cfg.Editor)
	}

	if !cfg.Notify.Upload {
		t.Error("Expected notify.upload to be true")
	}
	if cfg.Notify.Save {
		t.Error("Expected notify.save to be false")
	}
	if !cfg.Notify.Delete {
		t.Error("Expected notify.delete to be true")
	}
	if !cfg.Notify.Copy {
		t.Error("Expected notify.copy to be true")
	}
}

func TestParseDefaultsSurviveEmptyInput(t *testing.T) {
	cfg, err := Parse(strings.NewReader("# nothing here\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.Server.Port != 3000 || cfg.Server.Backend != "disk" {
		t.Errorf("Defaults lost: %+v", cfg.Server)
	}
}

func TestParseRejectsUnknownBackend(t *testing.T) {
	_, err := Parse(strings.NewReader("[server]\nbackend = ftp\n"))
	if err == nil {
		t.Fatal("Expected an error for an unknown backend")
	}
}

func TestCircular(t *testing.T) {
	input := `[server]
host = 127.0.0.1
port = 4000
backend = disk
upload_dir = /srv/picbin

[editor]
server_url = http://127.0.0.1:4000
color = 2
thickness = 1
font = 2

[notify]
upload = true
save = true
delete = false
copy = false
`
	// 1. Parse initial input
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	// 2. Generate string representation
	generated := cfg.String()

	// 3. Parse generated string
	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}

	// 4. Compare relevant fields
	if cfg.Server != cfg2.Server {
		t.Errorf("Server mismatch: %+v vs %+v", cfg.Server, cfg2.Server)
	}
	if cfg.Editor != cfg2.Editor {
		t.Errorf("Editor mismatch: %+v vs %+v", cfg.Editor, cfg2.Editor)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}
}
