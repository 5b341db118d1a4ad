package config

import (
	"fmt"
	"strings"
)

// Server holds the serve command's settings.
type Server struct {
	Host        string
	Port        int
	Backend     string // "disk" or "s3"
	UploadDir   string
	Bucket      string
	Region      string
	MaxUploadMB int
}

// Editor holds the annotate command's defaults.
type Editor struct {
	ServerURL string
	Color     int
	Thickness int
	Font      int
}

// Notify holds notification settings.
type Notify struct {
	Upload bool
	Save   bool
	Delete bool
	Copy   bool
}

// Config holds the application configuration.
type Config struct {
	Server Server
	Editor Editor
	Notify Notify
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Server: Server{
			Host:        "0.0.0.0",
			Port:        3000,
			Backend:     "disk",
			UploadDir:   "uploads",
			MaxUploadMB: 25,
		},
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	sb.WriteString("[server]\n")
	fmt.Fprintf(&sb, "host = %s\n", c.Server.Host)
	fmt.Fprintf(&sb, "port = %d\n", c.Server.Port)
	fmt.Fprintf(&sb, "backend = %s\n", c.Server.Backend)
	fmt.Fprintf(&sb, "upload_dir = %s\n", c.Server.UploadDir)
	if c.Server.Bucket != "" {
		fmt.Fprintf(&sb, "bucket = %s\n", c.Server.Bucket)
	}
	if c.Server.Region != "" {
		fmt.Fprintf(&sb, "region = %s\n", c.Server.Region)
	}
	fmt.Fprintf(&sb, "max_upload_mb = %d\n", c.Server.MaxUploadMB)
	sb.WriteString("\n[editor]\n")
	if c.Editor.ServerURL != "" {
		fmt.Fprintf(&sb, "server_url = %s\n", c.Editor.ServerURL)
	}
	fmt.Fprintf(&sb, "color = %d\n", c.Editor.Color)
	fmt.Fprintf(&sb, "thickness = %d\n", c.Editor.Thickness)
	fmt.Fprintf(&sb, "font = %d\n", c.Editor.Font)
	sb.WriteString("\n[notify]\n")
	fmt.Fprintf(&sb, "upload = %v\n", c.Notify.Upload)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "delete = %v\n", c.Notify.Delete)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)

	return sb.String()
}
