package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		// Handle Sections
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			continue
		}

		// Parse Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		// Remove quotes if present
		if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		switch currentSection {
		case "server":
			err = setServerField(&cfg.Server, key, value)
		case "editor":
			err = setEditorField(&cfg.Editor, key, value)
		case "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		}
		if err != nil {
			return nil, fmt.Errorf("error in section [%s]: %w", currentSection, err)
		}
	}

	return cfg, scanner.Err()
}

func setServerField(s *Server, key, value string) error {
	switch strings.ToLower(key) {
	case "host":
		s.Host = value
	case "port":
		p, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid port: %w", err)
		}
		s.Port = p
	case "backend":
		if value != "disk" && value != "s3" {
			return fmt.Errorf("unknown backend %q", value)
		}
		s.Backend = value
	case "upload_dir":
		s.UploadDir = value
	case "bucket":
		s.Bucket = value
	case "region":
		s.Region = value
	case "max_upload_mb":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid max_upload_mb: %w", err)
		}
		s.MaxUploadMB = n
	}
	return nil
}

func setEditorField(e *Editor, key, value string) error {
	switch strings.ToLower(key) {
	case "server_url":
		e.ServerURL = value
	case "color", "thickness", "font":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid index for key %s: %w", key, err)
		}
		switch strings.ToLower(key) {
		case "color":
			e.Color = n
		case "thickness":
			e.Thickness = n
		case "font":
			e.Font = n
		}
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "upload":
		n.Upload = b
	case "save":
		n.Save = b
	case "delete":
		n.Delete = b
	case "copy":
		n.Copy = b
	}
	return nil
}
