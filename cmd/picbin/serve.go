package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/example/picbin/assets"
	"github.com/example/picbin/internal/server"
	"github.com/example/picbin/internal/store"
)

// serveCmd runs the HTTP server for the image collection.
type serveCmd struct {
	host      string
	port      int
	backend   string
	uploadDir string
	bucket    string
	region    string
	publicURL string
	noQR      bool
	debug     bool
	*root
	fs *flag.FlagSet
}

func (c *serveCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseServeCmd(args []string, r *root) (*serveCmd, error) {
	// .env sits beside the binary in small deployments; missing is fine.
	_ = godotenv.Load()

	cfg := r.config.Server
	host := envString("PICBIN_HOST", cfg.Host)
	port := envInt("PICBIN_PORT", cfg.Port)
	backend := envString("PICBIN_BACKEND", cfg.Backend)
	uploadDir := envString("PICBIN_UPLOAD_DIR", cfg.UploadDir)
	bucket := envString("PICBIN_BUCKET", cfg.Bucket)
	region := envString("AWS_REGION", cfg.Region)

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	c := &serveCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.host, "host", host, "address to listen on")
	fs.IntVar(&c.port, "port", port, "port to listen on")
	fs.StringVar(&c.backend, "backend", backend, "storage backend: disk or s3")
	fs.StringVar(&c.uploadDir, "dir", uploadDir, "upload directory for the disk backend")
	fs.StringVar(&c.bucket, "bucket", bucket, "bucket name for the s3 backend")
	fs.StringVar(&c.region, "region", region, "aws region for the s3 backend")
	fs.StringVar(&c.publicURL, "public-url", "", "externally reachable base URL (default: http://<lan-ip>:<port>)")
	fs.BoolVar(&c.noQR, "no-qr", false, "skip printing the QR code at startup")
	fs.BoolVar(&c.debug, "debug", false, "enable verbose request logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	switch c.backend {
	case "disk", "s3":
	default:
		return nil, fmt.Errorf("unknown backend %q (want disk or s3)", c.backend)
	}
	if c.backend == "s3" && c.bucket == "" {
		return nil, fmt.Errorf("s3 backend requires -bucket")
	}
	return c, nil
}

func (c *serveCmd) Run() error {
	if !c.debug {
		gin.SetMode(gin.ReleaseMode)
	}

	var (
		st   store.Store
		disk *store.Disk
		err  error
	)
	switch c.backend {
	case "disk":
		disk, err = store.NewDisk(c.uploadDir, "/uploads")
		if err != nil {
			return err
		}
		st = disk
	case "s3":
		st, err = store.NewS3(context.Background(), c.bucket, c.region)
		if err != nil {
			return err
		}
	}

	publicURL := c.publicURL
	if publicURL == "" {
		if lan, err := server.LANAddress(); err == nil {
			publicURL = fmt.Sprintf("http://%s:%d", lan, c.port)
		} else {
			log.Printf("lan address: %v", err)
			publicURL = fmt.Sprintf("http://localhost:%d", c.port)
		}
	}

	static, err := assets.Static()
	if err != nil {
		return fmt.Errorf("load embedded frontend: %w", err)
	}

	srv := server.New(server.Config{
		Store:          st,
		Disk:           disk,
		Static:         static,
		PublicURL:      publicURL,
		MaxUploadBytes: int64(c.root.config.Server.MaxUploadMB) << 20,
	})

	fmt.Fprintf(os.Stdout, "picbin serving %s storage\n", c.backend)
	fmt.Fprintf(os.Stdout, "  local: http://localhost:%d\n", c.port)
	fmt.Fprintf(os.Stdout, "  network: %s\n", publicURL)
	if !c.noQR {
		if err := server.WriteTerminalQR(os.Stdout, publicURL); err != nil {
			log.Printf("terminal qr: %v", err)
		}
	}

	return srv.Run(server.Addr(c.host, c.port))
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
