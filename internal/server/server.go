// Package server exposes the image collection over HTTP: upload, grouped
// listing, deletion, the stored files themselves and the embedded gallery
// page.
package server

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/example/picbin/internal/store"
)

// DefaultMaxUploadBytes caps multipart uploads at 25 MiB.
const DefaultMaxUploadBytes = 25 << 20

// Config wires a Server.
type Config struct {
	// Store persists the images.
	Store store.Store
	// Disk, when the store is disk-backed, lets the server serve the
	// files directly under /uploads.
	Disk *store.Disk
	// Static is the embedded frontend tree rooted at the page files.
	Static fs.FS
	// PublicURL is the address phones on the LAN should open; it feeds
	// /qr.png. Empty disables the QR route.
	PublicURL string
	// MaxUploadBytes caps a single upload; zero means the default.
	MaxUploadBytes int64
}

// Server is the picbin HTTP server.
type Server struct {
	cfg    Config
	engine *gin.Engine
}

// New builds the router. Pass gin.ReleaseMode through gin.SetMode before
// calling when quiet logs are wanted.
func New(cfg Config) *Server {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	s := &Server{cfg: cfg, engine: gin.Default()}
	s.engine.MaxMultipartMemory = 8 << 20

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	s.engine.Use(cors.New(corsCfg))

	api := s.engine.Group("/api")
	api.POST("/upload", s.handleUpload)
	api.GET("/images", s.handleImages)
	api.DELETE("/delete", s.handleDelete)

	if cfg.Disk != nil {
		s.engine.Static("/uploads", cfg.Disk.Root())
	} else {
		// Blob-store backends stream through the app instead.
		s.engine.GET("/uploads/:date/:filename", s.handleOpen)
	}
	if cfg.PublicURL != "" {
		s.engine.GET("/qr.png", s.handleQR)
	}
	if cfg.Static != nil {
		s.mountStatic(cfg.Static)
	}
	return s
}

// Handler returns the router for serving or tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until the listener fails.
func (s *Server) Run(addr string) error {
	log.Printf("serving on %s", addr)
	return s.engine.Run(addr)
}

func (s *Server) handleUpload(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no image uploaded"})
		return
	}
	if file.Size > s.cfg.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
		return
	}
	if !store.AllowedExt(file.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image type"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "read upload"})
		return
	}
	defer src.Close()
	entry, err := s.cfg.Store.Save(c.Request.Context(), file.Filename, file.Header.Get("Content-Type"), src)
	if err != nil {
		log.Printf("save upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store image"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "upload successful",
		"filename": entry.Filename,
		"path":     entry.Path,
		"date":     entry.Date,
	})
}

func (s *Server) handleImages(c *gin.Context) {
	groups, err := s.cfg.Store.List(c.Request.Context())
	if err != nil {
		log.Printf("list images: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list images"})
		return
	}
	if groups == nil {
		groups = []store.DayGroup{}
	}
	c.JSON(http.StatusOK, groups)
}

func (s *Server) handleDelete(c *gin.Context) {
	filename := c.Query("filename")
	if filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "filename required"})
		return
	}
	err := s.cfg.Store.Delete(c.Request.Context(), filename)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
		return
	}
	if err != nil {
		log.Printf("delete %s: %v", filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete image"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted", "filename": filename})
}

func (s *Server) handleOpen(c *gin.Context) {
	filename := c.Param("filename")
	rc, ct, err := s.cfg.Store.Open(c.Request.Context(), filename)
	if errors.Is(err, store.ErrNotFound) {
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("open %s: %v", filename, err)
		c.Status(http.StatusInternalServerError)
		return
	}
	defer rc.Close()
	c.DataFromReader(http.StatusOK, -1, ct, rc, nil)
}

func (s *Server) handleQR(c *gin.Context) {
	png, err := qrPNG(s.cfg.PublicURL)
	if err != nil {
		log.Printf("qr: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (s *Server) mountStatic(static fs.FS) {
	httpFS := http.FS(static)
	s.engine.GET("/", func(c *gin.Context) {
		// Serving the directory root yields index.html without the
		// net/http self-redirect on the literal name.
		c.FileFromFS("/", httpFS)
	})
	s.engine.NoRoute(func(c *gin.Context) {
		p := c.Request.URL.Path
		if _, err := fs.Stat(static, trimSlash(p)); err == nil {
			c.FileFromFS(trimSlash(p), httpFS)
			return
		}
		c.Status(http.StatusNotFound)
	})
}

func trimSlash(p string) string {
	if len(p) > 0 && p[0] == '/' {
		return p[1:]
	}
	return p
}

// Addr formats host:port for Run.
func Addr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
