package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/example/picbin/internal/annotate"
	"github.com/example/picbin/internal/client"
	"github.com/example/picbin/internal/editor"
)

// annotateCmd opens the editor window on a local or server-side image.
type annotateCmd struct {
	file      string
	url       string
	name      string
	serverURL string
	output    string
	colorIdx  int
	widthIdx  int
	fontIdx   int
	*root
	fs *flag.FlagSet
}

func (c *annotateCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseAnnotateCmd(args []string, r *root) (*annotateCmd, error) {
	fs := flag.NewFlagSet("annotate", flag.ExitOnError)
	c := &annotateCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.file, "file", "", "local image file to annotate")
	fs.StringVar(&c.url, "url", "", "image URL to annotate")
	fs.StringVar(&c.name, "name", "", "stored filename to annotate (requires a server)")
	fs.StringVar(&c.serverURL, "server", r.config.Editor.ServerURL, "picbin server base URL; saves upload there")
	fs.StringVar(&c.output, "output", "", "write the flattened image here instead of uploading")
	fs.IntVar(&c.colorIdx, "color", r.config.Editor.Color, "initial palette index (see 'picbin colors')")
	fs.IntVar(&c.widthIdx, "width", r.config.Editor.Thickness, "initial arrow width index (see 'picbin widths')")
	fs.IntVar(&c.fontIdx, "font", r.config.Editor.Font, "initial text size index (0 small, 1 medium, 2 large)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	sources := 0
	for _, s := range []string{c.file, c.url, c.name} {
		if s != "" {
			sources++
		}
	}
	if sources != 1 {
		return nil, fmt.Errorf("exactly one of -file, -url or -name is required")
	}
	if c.name != "" && c.serverURL == "" {
		return nil, fmt.Errorf("-name requires -server")
	}
	if c.serverURL == "" && c.output == "" {
		return nil, fmt.Errorf("no save target: pass -server or -output")
	}
	return c, nil
}

func (c *annotateCmd) Run() error {
	img, err := c.loadSource()
	if err != nil {
		return err
	}

	sess := annotate.NewSession(img,
		annotate.WithColorIndex(c.colorIdx),
		annotate.WithThicknessTier(c.widthIdx),
		annotate.WithFontTier(c.fontIdx),
	)

	title := "picbin"
	switch {
	case c.file != "":
		title = fmt.Sprintf("picbin - %s", filepath.Base(c.file))
	case c.name != "":
		title = fmt.Sprintf("picbin - %s", c.name)
	}

	ed := editor.New(sess,
		editor.WithTitle(title),
		editor.WithSaveFunc(c.save),
	)
	ed.Run()
	return nil
}

func (c *annotateCmd) loadSource() (image.Image, error) {
	switch {
	case c.file != "":
		f, err := os.Open(c.file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", c.file, err)
		}
		return img, nil
	case c.url != "":
		cl := client.New(c.serverURL)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return cl.FetchImage(ctx, c.url)
	default:
		cl := client.New(c.serverURL)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		entry, err := cl.FindEntry(ctx, c.name)
		if err != nil {
			return nil, fmt.Errorf("find %s: %w", c.name, err)
		}
		return cl.FetchImage(ctx, entry.Path)
	}
}

// save handles Ctrl+S from the editor: upload to the server when one is
// configured, otherwise write the PNG beside the user.
func (c *annotateCmd) save(name string, data []byte) (string, error) {
	if c.output != "" {
		if err := os.WriteFile(c.output, data, 0o644); err != nil {
			return "", err
		}
		saved := c.output
		if abs, err := filepath.Abs(c.output); err == nil {
			saved = abs
		}
		c.root.notifySave(saved)
		return fmt.Sprintf("saved %s", saved), nil
	}
	cl := client.New(c.serverURL)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	res, err := cl.Upload(ctx, name, data)
	if err != nil {
		return "", err
	}
	c.root.notifyUpload(res.Filename)
	return fmt.Sprintf("uploaded %s", res.Filename), nil
}
