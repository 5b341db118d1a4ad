package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/example/picbin/internal/client"
	"github.com/example/picbin/internal/clipboard"
	"github.com/example/picbin/internal/server"
	"github.com/example/picbin/internal/store"
)

const remoteTimeout = 60 * time.Second

// uploadCmd pushes a local image file to a picbin server.
type uploadCmd struct {
	serverURL string
	copyURL   bool
	file      string
	*root
	fs *flag.FlagSet
}

func (c *uploadCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseUploadCmd(args []string, r *root) (*uploadCmd, error) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	c := &uploadCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.serverURL, "server", r.config.Editor.ServerURL, "picbin server base URL")
	fs.BoolVar(&c.copyURL, "copy-url", false, "copy the uploaded image's URL to the clipboard")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	c.file = fs.Arg(0)
	if c.serverURL == "" {
		return nil, fmt.Errorf("-server is required (or set server_url in the config)")
	}
	if !store.AllowedExt(c.file) {
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(c.file))
	}
	return c, nil
}

func (c *uploadCmd) Run() error {
	data, err := os.ReadFile(c.file)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
	defer cancel()
	res, err := client.New(c.serverURL).Upload(ctx, filepath.Base(c.file), data)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "uploaded %s\n", res.Filename)
	c.root.notifyUpload(res.Filename)
	if c.copyURL {
		u := c.serverURL + res.Path
		if err := clipboard.WriteText(u); err != nil {
			return fmt.Errorf("copy URL to clipboard: %w", err)
		}
		fmt.Fprintf(os.Stdout, "copied %s\n", u)
		c.root.notifyCopy(u)
	}
	return nil
}

// listCmd prints the server's images grouped by day, newest first.
type listCmd struct {
	serverURL string
	*root
	fs *flag.FlagSet
}

func (c *listCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseListCmd(args []string, r *root) (*listCmd, error) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	c := &listCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.serverURL, "server", r.config.Editor.ServerURL, "picbin server base URL")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	if c.serverURL == "" {
		return nil, fmt.Errorf("-server is required (or set server_url in the config)")
	}
	return c, nil
}

func (c *listCmd) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
	defer cancel()
	groups, err := client.New(c.serverURL).List(ctx)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		fmt.Fprintln(os.Stdout, "no images stored")
		return nil
	}
	for _, g := range groups {
		fmt.Fprintf(os.Stdout, "%s\n", g.Date)
		for _, e := range g.Images {
			fmt.Fprintf(os.Stdout, "  %-40s %s\n", e.Filename, e.UploadTime.Local().Format("15:04:05"))
		}
	}
	return nil
}

// deleteCmd removes a stored image by filename.
type deleteCmd struct {
	serverURL string
	filename  string
	*root
	fs *flag.FlagSet
}

func (c *deleteCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseDeleteCmd(args []string, r *root) (*deleteCmd, error) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	c := &deleteCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.serverURL, "server", r.config.Editor.ServerURL, "picbin server base URL")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: c}
	}
	c.filename = fs.Arg(0)
	if c.serverURL == "" {
		return nil, fmt.Errorf("-server is required (or set server_url in the config)")
	}
	return c, nil
}

func (c *deleteCmd) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
	defer cancel()
	if err := client.New(c.serverURL).Delete(ctx, c.filename); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "deleted %s\n", c.filename)
	c.root.notifyDelete(c.filename)
	return nil
}

// qrCmd prints a terminal QR code for a URL, so a phone can reach the server.
type qrCmd struct {
	serverURL string
	url       string
	*root
	fs *flag.FlagSet
}

func (c *qrCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseQRCmd(args []string, r *root) (*qrCmd, error) {
	fs := flag.NewFlagSet("qr", flag.ExitOnError)
	c := &qrCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.serverURL, "server", r.config.Editor.ServerURL, "picbin server base URL")
	fs.StringVar(&c.url, "url", "", "encode this URL instead of the server address")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	if c.url == "" && c.serverURL == "" {
		return nil, fmt.Errorf("pass -url or -server")
	}
	return c, nil
}

func (c *qrCmd) Run() error {
	target := c.url
	if target == "" {
		target = c.serverURL
	}
	fmt.Fprintf(os.Stdout, "%s\n", target)
	return server.WriteTerminalQR(os.Stdout, target)
}
