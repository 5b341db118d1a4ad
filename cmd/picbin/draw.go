package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/example/picbin/internal/annotate"
	"github.com/example/picbin/internal/clipboard"
)

// drawCmd places a single annotation on an image without opening the editor.
type drawCmd struct {
	file        string
	output      string
	toClipboard bool
	colorSpec   string
	color       color.RGBA
	width       float64
	fontTier    int
	shape       string
	coords      []int
	text        string
	*root
	fs *flag.FlagSet
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func parseColor(s string) (color.RGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	for _, entry := range annotate.Palette() {
		if strings.EqualFold(entry.Name, s) {
			return entry.Color, nil
		}
	}
	if c, ok := colornames.Map[spec]; ok {
		return c, nil
	}
	if strings.HasPrefix(spec, "#") && (len(spec) == 7 || len(spec) == 9) {
		r, err := strconv.ParseUint(spec[1:3], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color %q", s)
		}
		g, err := strconv.ParseUint(spec[3:5], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color %q", s)
		}
		b, err := strconv.ParseUint(spec[5:7], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color %q", s)
		}
		a := uint64(255)
		if len(spec) == 9 {
			val, err := strconv.ParseUint(spec[7:9], 16, 8)
			if err != nil {
				return color.RGBA{}, fmt.Errorf("invalid color %q", s)
			}
			a = val
		}
		return color.RGBA{uint8(r), uint8(g), uint8(b), uint8(a)}, nil
	}
	return color.RGBA{}, fmt.Errorf("invalid color %q", s)
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(d)
	fs.StringVar(&d.file, "file", "", "input image file")
	fs.StringVar(&d.output, "output", "", "output file path (defaults to input file)")
	fs.BoolVar(&d.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&d.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	fs.StringVar(&d.colorSpec, "color", "red", "color name or hex value")
	fs.Float64Var(&d.width, "width", annotate.ThicknessAt(0), "arrow stroke width in pixels")
	fs.IntVar(&d.fontTier, "font", 1, "text size index (0 small, 1 medium, 2 large)")

	flagArgs, positionals, err := splitDrawArgs(args)
	if err != nil {
		return nil, err
	}
	if err := fs.Parse(flagArgs); err != nil {
		return nil, err
	}
	if len(positionals) < 1 {
		return nil, &UsageError{of: d}
	}
	d.shape = strings.ToLower(positionals[0])
	remaining := positionals[1:]
	switch d.shape {
	case "arrow":
		d.coords, err = expectInts(remaining, 4, d.shape)
	case "text":
		if len(remaining) < 3 {
			return nil, fmt.Errorf("text requires x y and content")
		}
		var coords []int
		coords, err = expectInts(remaining[:2], 2, d.shape)
		if err != nil {
			return nil, err
		}
		d.coords = coords
		d.text = strings.Join(remaining[2:], " ")
		if strings.TrimSpace(d.text) == "" {
			return nil, fmt.Errorf("text content cannot be empty")
		}
	default:
		return nil, fmt.Errorf("unsupported shape %q (want arrow or text)", d.shape)
	}
	if err != nil {
		return nil, err
	}
	colorVal, err := parseColor(d.colorSpec)
	if err != nil {
		return nil, err
	}
	d.color = colorVal
	if d.file == "" {
		return nil, fmt.Errorf("input file is required")
	}
	if d.output == "" {
		d.output = d.file
	}
	if d.width < 1 {
		d.width = 1
	}
	return d, nil
}

func (d *drawCmd) Run() error {
	src, err := d.loadSource()
	if err != nil {
		return err
	}

	m := annotate.NewModel()
	switch d.shape {
	case "arrow":
		m.Append(&annotate.Arrow{
			From:      annotate.Point{X: float64(d.coords[0]), Y: float64(d.coords[1])},
			To:        annotate.Point{X: float64(d.coords[2]), Y: float64(d.coords[3])},
			Color:     d.color,
			Thickness: d.width,
		})
	case "text":
		m.Append(&annotate.Text{
			Anchor:   annotate.Point{X: float64(d.coords[0]), Y: float64(d.coords[1])},
			Content:  d.text,
			Color:    d.color,
			FontTier: d.fontTier,
		})
	}
	rgba := annotate.Render(src, m, 0, 0)

	out, err := os.Create(d.output)
	if err != nil {
		return err
	}
	defer func(out *os.File) {
		if err := out.Close(); err != nil {
			log.Printf("error closing %q: %v", out.Name(), err)
		}
	}(out)
	if err := png.Encode(out, rgba); err != nil {
		return err
	}
	saved := d.output
	if abs, err := filepath.Abs(d.output); err == nil {
		saved = abs
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", saved)
	if d.root != nil {
		d.root.notifySave(saved)
	}
	if d.toClipboard {
		if err := clipboard.WriteImage(rgba); err != nil {
			return fmt.Errorf("copy PNG to clipboard: %w", err)
		}
		detail := filepath.Base(d.output)
		fmt.Fprintf(os.Stderr, "copied %s to clipboard\n", detail)
		if d.root != nil {
			d.root.notifyCopy(detail)
		}
	}
	return nil
}

func (d *drawCmd) loadSource() (image.Image, error) {
	f, err := os.Open(d.file)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(f)
	if err != nil {
		if cerr := f.Close(); cerr != nil {
			log.Printf("error closing %q: %v", f.Name(), cerr)
		}
		return nil, fmt.Errorf("decode %s: %w", d.file, err)
	}
	if err := f.Close(); err != nil {
		log.Printf("error closing %q: %v", f.Name(), err)
	}
	return img, nil
}

func expectInts(args []string, n int, shape string) ([]int, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires %d integer arguments", shape, n)
	}
	vals := make([]int, n)
	for i, raw := range args {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", raw)
		}
		vals[i] = v
	}
	return vals, nil
}

var drawFlagNames = map[string]struct{}{
	"file":         {},
	"output":       {},
	"to-clipboard": {},
	"to-clip":      {},
	"color":        {},
	"width":        {},
	"font":         {},
}

var drawBoolFlags = map[string]struct{}{
	"to-clipboard": {},
	"to-clip":      {},
}

// splitDrawArgs separates flag arguments from the shape and its coordinates
// so flags may appear on either side of the positionals.
func splitDrawArgs(args []string) ([]string, []string, error) {
	var flags []string
	var positionals []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positionals = append(positionals, args[i+1:]...)
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			positionals = append(positionals, arg)
			continue
		}
		name := strings.TrimLeft(arg, "-")
		if name == "" {
			positionals = append(positionals, arg)
			continue
		}
		parts := strings.SplitN(name, "=", 2)
		base := strings.ToLower(parts[0])
		if _, ok := drawFlagNames[base]; !ok {
			positionals = append(positionals, arg)
			continue
		}
		// Normalise to single dash form for the flag parser.
		norm := "-" + base
		if len(parts) == 2 {
			flags = append(flags, norm+"="+parts[1])
			continue
		}
		if _, ok := drawBoolFlags[base]; ok {
			flags = append(flags, norm)
			continue
		}
		if i+1 >= len(args) {
			return nil, nil, fmt.Errorf("flag %s requires a value", arg)
		}
		flags = append(flags, norm, args[i+1])
		i++
	}
	return flags, positionals, nil
}
