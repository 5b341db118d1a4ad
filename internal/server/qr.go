package server

import (
	"fmt"
	"io"
	"net"

	qrcode "github.com/skip2/go-qrcode"
)

// qrPNG renders url as a QR code PNG sized for a phone camera.
func qrPNG(url string) ([]byte, error) {
	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}

// WriteTerminalQR prints url as a scannable half-block QR code, the startup
// convenience for opening the gallery on a phone.
func WriteTerminalQR(w io.Writer, url string) error {
	q, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("build qr: %w", err)
	}
	fmt.Fprintln(w, q.ToSmallString(false))
	return nil
}

// LANAddress returns the machine's first non-loopback IPv4 address, used to
// build the URL other devices on the network can reach.
func LANAddress() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", fmt.Errorf("list interfaces: %w", err)
	}
	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipnet.IP.To4(); ip4 != nil {
			return ip4.String(), nil
		}
	}
	return "", fmt.Errorf("no non-loopback IPv4 address found")
}
