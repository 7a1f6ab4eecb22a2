//go:build linux || freebsd || openbsd || netbsd || dragonfly

package source

import (
	"errors"
	"fmt"
	"image"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

const portalTimeout = 30 * time.Second

var portalHandleToken = func() string {
	return fmt.Sprintf("pixwand_%d", time.Now().UnixNano())
}

func captureDesktop() (*image.RGBA, error) {
	img, portalErr := portalScreenshot()
	if portalErr == nil {
		return img, nil
	}
	if os.Getenv("DISPLAY") == "" {
		return nil, portalErr
	}
	log.Printf("portal screenshot: %v; trying x11", portalErr)
	img, err := x11Screenshot()
	if err != nil {
		return nil, fmt.Errorf("portal: %v; x11: %w", portalErr, err)
	}
	return img, nil
}

func portalScreenshot() (*image.RGBA, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("dbus connect: %w", err)
	}
	defer conn.Close()

	sigc := make(chan *dbus.Signal, 4)
	conn.Signal(sigc)

	var handle dbus.ObjectPath
	obj := conn.Object("org.freedesktop.portal.Desktop", "/org/freedesktop/portal/desktop")
	call := obj.Call("org.freedesktop.portal.Screenshot.Screenshot", 0, "", portalOptions())
	if call.Err != nil {
		return nil, fmt.Errorf("portal screenshot call: %w", call.Err)
	}
	if err := call.Store(&handle); err != nil {
		return nil, fmt.Errorf("portal screenshot response: %w", err)
	}
	rule := fmt.Sprintf("type='signal',interface='org.freedesktop.portal.Request',member='Response',path='%s'", handle)
	if err := conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, rule).Err; err != nil {
		return nil, fmt.Errorf("portal screenshot subscribe: %w", err)
	}
	defer conn.BusObject().Call("org.freedesktop.DBus.RemoveMatch", 0, rule)

	timeout := time.After(portalTimeout)
	for {
		select {
		case sig := <-sigc:
			if sig == nil || sig.Path != handle || sig.Name != "org.freedesktop.portal.Request.Response" {
				continue
			}
			path, err := portalResult(sig.Body)
			if err != nil {
				return nil, err
			}
			return loadScreenshot(path)
		case <-timeout:
			return nil, fmt.Errorf("portal screenshot: no response after %s", portalTimeout)
		}
	}
}

func portalOptions() map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"handle_token": dbus.MakeVariant(portalHandleToken()),
		"interactive":  dbus.MakeVariant(false),
		"modal":        dbus.MakeVariant(false),
	}
}

// portalResult extracts the file path from a Request.Response signal body:
// a response code followed by a results dictionary.
func portalResult(body []interface{}) (string, error) {
	if len(body) < 2 {
		return "", errors.New("portal screenshot: malformed response")
	}
	if code, ok := body[0].(uint32); ok && code != 0 {
		return "", fmt.Errorf("portal screenshot: request ended with code %d", code)
	}
	results, ok := body[1].(map[string]dbus.Variant)
	if !ok {
		return "", errors.New("portal screenshot: malformed results")
	}
	v, ok := results["uri"]
	if !ok {
		return "", errors.New("portal screenshot: response missing image data")
	}
	uri, ok := v.Value().(string)
	if !ok {
		return "", errors.New("portal screenshot: uri is not a string")
	}
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return "", fmt.Errorf("portal screenshot: unexpected uri %q", uri)
	}
	return u.Path, nil
}

func loadScreenshot(path string) (*image.RGBA, error) {
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("remove %s: %v", path, err)
		}
	}()
	buf, err := Open(path)
	if err != nil {
		return nil, err
	}
	return buf.RGBA(), nil
}

func x11Screenshot() (*image.RGBA, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect X server: %w", err)
	}
	defer conn.Close()

	setup := xproto.Setup(conn)
	if setup == nil {
		return nil, errors.New("xproto setup unavailable")
	}
	screen := setup.DefaultScreen(conn)
	if screen == nil {
		return nil, errors.New("xproto screen unavailable")
	}
	w, h := screen.WidthInPixels, screen.HeightInPixels
	reply, err := xproto.GetImage(conn, xproto.ImageFormatZPixmap, xproto.Drawable(screen.Root), 0, 0, w, h, ^uint32(0)).Reply()
	if err != nil {
		return nil, fmt.Errorf("root pixels: %w", err)
	}
	return zpixmapToRGBA(setup.PixmapFormats, reply.Depth, reply.Data, int(w), int(h))
}

// zpixmapToRGBA converts little-endian BGRx/BGRA ZPixmap data. The alpha
// byte of a 32bpp visual is padding on most servers, so every pixel is
// opaque.
func zpixmapToRGBA(formats []xproto.Format, depth byte, data []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("screen has empty geometry")
	}
	if len(data) == 0 {
		return nil, errors.New("screen pixels: empty image data")
	}
	bpp := 0
	for _, f := range formats {
		if f.Depth == depth {
			bpp = int(f.BitsPerPixel)
			break
		}
	}
	if bpp < 24 {
		return nil, fmt.Errorf("unsupported screen depth %d (%d bpp)", depth, bpp)
	}
	px := bpp / 8
	stride := len(data) / height
	if stride*height != len(data) || stride < width*px {
		return nil, errors.New("screen pixels: unexpected stride")
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := data[y*stride:]
		o := img.PixOffset(0, y)
		for x := 0; x < width; x++ {
			s := x * px
			img.Pix[o+0] = row[s+2]
			img.Pix[o+1] = row[s+1]
			img.Pix[o+2] = row[s]
			img.Pix[o+3] = 0xff
			o += 4
		}
	}
	return img, nil
}
