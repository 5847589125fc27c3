package media

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"strings"
)

// Image is a host-native pixel buffer: interleaved RGB float32 samples in
// [0,1], row-major. This is the value node outputs carry; the host bridges
// it to whatever tensor format it uses internally.
type Image struct {
	Width  int
	Height int
	Pix    []float32 // len == Width*Height*3
}

// Blank returns an all-black image, the placeholder output used when a
// generation fails. Non-positive dimensions fall back to 512x512.
func Blank(w, h int) *Image {
	if w <= 0 || h <= 0 {
		w, h = 512, 512
	}
	return &Image{
		Width:  w,
		Height: h,
		Pix:    make([]float32, w*h*3),
	}
}

// At returns the RGB sample at (x, y).
func (img *Image) At(x, y int) (r, g, b float32) {
	i := (y*img.Width + x) * 3
	return img.Pix[i], img.Pix[i+1], img.Pix[i+2]
}

// DecodeImage decodes PNG or JPEG bytes into an Image. Alpha is dropped;
// pixels are premultiplied against black the way image.Image exposes them.
func DecodeImage(data []byte) (*Image, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	img := &Image{
		Width:  w,
		Height: h,
		Pix:    make([]float32, w*h*3),
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := src.At(x, y).RGBA()
			img.Pix[i] = float32(r) / 0xffff
			img.Pix[i+1] = float32(g) / 0xffff
			img.Pix[i+2] = float32(b) / 0xffff
			i += 3
		}
	}
	return img, nil
}

// EncodePNG renders the Image to PNG bytes. Samples are clamped to [0,1].
func EncodePNG(img *Image) ([]byte, error) {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return nil, fmt.Errorf("cannot encode empty image")
	}
	if len(img.Pix) < img.Width*img.Height*3 {
		return nil, fmt.Errorf("pixel buffer too short: have %d, need %d",
			len(img.Pix), img.Width*img.Height*3)
	}

	out := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	i := 0
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			out.SetNRGBA(x, y, color.NRGBA{
				R: clampByte(img.Pix[i]),
				G: clampByte(img.Pix[i+1]),
				B: clampByte(img.Pix[i+2]),
				A: 0xff,
			})
			i += 3
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func clampByte(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xff
	default:
		return uint8(v*255 + 0.5)
	}
}

// ImageToBase64 encodes the image as base64 PNG (no data-URI prefix).
func ImageToBase64(img *Image) (string, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// ImageToDataURI encodes the image as a PNG data URI, the form vision
// chat endpoints accept in image_url content parts.
func ImageToDataURI(img *Image) (string, error) {
	b64, err := ImageToBase64(img)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + b64, nil
}

// Base64ToImage decodes a base64 image, tolerating a data-URI prefix.
func Base64ToImage(s string) (*Image, error) {
	if idx := strings.Index(s, ";base64,"); idx >= 0 {
		s = s[idx+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 image data: %w", err)
	}
	return DecodeImage(data)
}
