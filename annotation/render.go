package annotation

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"strings"

	"github.com/apex/log"
	"github.com/fogleman/gg"
	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/draw"
	"golang.org/x/image/font/basicfont"

	"ecowatch/models"
)

const (
	maxRenderDimension = 1024
	renderQuality      = 85
)

var ErrNotDataURI = errors.New("image reference is not a data URI")

// DecodeDataURI extracts the mime type and payload of a base64 data URI
func DecodeDataURI(ref string) (string, []byte, error) {
	if !strings.HasPrefix(ref, "data:") {
		return "", nil, ErrNotDataURI
	}
	header, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return "", nil, ErrNotDataURI
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data URI: %w", err)
	}
	return strings.TrimSuffix(header, ";base64"), data, nil
}

// orientation reads the EXIF orientation tag, 1 when absent
func orientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return v
}

// upright undoes the EXIF orientation so the image displays as shot
func upright(img image.Image, o int) image.Image {
	if o <= 1 || o > 8 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	swap := o >= 5
	dw, dh := w, h
	if swap {
		dw, dh = h, w
	}
	out := image.NewRGBA(image.Rect(0, 0, dw, dh))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var dx, dy int
			switch o {
			case 2:
				dx, dy = w-1-x, y
			case 3:
				dx, dy = w-1-x, h-1-y
			case 4:
				dx, dy = x, h-1-y
			case 5:
				dx, dy = y, x
			case 6:
				dx, dy = h-1-y, x
			case 7:
				dx, dy = h-1-y, w-1-x
			case 8:
				dx, dy = y, w-1-x
			}
			out.Set(dx, dy, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return out
}

func shrink(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxRenderDimension && h <= maxRenderDimension {
		return img
	}
	scale := float64(maxRenderDimension) / float64(w)
	if s := float64(maxRenderDimension) / float64(h); s < scale {
		scale = s
	}
	nw, nh := int(float64(w)*scale), int(float64(h)*scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// Render draws box and label onto the image and returns it as JPEG. The box
// is placed using the same 800x600 reference frame as Project.
func Render(data []byte, box *models.BoundingBox, label string) ([]byte, error) {
	o := orientation(data)
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	img = shrink(upright(img, o))

	b := img.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.DrawImage(img, 0, 0)

	if p := Project(box); p != nil {
		w, h := float64(b.Dx()), float64(b.Dy())
		x, y := p.Left/100*w, p.Top/100*h
		bw, bh := p.Width/100*w, p.Height/100*h
		dc.DrawRectangle(x, y, bw, bh)
		dc.SetRGBA255(239, 68, 68, 64)
		dc.FillPreserve()
		dc.SetRGBA255(239, 68, 68, 255)
		dc.SetLineWidth(3)
		dc.Stroke()
	}

	if label != "" {
		dc.SetFontFace(basicfont.Face7x13)
		tw, th := dc.MeasureString(label)
		dc.SetRGBA255(0, 0, 0, 160)
		dc.DrawRectangle(4, 4, tw+8, th+8)
		dc.Fill()
		dc.SetRGB(1, 1, 1)
		dc.DrawString(label, 8, 8+th)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dc.Image(), &jpeg.Options{Quality: renderQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode annotated image: %w", err)
	}
	log.Debugf("rendered annotated image: %d bytes -> %d bytes (orientation %d)", len(data), buf.Len(), o)
	return buf.Bytes(), nil
}
