// Package scalebar reads the printed legend of a micrograph's scale bar
// so calibration can be prefilled from the image itself.
package scalebar

import (
	"errors"
	"fmt"
	"image"
	"regexp"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"

	"nano-measure/internal/units"
	"nano-measure/pkg/geometry"
)

// ErrNoLegend is returned when the OCR output contains no readable
// "<number> <unit>" legend.
var ErrNoLegend = errors.New("no scale bar legend found")

// legendChars restricts OCR to what a scale bar legend can contain.
const legendChars = "0123456789.AÅnumcμµ "

var legendPattern = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)\s*(Å|A|nm|μm|µm|um|mm|cm)`)

// Legend is a parsed scale bar annotation, e.g. "50 nm".
type Legend struct {
	Value float64
	Unit  units.Unit
}

// Engine wraps a Tesseract client tuned for scale bar legends.
type Engine struct {
	client *gosseract.Client
}

// NewEngine creates an OCR engine. The caller owns Close.
func NewEngine() (*Engine, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	// Legends are not dictionary words; keep Tesseract from
	// "correcting" them.
	_ = client.SetVariable("load_system_dawg", "false")
	_ = client.SetVariable("load_freq_dawg", "false")

	return &Engine{client: client}, nil
}

// Close releases OCR resources.
func (e *Engine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// ReadRegion OCRs the given region of the image, normally the corner
// holding the scale bar, and parses its legend.
func (e *Engine) ReadRegion(img image.Image, bounds geometry.RectInt) (Legend, error) {
	src, err := regionToMat(img, bounds)
	if err != nil {
		return Legend{}, err
	}
	defer src.Close()

	processed := preprocess(src)
	defer processed.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, processed)
	if err != nil {
		return Legend{}, fmt.Errorf("failed to encode region: %w", err)
	}
	defer buf.Close()

	if err := e.client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		return Legend{}, fmt.Errorf("failed to set PSM: %w", err)
	}
	if err := e.client.SetWhitelist(legendChars); err != nil {
		return Legend{}, fmt.Errorf("failed to set whitelist: %w", err)
	}
	if err := e.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return Legend{}, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := e.client.Text()
	if err != nil {
		return Legend{}, fmt.Errorf("OCR failed: %w", err)
	}
	return ParseLegend(text)
}

// ParseLegend extracts "<number> <unit>" from raw OCR text.
func ParseLegend(text string) (Legend, error) {
	text = strings.Join(strings.Fields(text), " ")
	m := legendPattern.FindStringSubmatch(text)
	if m == nil {
		return Legend{}, fmt.Errorf("%w: %q", ErrNoLegend, text)
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil || value <= 0 {
		return Legend{}, fmt.Errorf("%w: bad value %q", ErrNoLegend, m[1])
	}
	unit, err := units.Parse(m[2])
	if err != nil {
		return Legend{}, fmt.Errorf("%w: %v", ErrNoLegend, err)
	}
	return Legend{Value: value, Unit: unit}, nil
}

// preprocess upscales and binarizes the region. Legends are printed
// either white on black or black on white; Tesseract wants dark text
// on light, so the mask is inverted when white dominates.
func preprocess(region gocv.Mat) gocv.Mat {
	h, w := region.Rows(), region.Cols()

	var scaled gocv.Mat
	if minDim := min(h, w); minDim < 80 && minDim > 0 {
		factor := 80.0 / float64(minDim)
		scaled = gocv.NewMat()
		gocv.Resize(region, &scaled, image.Point{}, factor, factor, gocv.InterpolationCubic)
	} else {
		scaled = region.Clone()
	}

	gray := gocv.NewMat()
	gocv.CvtColor(scaled, &gray, gocv.ColorBGRToGray)
	scaled.Close()

	binary := gocv.NewMat()
	gocv.Threshold(gray, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	gray.Close()

	whiteCount := gocv.CountNonZero(binary)
	if whiteCount*2 > binary.Rows()*binary.Cols() {
		gocv.BitwiseNot(binary, &binary)
	}

	result := gocv.NewMat()
	gocv.CvtColor(binary, &result, gocv.ColorGrayToBGR)
	binary.Close()
	return result
}

// regionToMat copies the clamped region into a BGR Mat.
func regionToMat(img image.Image, bounds geometry.RectInt) (gocv.Mat, error) {
	ib := img.Bounds()
	x0 := max(bounds.X, ib.Min.X)
	y0 := max(bounds.Y, ib.Min.Y)
	x1 := min(bounds.X+bounds.Width, ib.Max.X)
	y1 := min(bounds.Y+bounds.Height, ib.Max.Y)
	if x1 <= x0 || y1 <= y0 {
		return gocv.Mat{}, fmt.Errorf("invalid region bounds")
	}

	mat := gocv.NewMatWithSize(y1-y0, x1-x0, gocv.MatTypeCV8UC3)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			mat.SetUCharAt(y-y0, (x-x0)*3+0, uint8(b>>8))
			mat.SetUCharAt(y-y0, (x-x0)*3+1, uint8(g>>8))
			mat.SetUCharAt(y-y0, (x-x0)*3+2, uint8(r>>8))
		}
	}
	return mat, nil
}
