// Package detect finds particle blobs by HSV color thresholding, as a
// starting point the user refines with manual measurements.
package detect

import (
	"fmt"
	"image"
	"sort"

	"gocv.io/x/gocv"

	"nano-measure/pkg/colorutil"
	"nano-measure/pkg/geometry"
)

// Params controls the HSV threshold and blob filtering. Hue is in the
// OpenCV 0-180 range; a HueMin above HueMax means the band wraps around
// red.
type Params struct {
	HueMin, HueMax float64
	SatMin, SatMax float64
	ValMin, ValMax float64

	// MinArea rejects blobs below this pixel area. Zero applies a
	// floor of 0.01% of the image, matching the noise level of
	// typical micrographs.
	MinArea int
}

// ParamsFromSamples builds a threshold band around user-picked pixel
// colors. Hue uses a circular mean so bands straddling red work.
func ParamsFromSamples(samples []gocv.Vecb, hueTol, satTol, valTol float64) Params {
	hues := make([]float64, len(samples))
	var sSum, vSum float64
	for i, px := range samples {
		// Vecb is BGR ordered.
		h, s, v := colorutil.RGBToHSV(float64(px[2]), float64(px[1]), float64(px[0]))
		hues[i] = h
		sSum += s
		vSum += v
	}
	n := float64(len(samples))
	meanH := colorutil.CircularMeanHue(hues)
	meanS := sSum / n
	meanV := vSum / n

	p := Params{
		HueMin: meanH - hueTol,
		HueMax: meanH + hueTol,
		SatMin: clamp255(meanS - satTol),
		SatMax: clamp255(meanS + satTol),
		ValMin: clamp255(meanV - valTol),
		ValMax: clamp255(meanV + valTol),
	}
	if p.HueMin < 0 {
		p.HueMin += 180
	}
	if p.HueMax >= 180 {
		p.HueMax -= 180
	}
	return p
}

// Blob is one detected particle candidate.
type Blob struct {
	Centroid geometry.Point2D
	Bounds   geometry.RectInt
	Area     int
}

// PhysicalArea converts the pixel area using a calibration factor given
// in canonical units per pixel.
func (b Blob) PhysicalArea(perPixel float64) float64 {
	return float64(b.Area) * perPixel * perPixel
}

// Run thresholds the image in HSV space and returns the surviving
// blobs sorted by area, largest first.
func Run(img image.Image, params Params) ([]Blob, error) {
	src, err := imageToMat(img)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(src, &hsv, gocv.ColorBGRToHSV)

	mask := thresholdHSV(hsv, params)
	defer mask.Close()

	// Morphological open drops single-pixel speckle before labeling.
	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Point{X: 3, Y: 3})
	defer kernel.Close()
	gocv.MorphologyEx(mask, &mask, gocv.MorphOpen, kernel)

	minArea := params.MinArea
	if minArea <= 0 {
		minArea = (src.Rows() * src.Cols()) / 10000
		if minArea < 4 {
			minArea = 4
		}
	}
	return labelBlobs(mask, minArea), nil
}

// thresholdHSV builds the binary mask for the band. A wrapped hue band
// is the union of two straight bands.
func thresholdHSV(hsv gocv.Mat, p Params) gocv.Mat {
	mask := gocv.NewMat()
	if p.HueMin <= p.HueMax {
		gocv.InRangeWithScalar(hsv,
			gocv.NewScalar(p.HueMin, p.SatMin, p.ValMin, 0),
			gocv.NewScalar(p.HueMax, p.SatMax, p.ValMax, 0),
			&mask)
		return mask
	}

	low := gocv.NewMat()
	defer low.Close()
	gocv.InRangeWithScalar(hsv,
		gocv.NewScalar(0, p.SatMin, p.ValMin, 0),
		gocv.NewScalar(p.HueMax, p.SatMax, p.ValMax, 0),
		&low)
	gocv.InRangeWithScalar(hsv,
		gocv.NewScalar(p.HueMin, p.SatMin, p.ValMin, 0),
		gocv.NewScalar(180, p.SatMax, p.ValMax, 0),
		&mask)
	gocv.BitwiseOr(mask, low, &mask)
	return mask
}

// labelBlobs runs connected components over the mask and keeps blobs
// at or above minArea, sorted by area descending.
func labelBlobs(mask gocv.Mat, minArea int) []Blob {
	labels := gocv.NewMat()
	defer labels.Close()
	stats := gocv.NewMat()
	defer stats.Close()
	centroids := gocv.NewMat()
	defer centroids.Close()

	n := gocv.ConnectedComponentsWithStats(mask, &labels, &stats, &centroids)

	var blobs []Blob
	for i := 1; i < n; i++ { // label 0 is background
		area := int(stats.GetIntAt(i, 4))
		if area < minArea {
			continue
		}
		blobs = append(blobs, Blob{
			Centroid: geometry.NewPoint2D(
				centroids.GetDoubleAt(i, 0),
				centroids.GetDoubleAt(i, 1),
			),
			Bounds: geometry.RectInt{
				X:      int(stats.GetIntAt(i, 0)),
				Y:      int(stats.GetIntAt(i, 1)),
				Width:  int(stats.GetIntAt(i, 2)),
				Height: int(stats.GetIntAt(i, 3)),
			},
			Area: area,
		})
	}

	sort.Slice(blobs, func(i, j int) bool { return blobs[i].Area > blobs[j].Area })
	return blobs
}

// imageToMat converts a Go image.Image to a BGR Mat.
func imageToMat(img image.Image) (gocv.Mat, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return gocv.Mat{}, fmt.Errorf("empty image")
	}

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			mat.SetUCharAt(y, x*3+0, uint8(b>>8))
			mat.SetUCharAt(y, x*3+1, uint8(g>>8))
			mat.SetUCharAt(y, x*3+2, uint8(r>>8))
		}
	}
	return mat, nil
}

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
