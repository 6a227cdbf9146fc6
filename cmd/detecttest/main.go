// Command detecttest runs particle color detection on a micrograph and
// prints the detected blobs.
package main

import (
	"flag"
	"fmt"
	"os"

	"nano-measure/internal/detect"
	"nano-measure/internal/imageio"
)

func main() {
	imagePath := flag.String("image", "", "Path to micrograph (TIFF, PNG, JPEG, or BMP)")
	hueMin := flag.Float64("hmin", 50, "Hue minimum (0-180)")
	hueMax := flag.Float64("hmax", 70, "Hue maximum (0-180)")
	satMin := flag.Float64("smin", 80, "Saturation minimum (0-255)")
	valMin := flag.Float64("vmin", 80, "Value minimum (0-255)")
	minArea := flag.Int("minarea", 0, "Minimum blob area in pixels (0 = auto)")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: detecttest -image <path> [-hmin 50] [-hmax 70] [-smin 80] [-vmin 80] [-minarea 0]")
		os.Exit(1)
	}

	frame, err := imageio.Load(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}

	bounds := frame.Image.Bounds()
	fmt.Printf("Loaded image: %dx%d pixels\n", bounds.Dx(), bounds.Dy())

	params := detect.Params{
		HueMin: *hueMin, HueMax: *hueMax,
		SatMin: *satMin, SatMax: 255,
		ValMin: *valMin, ValMax: 255,
		MinArea: *minArea,
	}
	fmt.Printf("HSV band: H(%.0f-%.0f) S(%.0f-255) V(%.0f-255)\n",
		params.HueMin, params.HueMax, params.SatMin, params.ValMin)

	blobs, err := detect.Run(frame.Image, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Detection failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nDetected %d blobs:\n", len(blobs))
	for i, b := range blobs {
		fmt.Printf("  %3d: centroid (%.1f, %.1f)  bounds %dx%d+%d+%d  area %d\n",
			i+1, b.Centroid.X, b.Centroid.Y,
			b.Bounds.Width, b.Bounds.Height, b.Bounds.X, b.Bounds.Y, b.Area)
	}
}
