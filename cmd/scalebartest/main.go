// Command scalebartest OCRs a region of a micrograph and prints the
// parsed scale bar legend.
package main

import (
	"flag"
	"fmt"
	"os"

	"nano-measure/internal/imageio"
	"nano-measure/internal/scalebar"
	"nano-measure/pkg/geometry"
)

func main() {
	imagePath := flag.String("image", "", "Path to micrograph")
	x := flag.Int("x", 0, "Region left edge")
	y := flag.Int("y", 0, "Region top edge")
	w := flag.Int("w", 0, "Region width (0 = full width)")
	h := flag.Int("h", 0, "Region height (0 = full height)")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: scalebartest -image <path> [-x 0 -y 0 -w 0 -h 0]")
		os.Exit(1)
	}

	frame, err := imageio.Load(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	bounds := frame.Image.Bounds()
	if *w <= 0 {
		*w = bounds.Dx()
	}
	if *h <= 0 {
		*h = bounds.Dy()
	}

	engine, err := scalebar.NewEngine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "OCR engine: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	legend, err := engine.ReadRegion(frame.Image, geometry.RectInt{X: *x, Y: *y, Width: *w, Height: *h})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Read failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Legend: %g %s\n", legend.Value, legend.Unit)
}
