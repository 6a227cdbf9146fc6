// Package canvas provides drawing primitives for the image canvas.
package canvas

import (
	"image"
	"image/color"

	"nano-measure/pkg/colorutil"
)

// digitPatterns contains 3x5 pixel patterns for digits 0-9.
// Each digit is represented as 5 rows of 3 bits.
var digitPatterns = [10][5]uint8{
	{0b111, 0b101, 0b101, 0b101, 0b111}, // 0
	{0b010, 0b110, 0b010, 0b010, 0b111}, // 1
	{0b111, 0b001, 0b111, 0b100, 0b111}, // 2
	{0b111, 0b001, 0b111, 0b001, 0b111}, // 3
	{0b101, 0b101, 0b111, 0b001, 0b001}, // 4
	{0b111, 0b100, 0b111, 0b001, 0b111}, // 5
	{0b111, 0b100, 0b111, 0b101, 0b111}, // 6
	{0b111, 0b001, 0b001, 0b001, 0b001}, // 7
	{0b111, 0b101, 0b111, 0b101, 0b111}, // 8
	{0b111, 0b101, 0b111, 0b001, 0b111}, // 9
}

// letterPatterns contains 3x5 pixel patterns for letters and symbols
// appearing in measurement labels and unit suffixes.
var letterPatterns = map[rune][5]uint8{
	'A': {0b010, 0b101, 0b111, 0b101, 0b101},
	'B': {0b110, 0b101, 0b110, 0b101, 0b110},
	'C': {0b011, 0b100, 0b100, 0b100, 0b011},
	'D': {0b110, 0b101, 0b101, 0b101, 0b110},
	'E': {0b111, 0b100, 0b110, 0b100, 0b111},
	'F': {0b111, 0b100, 0b110, 0b100, 0b100},
	'G': {0b011, 0b100, 0b101, 0b101, 0b011},
	'H': {0b101, 0b101, 0b111, 0b101, 0b101},
	'I': {0b111, 0b010, 0b010, 0b010, 0b111},
	'J': {0b001, 0b001, 0b001, 0b101, 0b010},
	'K': {0b101, 0b101, 0b110, 0b101, 0b101},
	'L': {0b100, 0b100, 0b100, 0b100, 0b111},
	'M': {0b101, 0b111, 0b101, 0b101, 0b101},
	'N': {0b101, 0b111, 0b111, 0b101, 0b101},
	'O': {0b010, 0b101, 0b101, 0b101, 0b010},
	'P': {0b110, 0b101, 0b110, 0b100, 0b100},
	'Q': {0b010, 0b101, 0b101, 0b111, 0b011},
	'R': {0b110, 0b101, 0b110, 0b101, 0b101},
	'S': {0b011, 0b100, 0b010, 0b001, 0b110},
	'T': {0b111, 0b010, 0b010, 0b010, 0b010},
	'U': {0b101, 0b101, 0b101, 0b101, 0b111},
	'V': {0b101, 0b101, 0b101, 0b101, 0b010},
	'W': {0b101, 0b101, 0b101, 0b111, 0b101},
	'X': {0b101, 0b101, 0b010, 0b101, 0b101},
	'Y': {0b101, 0b101, 0b010, 0b010, 0b010},
	'Z': {0b111, 0b001, 0b010, 0b100, 0b111},
	'Å': {0b010, 0b000, 0b010, 0b111, 0b101},
	'μ': {0b000, 0b101, 0b101, 0b111, 0b100},
	'+': {0b000, 0b010, 0b111, 0b010, 0b000},
	'-': {0b000, 0b000, 0b111, 0b000, 0b000},
	'.': {0b000, 0b000, 0b000, 0b000, 0b010},
	':': {0b000, 0b010, 0b000, 0b010, 0b000},
	' ': {0b000, 0b000, 0b000, 0b000, 0b000},
}

// getCharPattern returns the 3x5 pixel pattern for a character.
// Returns a zero pattern for unsupported characters.
func getCharPattern(ch rune) [5]uint8 {
	if ch >= '0' && ch <= '9' {
		return digitPatterns[ch-'0']
	}
	if pattern, ok := letterPatterns[ch]; ok {
		return pattern
	}
	if ch >= 'a' && ch <= 'z' {
		if pattern, ok := letterPatterns[ch-'a'+'A']; ok {
			return pattern
		}
	}
	return [5]uint8{}
}

// drawOverlay draws an overlay's lines, rectangles, and crosses.
func (ic *ImageCanvas) drawOverlay(output *image.RGBA, overlay *Overlay) {
	col := overlay.Color
	if col.A == 0 {
		col = colorutil.Green
	}

	for _, line := range overlay.Lines {
		x1, y1 := ic.ImageToCanvas(line.X1, line.Y1)
		x2, y2 := ic.ImageToCanvas(line.X2, line.Y2)
		ic.drawLine(output, int(x1), int(y1), int(x2), int(y2), col, 2)
		ic.drawCrossAt(output, int(x1), int(y1), col)
		ic.drawCrossAt(output, int(x2), int(y2), col)
		if line.Label != "" {
			ic.drawLabel(output, line.Label, int((x1+x2)/2), int((y1+y2)/2)-8, col)
		}
	}

	for _, rect := range overlay.Rects {
		x1, y1 := ic.ImageToCanvas(rect.X, rect.Y)
		x2, y2 := ic.ImageToCanvas(rect.X+rect.Width, rect.Y+rect.Height)
		ic.drawRectOutline(output, int(x1), int(y1), int(x2), int(y2), col, 2)
		if rect.Label != "" {
			ic.drawLabel(output, rect.Label, int(x1)+4, int(y1)-8, col)
		}
	}

	for _, cross := range overlay.Crosses {
		x, y := ic.ImageToCanvas(cross.X, cross.Y)
		ic.drawCrossAt(output, int(x), int(y), col)
	}
}

// drawSelectionRect draws the in-progress rubber band. Coordinates are
// already in canvas space.
func (ic *ImageCanvas) drawSelectionRect(output *image.RGBA, rect *OverlayRect) {
	ic.drawRectOutline(output,
		int(rect.X), int(rect.Y),
		int(rect.X+rect.Width), int(rect.Y+rect.Height),
		colorutil.Cyan, 1)
}

// drawRectOutline draws an axis-aligned rectangle outline.
func (ic *ImageCanvas) drawRectOutline(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	ic.drawLine(output, x1, y1, x2, y1, col, thickness)
	ic.drawLine(output, x2, y1, x2, y2, col, thickness)
	ic.drawLine(output, x2, y2, x1, y2, col, thickness)
	ic.drawLine(output, x1, y2, x1, y1, col, thickness)
}

// drawCrossAt draws a small endpoint marker.
func (ic *ImageCanvas) drawCrossAt(output *image.RGBA, x, y int, col color.RGBA) {
	const arm = 4
	ic.drawLine(output, x-arm, y, x+arm, y, col, 1)
	ic.drawLine(output, x, y-arm, x, y+arm, col, 1)
}

// drawLine draws a line between two points using Bresenham's algorithm.
func (ic *ImageCanvas) drawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	bounds := output.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					output.Set(px, py, col)
				}
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawLabel draws text centered at (centerX, centerY) with a dark
// backing box for contrast on busy micrographs.
func (ic *ImageCanvas) drawLabel(output *image.RGBA, label string, centerX, centerY int, col color.RGBA) {
	const scale = 2
	const charW = 4 * scale // 3px glyph + 1px gap
	const charH = 5 * scale

	runes := []rune(label)
	textW := len(runes) * charW
	startX := centerX - textW/2
	startY := centerY - charH/2

	// Backing box
	bounds := output.Bounds()
	for y := startY - 2; y < startY+charH+2; y++ {
		for x := startX - 2; x < startX+textW+2; x++ {
			if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
				output.Set(x, y, colorutil.Black)
			}
		}
	}

	for i, ch := range runes {
		pattern := getCharPattern(ch)
		charX := startX + i*charW
		for row := 0; row < 5; row++ {
			for bit := 0; bit < 3; bit++ {
				if pattern[row]&(1<<(2-bit)) == 0 {
					continue
				}
				for dy := 0; dy < scale; dy++ {
					for dx := 0; dx < scale; dx++ {
						px := charX + bit*scale + dx
						py := startY + row*scale + dy
						if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
							output.Set(px, py, col)
						}
					}
				}
			}
		}
	}
}
