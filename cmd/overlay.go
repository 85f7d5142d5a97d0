package cmd

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"github.com/mj1618/chatstress/internal/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// maxOverlaySide caps the canvas so a bogus window size cannot allocate
// gigabytes.
const maxOverlaySide = 4096

var (
	backgroundColor = color.RGBA{R: 32, G: 32, B: 36, A: 255}
	textColor       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineColor    = color.RGBA{R: 0, G: 0, B: 0, A: 200}

	roleColors = map[model.Role]color.RGBA{
		model.RoleTextInput:   {R: 80, G: 200, B: 120, A: 255},
		model.RoleSendControl: {R: 255, G: 80, B: 80, A: 255},
		model.RoleNewSession:  {R: 90, G: 150, B: 255, A: 255},
	}
)

// RenderOverlay draws every candidate's bounds onto a canvas the size of the
// window. windowBounds is [x, y, w, h] in screen coordinates; candidate
// bounds are converted to window-relative pixels. Labels read "role#rank
// score", with rank 1 being the best candidate for the role.
func RenderOverlay(windowBounds [4]int, result *model.DiscoveryResult) *image.RGBA {
	w := clampSide(windowBounds[2])
	h := clampSide(windowBounds[3])
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	// Lowest ranks drawn last so the best candidate's label ends up on top.
	for _, role := range model.Roles {
		cands := result.Candidates(role)
		for i := len(cands) - 1; i >= 0; i-- {
			c := cands[i]
			label := fmt.Sprintf("%s#%d %d", roleAbbrev(role), i+1, c.Score)
			drawCandidate(img, c.Bounds, windowBounds[0], windowBounds[1], roleColors[role], label)
		}
	}
	return img
}

func writeOverlay(path string, windowBounds [4]int, result *model.DiscoveryResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create overlay: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, RenderOverlay(windowBounds, result)); err != nil {
		return fmt.Errorf("encode overlay: %w", err)
	}
	return nil
}

func clampSide(n int) int {
	if n <= 0 {
		return 1
	}
	return min(n, maxOverlaySide)
}

func roleAbbrev(r model.Role) string {
	switch r {
	case model.RoleTextInput:
		return "input"
	case model.RoleSendControl:
		return "send"
	case model.RoleNewSession:
		return "new"
	}
	return string(r)
}

// drawCandidate draws a bounding box and label for one candidate.
// winX, winY are the window origin in screen coordinates.
func drawCandidate(img *image.RGBA, bounds [4]int, winX, winY int, boxColor color.Color, label string) {
	x := bounds[0] - winX
	y := bounds[1] - winY
	w := bounds[2]
	h := bounds[3]

	drawRectangle(img, x, y, x+w, y+h, boxColor)
	drawTextWithOutline(img, label, x+w/2, y+h/2, textColor, outlineColor)
}

// isWithinBounds checks if a point is within the image bounds
func isWithinBounds(bounds image.Rectangle, x, y int) bool {
	return x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y
}

// drawRectangle draws a rectangle outline on the image
func drawRectangle(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	bounds := img.Bounds()

	x1 = max(x1, bounds.Min.X)
	y1 = max(y1, bounds.Min.Y)
	x2 = min(x2, bounds.Max.X)
	y2 = min(y2, bounds.Max.Y)
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for x := x1; x < x2; x++ {
		if isWithinBounds(bounds, x, y1) {
			img.Set(x, y1, c)
		}
		if isWithinBounds(bounds, x, y2-1) {
			img.Set(x, y2-1, c)
		}
	}
	for y := y1; y < y2; y++ {
		if isWithinBounds(bounds, x1, y) {
			img.Set(x1, y, c)
		}
		if isWithinBounds(bounds, x2-1, y) {
			img.Set(x2-1, y, c)
		}
	}
}

// drawTextWithOutline draws text centered on (x, y) with a one-pixel outline.
func drawTextWithOutline(img *image.RGBA, text string, x, y int, fg, outline color.Color) {
	// basicfont.Face7x13: 7px advance, 13px height
	offsetX := x - len(text)*7/2
	offsetY := y + 13/2

	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			drawString(img, text, offsetX+dx, offsetY+dy, outline)
		}
	}
	drawString(img, text, offsetX, offsetY, fg)
}

func drawString(img *image.RGBA, text string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
