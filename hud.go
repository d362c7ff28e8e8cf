package starchart

import (
	"math"

	"github.com/gogpu/starchart/internal/raster"
	"github.com/gogpu/starchart/text"
)

// defaultHUDReadouts are the stock instrument readouts substituted when
// the HUD is enabled with UseDefaultReadouts and no explicit entries.
var defaultHUDReadouts = []HUDReadout{
	{Text: "NAV 214.37", Position: 0.08, Alignment: AlignStart},
	{Text: "ΔV 0.993C", Position: 0.5, Alignment: AlignCenter},
	{Text: "SYNC 02:47:15", Position: 0.92, Alignment: AlignEnd},
}

// renderHUDLayer draws the bottom readout strip: a baseline rule with a
// tick comb and the readout texts above it. The layer is emissive-scaled
// as a whole so the strip blooms together with the rings.
func renderHUDLayer(scene *SceneDescriptor, face text.Face, ssaa int) *raster.Image {
	width, height := scene.Resolution.Supersampled()
	layer := raster.NewImage(width, height)
	if !scene.HUD.Enabled {
		return layer
	}

	readouts := scene.HUD.Readouts
	if len(readouts) == 0 && scene.HUD.UseDefaultReadouts {
		readouts = defaultHUDReadouts
	}

	emissive := scene.HUD.Emissive
	if emissive <= 0 {
		emissive = 1
	}
	rgb := scene.Text.Color.rgb32()
	s := float64(ssaa)

	lineY := float64(height) - 0.06*float64(height)
	x0 := 0.08 * float64(width)
	x1 := 0.92 * float64(width)
	layer.AddLine(x0, lineY, x1, lineY, rgb, math.Max(1, s), float32(emissive))

	// Tick comb under the rule: every fifth tick is taller.
	combSteps := 40
	for i := 0; i <= combSteps; i++ {
		x := x0 + (x1-x0)*float64(i)/float64(combSteps)
		length := 5 * s
		if i%5 == 0 {
			length = 9 * s
		}
		layer.AddLine(x, lineY, x, lineY+length, rgb, math.Max(1, s), float32(emissive*0.7))
	}

	scale := labelScale(scene.Text, ssaa)
	textY := lineY - 10*s - face.Height()*scale/2
	for _, r := range readouts {
		x := clamp(r.Position, 0, 1) * float64(width)
		align := r.Alignment
		if align == "" {
			align = AlignCenter
		}
		drawTextLine(layer, face, r.Text, x, textY, scale, scene.Text.Tracking, align, rgb, float32(emissive))
	}

	return layer
}
