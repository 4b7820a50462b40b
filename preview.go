// ABOUTME: Preview window that renders the tip-window layout with the active theme.
// ABOUTME: Elements are scaled from screen coordinates into a smaller giu window.

package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	"github.com/AllenDang/cimgui-go/imgui"
	g "github.com/AllenDang/giu"
	"github.com/rs/zerolog/log"
	xdraw "golang.org/x/image/draw"

	"project-eye/internal/layout"
)

const previewWidth = 960

// sampleValues fill the layout's placeholders in the preview.
var sampleValues = map[string]string{
	layout.PlaceholderMinutes:   "20",
	layout.PlaceholderHealthTip: "Look at something 20 feet away for 20 seconds.",
	layout.PlaceholderCountdown: "20",
}

// preview draws a UIDesignModel at a fixed scale.
type preview struct {
	model  layout.UIDesignModel
	scale  float64
	wnd    *g.MasterWindow
	loaded sync.Once

	texMu    sync.Mutex
	textures map[int]*g.Texture
}

func newPreview(model layout.UIDesignModel, screenWidth float64) *preview {
	scale := 1.0
	if screenWidth > previewWidth {
		scale = previewWidth / screenWidth
	}
	return &preview{
		model:    model,
		scale:    scale,
		textures: make(map[int]*g.Texture),
	}
}

// run opens the window and blocks until it is closed.
func (p *preview) run(screenW, screenH int) {
	w := int(float64(screenW) * p.scale)
	h := int(float64(screenH) * p.scale)
	p.wnd = g.NewMasterWindow("Project Eye - Tip preview", w, h, g.MasterWindowFlagsNotResizable)
	p.wnd.SetBgColor(p.model.ContainerAttr.Background)
	p.wnd.Run(p.loop)
}

// loadImages decodes image elements and uploads them as textures. Missing
// files are logged and drawn as empty space.
func (p *preview) loadImages() {
	for i, el := range p.model.Elements {
		if el.Type != layout.ElementImage || el.Image == "" {
			continue
		}
		img, err := loadScaledImage(el.Image, int(el.Width*p.scale), int(el.Height*p.scale))
		if err != nil {
			log.Warn().Err(err).Str("image", el.Image).Msg("Skipping preview image")
			continue
		}
		idx := i
		g.EnqueueNewTextureFromRgba(img, func(tex *g.Texture) {
			p.texMu.Lock()
			p.textures[idx] = tex
			p.texMu.Unlock()
		})
	}
}

func loadScaledImage(path string, width, height int) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if width <= 0 || height <= 0 {
		return src, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst, nil
}

func (p *preview) loop() {
	p.loaded.Do(p.loadImages)

	pal := currentPalette.Load()
	bg := vec4(p.model.ContainerAttr.Background.WithOpacity(p.model.ContainerAttr.Opacity))
	if p.model.ContainerAttr.Background.A == 0 {
		bg = pal.windowBg
	}

	imgui.PushStyleColorVec4(imgui.ColWindowBg, bg)
	imgui.PushStyleVarFloat(imgui.StyleVarWindowBorderSize, 0)
	g.SingleWindow().Layout(
		g.Custom(func() {
			for i, el := range p.model.Elements {
				p.drawElement(i, el, pal)
			}
		}),
	)
	imgui.PopStyleVar()
	imgui.PopStyleColor()
}

func (p *preview) drawElement(i int, el layout.ElementModel, pal *palette) {
	s := float32(p.scale)
	pos := imgui.Vec2{X: float32(el.X) * s, Y: float32(el.Y) * s}
	size := imgui.Vec2{X: float32(el.Width) * s, Y: float32(el.Height) * s}

	imgui.PushStyleVarFloat(imgui.StyleVarAlpha, float32(el.Opacity))
	defer imgui.PopStyleVar()

	switch el.Type {
	case layout.ElementImage:
		p.texMu.Lock()
		tex := p.textures[i]
		p.texMu.Unlock()
		if tex != nil {
			imgui.SetCursorPos(pos)
			imgui.Image(tex.ID(), size)
		}

	case layout.ElementText:
		text := layout.ExpandPlaceholders(el.Text, sampleValues)
		col := pal.text
		if el.TextColor != nil {
			col = vec4(*el.TextColor)
		}
		fontScale := float32(1)
		if el.FontSize > 0 {
			fontScale = float32(el.FontSize) * s / imgui.FontSize()
		}
		imgui.SetWindowFontScale(fontScale)
		textSize := imgui.CalcTextSize(text)
		switch el.TextAlignment {
		case layout.AlignCenter:
			pos.X += (size.X - textSize.X) / 2
		case layout.AlignRight:
			pos.X += size.X - textSize.X
		}
		imgui.PushStyleColorVec4(imgui.ColText, col)
		imgui.SetCursorPos(pos)
		imgui.TextUnformatted(text)
		if el.IsTextBold {
			imgui.SetCursorPos(imgui.Vec2{X: pos.X + 1, Y: pos.Y})
			imgui.TextUnformatted(text)
		}
		imgui.PopStyleColor()
		imgui.SetWindowFontScale(1)

	case layout.ElementButton:
		imgui.PushStyleColorVec4(imgui.ColButton, pal.buttonBg)
		imgui.PushStyleColorVec4(imgui.ColButtonHovered, pal.buttonHov)
		imgui.PushStyleColorVec4(imgui.ColText, pal.text)
		imgui.SetCursorPos(pos)
		label := fmt.Sprintf("%s##el%d", el.Text, i)
		if imgui.ButtonV(label, size) {
			log.Info().Str("command", el.Command).Msg("Tip window button clicked")
			p.wnd.SetShouldClose(true)
		}
		imgui.PopStyleColorV(3)
	}
}
