package chart

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"loghealth/internal/analyzer"
	apperrors "loghealth/pkg/errors"
)

const (
	Title       = "Log Level Distribution"
	YLabel      = "Count"
	ContentType = "image/png"

	MinWidth  = 200
	MinHeight = 150

	marginLeft   = 56
	marginRight  = 24
	marginTop    = 48
	marginBottom = 40

	maxTicks = 5
)

var (
	colorBackground = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	colorAxis       = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	colorGrid       = color.RGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
	colorBar        = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	colorText       = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff}
)

// Options controls the rendered image size in pixels.
type Options struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// DefaultOptions matches the default matplotlib figure at 100 dpi.
func DefaultOptions() Options {
	return Options{Width: 640, Height: 480}
}

// RenderPNG draws series as a bar chart and encodes it as PNG into w.
// An all-zero series renders empty axes.
func RenderPNG(w io.Writer, series analyzer.ChartSeries, opts Options) error {
	img, err := Draw(series, opts)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return apperrors.NewRenderError(err)
	}
	return nil
}

// Draw renders series into an in-memory image.
func Draw(series analyzer.ChartSeries, opts Options) (*image.RGBA, error) {
	if len(series.Labels) != len(series.Values) {
		return nil, apperrors.NewRenderError(fmt.Errorf("%d labels for %d values", len(series.Labels), len(series.Values)))
	}
	for i, v := range series.Values {
		if v < 0 {
			return nil, apperrors.NewRenderError(fmt.Errorf("negative value %d for %s", v, series.Labels[i]))
		}
	}
	if opts.Width < MinWidth || opts.Height < MinHeight {
		return nil, apperrors.NewRenderError(fmt.Errorf("image %dx%d smaller than %dx%d", opts.Width, opts.Height, MinWidth, MinHeight))
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(colorBackground), image.Point{}, draw.Src)

	plot := image.Rect(marginLeft, marginTop, opts.Width-marginRight, opts.Height-marginBottom)
	step, top := yScale(maxValue(series.Values))

	// grid and tick labels
	for v := 0; v <= top; v += step {
		y := plot.Max.Y - scale(v, top, plot.Dy())
		if v > 0 {
			fillRect(img, image.Rect(plot.Min.X+1, y, plot.Max.X, y+1), colorGrid)
		}
		fillRect(img, image.Rect(plot.Min.X-4, y, plot.Min.X, y+1), colorAxis)
		label := strconv.Itoa(v)
		drawText(img, label, plot.Min.X-8-textWidth(label), y+4)
	}

	// bars
	if n := len(series.Values); n > 0 {
		slot := plot.Dx() / n
		barWidth := slot * 3 / 5
		for i, v := range series.Values {
			x0 := plot.Min.X + i*slot + (slot-barWidth)/2
			h := scale(v, top, plot.Dy())
			fillRect(img, image.Rect(x0, plot.Max.Y-h, x0+barWidth, plot.Max.Y), colorBar)

			label := series.Labels[i]
			drawText(img, label, x0+(barWidth-textWidth(label))/2, plot.Max.Y+18)
		}
	}

	// axes
	fillRect(img, image.Rect(plot.Min.X, plot.Min.Y, plot.Min.X+1, plot.Max.Y+1), colorAxis)
	fillRect(img, image.Rect(plot.Min.X, plot.Max.Y, plot.Max.X, plot.Max.Y+1), colorAxis)

	drawText(img, Title, (opts.Width-textWidth(Title))/2, marginTop/2)
	drawText(img, YLabel, 8, marginTop-12)

	return img, nil
}

func maxValue(values []int) int {
	m := 0
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}

// yScale picks a tick step and an axis top that is a multiple of it.
func yScale(max int) (step, top int) {
	if max <= 0 {
		return 1, 1
	}
	step = (max + maxTicks - 1) / maxTicks
	if step < 1 {
		step = 1
	}
	top = ((max + step - 1) / step) * step
	return step, top
}

func scale(v, top, pixels int) int {
	if top <= 0 {
		return 0
	}
	return v * pixels / top
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(img, r.Intersect(img.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

func textWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}

func drawText(img *image.RGBA, s string, x, y int) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(colorText),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
