// Package charts renders the aggregate views as PNG bar charts.
package charts

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"

	"github.com/moritahrk/tabememo/internal/services"
	chart "github.com/wcharczuk/go-chart/v2"
)

const (
	chartWidth  = 640
	chartHeight = 480
)

// Monthly renders the per-month visit counts. Empty data yields the
// placeholder image.
func Monthly(counts []services.MonthCount) ([]byte, error) {
	if len(counts) == 0 {
		return Placeholder()
	}
	bars := make([]chart.Value, 0, len(counts))
	for _, c := range counts {
		bars = append(bars, chart.Value{
			Value: float64(c.Count),
			Label: strconv.Itoa(c.Month),
		})
	}
	return renderBars("Visits per month", bars)
}

// Genre renders the per-genre visit counts.
func Genre(counts []services.GenreCount, title string) ([]byte, error) {
	if len(counts) == 0 {
		return Placeholder()
	}
	bars := make([]chart.Value, 0, len(counts))
	for _, c := range counts {
		bars = append(bars, chart.Value{
			Value: float64(c.Count),
			Label: c.Genre,
		})
	}
	return renderBars(title, bars)
}

func renderBars(title string, bars []chart.Value) ([]byte, error) {
	graph := chart.BarChart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		BarWidth: 48,
		Bars:     bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Placeholder is the flat panel served when there is nothing to draw yet or
// the requester is not signed in.
func Placeholder() ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, chartWidth, chartHeight))
	bg := color.RGBA{R: 0xf5, G: 0xf5, B: 0xf5, A: 0xff}
	draw.Draw(img, img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)

	frame := color.RGBA{R: 0xd0, G: 0xd0, B: 0xd0, A: 0xff}
	b := img.Bounds()
	for x := b.Min.X; x < b.Max.X; x++ {
		img.Set(x, b.Min.Y, frame)
		img.Set(x, b.Max.Y-1, frame)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		img.Set(b.Min.X, y, frame)
		img.Set(b.Max.X-1, y, frame)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
