package views

import (
	"fmt"
	"image"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/thelolagemann/go-invaders/pkg/display/event"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// frameHistory is the number of frame times plotted.
const frameHistory = 120

// frameTimes is a ring of the most recent frame times.
type frameTimes struct {
	mu    sync.Mutex
	times [frameHistory]time.Duration
	next  int
	count int
}

func (f *frameTimes) add(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.times[f.next] = d
	f.next = (f.next + 1) % frameHistory
	if f.count < frameHistory {
		f.count++
	}
}

// points returns the frame times oldest first, in milliseconds, along
// with their mean.
func (f *frameTimes) points() (plotter.XYs, float64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	xys := make(plotter.XYs, f.count)
	var total float64
	start := (f.next - f.count + frameHistory) % frameHistory
	for i := 0; i < f.count; i++ {
		ms := float64(f.times[(start+i)%frameHistory]) / float64(time.Millisecond)
		xys[i].X = float64(i)
		xys[i].Y = ms
		total += ms
	}
	if f.count == 0 {
		return xys, 0
	}
	return xys, total / float64(f.count)
}

// Performance plots the time taken to emulate each frame.
type Performance struct {
	times frameTimes
}

func (p *Performance) Title() string {
	return "Performance"
}

func (p *Performance) Run(window fyne.Window, events <-chan event.Event) error {
	frameTimeImage := image.NewRGBA(image.Rect(0, 0, 640, 360))
	c := vgimg.NewWith(vgimg.UseImage(frameTimeImage))

	frameTimeCanvas := canvas.NewRasterFromImage(frameTimeImage)
	frameTimeCanvas.ScaleMode = canvas.ImageScalePixels
	frameTimeCanvas.SetMinSize(fyne.NewSize(640, 360))

	mean := widget.NewLabel("")
	window.SetContent(container.NewVBox(frameTimeCanvas, mean))

	go poll(events, func() {
		xys, avg := p.times.points()
		if len(xys) == 0 {
			return
		}

		frameTimePlot := plot.New()
		frameTimePlot.Title.Text = "Frame Time"
		frameTimePlot.X.Label.Text = "Frame"
		frameTimePlot.Y.Label.Text = "ms"
		frameTimePlot.Y.Min = 0

		line, err := plotter.NewLine(xys)
		if err != nil {
			return
		}
		frameTimePlot.Add(line)
		frameTimePlot.Draw(draw.New(c))

		frameTimeCanvas.Refresh()
		mean.SetText(fmt.Sprintf("mean %.2f ms", avg))
	}, func(e event.Event) {
		if e.Type == event.FrameTime {
			p.times.add(e.Data.(time.Duration))
		}
	})
	return nil
}
