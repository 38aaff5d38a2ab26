// Package report renders the engine's event stream for the terminal.
package report

import (
	"fmt"
	"io"
	"log"

	"github.com/cfpulse/cfpulse/internal/engine"
	"github.com/cfpulse/cfpulse/internal/probe"
	"github.com/cfpulse/cfpulse/internal/window"
)

// Printer consumes engine events and prints transient progress lines
// plus the final labelled results.
type Printer struct {
	printer *log.Logger
	pingWin *window.Window
	latest  float64
}

func NewPrinter(printer *log.Logger) *Printer {
	return &Printer{
		printer: printer,
		pingWin: window.New(probe.LatencyWindowSize),
	}
}

// Consume reads events until the run ends. It returns nil on a
// completed or cancelled run and the probe error on an aborted one.
// Closing stop tells Consume the caller has cancelled the run.
func (p *Printer) Consume(stop <-chan struct{}, events <-chan engine.Event) error {
	out := p.printer.Writer()

	for {
		select {
		case <-stop:
			p.clearLine(out)
			p.printer.Println("Cancelled.")
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case engine.LatencyProgress:
				if ev.Sampled {
					p.latest = ev.LatestMS
					p.pingWin.Push(ev.LatestMS)
				}
				fmt.Fprintf(out, "\rRTT: %.1f ms (%d samples)    ", p.latest, p.pingWin.Len())
			case engine.LatencyComplete:
				p.clearLine(out)
				p.printer.Printf("RTT-mean: %.3f ms\n", ev.MeanMS)
				p.printer.Printf("RTT-jitter: %.3f ms\n", ev.JitterMS)
			case engine.DownloadProgress:
				p.progressLine(out, "Downlink", ev.Transferred, ev.Total, ev.Window)
			case engine.DownloadComplete:
				p.clearLine(out)
				p.printer.Printf("Downlink-avg: %.3f Mbps\n", ev.AverageMbps)
			case engine.UploadProgress:
				p.progressLine(out, "Uplink", ev.Transferred, ev.Total, ev.Window)
			case engine.UploadComplete:
				p.clearLine(out)
				p.printer.Printf("Uplink-avg: %.3f Mbps\n", ev.AverageMbps)
				return nil
			case engine.RunError:
				p.clearLine(out)
				return ev.Err
			}
		}
	}
}

func (p *Printer) progressLine(out io.Writer, label string, transferred, total int64, win []float64) {
	percent := float64(0)
	if total > 0 {
		percent = 100 * float64(transferred) / float64(total)
	}
	current := float64(0)
	if len(win) > 0 {
		current = win[len(win)-1]
	}
	fmt.Fprintf(out, "\r%s: %5.1f%% | %.1f Mbps    ", label, percent, current)
}

func (p *Printer) clearLine(out io.Writer) {
	fmt.Fprint(out, "\r\x1b[2K")
}
