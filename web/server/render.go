package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-sphere-raytracer/pkg/output"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// ProgressUpdate represents a single progressive update sent via SSE
type ProgressUpdate struct {
	PassNumber  int    `json:"passNumber"`
	TotalPasses int    `json:"totalPasses"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG
	Stats       Stats  `json:"stats"`
	IsComplete  bool   `json:"isComplete"`
	ElapsedMs   int64  `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels      int     `json:"totalPixels"`
	TotalSamples     int     `json:"totalSamples"`
	AverageSamples   float64 `json:"averageSamples"`
	MaxSamples       int     `json:"maxSamples"`
	NonFiniteSamples int     `json:"nonFiniteSamples"`
}

func newStats(rs renderer.RenderStats) Stats {
	return Stats{
		TotalPixels:      rs.TotalPixels,
		TotalSamples:     rs.TotalSamples,
		AverageSamples:   rs.AverageSamples,
		MaxSamples:       rs.MaxSamples,
		NonFiniteSamples: rs.NonFiniteSamples,
	}
}

// handleRender renders the whole image and returns it encoded in the requested format
func (s *Server) handleRender(c echo.Context) error {
	req, sceneObj, err := s.requestScene(c)
	if err != nil {
		return err
	}

	startTime := time.Now()
	img, stats, err := sceneObj.NewRaytracer(nil).RenderPass(c.Request().Context())
	if err != nil {
		return fmt.Errorf("render %s: %w", req.Scene, err)
	}
	log.Printf("Rendered %s %dx%d in %v (%.1f samples/pixel)",
		req.Scene, img.Bounds().Dx(), img.Bounds().Dy(), time.Since(startTime), stats.AverageSamples)

	var buf bytes.Buffer
	if err := output.Encode(&buf, img, req.Format); err != nil {
		return fmt.Errorf("encode %s: %w", req.Format, err)
	}

	c.Response().Header().Set("X-Render-Samples", strconv.Itoa(stats.TotalSamples))
	return c.Blob(http.StatusOK, req.Format.ContentType(), buf.Bytes())
}

// handleRenderStream renders progressively and streams each pass as a Server-Sent Event
func (s *Server) handleRenderStream(c echo.Context) error {
	req, sceneObj, err := s.requestScene(c)
	if err != nil {
		return err
	}

	w := c.Response()
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	consoleChan := make(chan ConsoleMessage, 100)
	webLogger := NewWebLogger(fmt.Sprintf("render-%d", time.Now().UnixNano()), consoleChan)
	events := &sseWriter{w: w, console: consoleChan}

	rt := sceneObj.NewRaytracer(webLogger)
	config := renderer.ProgressiveConfig{InitialSamples: 1, MaxPasses: req.Passes}
	startTime := time.Now()

	_, _, err = rt.RenderProgressive(c.Request().Context(), config, func(result renderer.PassResult) error {
		imageData, err := imageToBase64PNG(result.Image)
		if err != nil {
			return fmt.Errorf("failed to encode image: %w", err)
		}
		return events.send("pass", ProgressUpdate{
			PassNumber:  result.PassNumber,
			TotalPasses: req.Passes,
			ImageData:   imageData,
			Stats:       newStats(result.Stats),
			IsComplete:  result.IsLast,
			ElapsedMs:   time.Since(startTime).Milliseconds(),
		})
	})
	if err != nil {
		// Headers are already sent, so the error travels as an event
		log.Printf("Stream render failed: %v", err)
		return events.send("error", map[string]string{"error": err.Error()})
	}

	return events.send("complete", map[string]int64{"elapsedMs": time.Since(startTime).Milliseconds()})
}

// sseWriter writes Server-Sent Events from a single goroutine, flushing
// queued console messages before every event
type sseWriter struct {
	w       *echo.Response
	console <-chan ConsoleMessage
}

func (e *sseWriter) send(event string, payload interface{}) error {
	if err := e.drainConsole(); err != nil {
		return err
	}
	return e.write(event, payload)
}

func (e *sseWriter) drainConsole() error {
	for {
		select {
		case msg := <-e.console:
			if err := e.write("console", msg); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (e *sseWriter) write(event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(e.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	e.w.Flush()
	return nil
}

// imageToBase64PNG encodes an image as a base64 PNG for JSON transport
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
