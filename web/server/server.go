package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/df07/go-sphere-raytracer/pkg/output"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// Request limits
const (
	MaxWidth   = 1920
	MaxSamples = 1000
	MaxDepth   = 100
	MaxPasses  = 20
)

// Options configures a Server
type Options struct {
	Port    int
	Workers int   // Parallel row workers per render (0 = CPU count)
	Seed    int64 // Default seed when a request does not give one
}

// Server handles web requests for the sphere raytracer
type Server struct {
	options Options
	echo    *echo.Echo
}

// NewServer creates a new web server and registers its routes
func NewServer(options Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	s := &Server{options: options, echo: e}

	e.GET("/api/health", s.handleHealth)
	e.GET("/api/scenes", s.handleScenes)
	e.GET("/api/render", s.handleRender)
	e.GET("/api/render/stream", s.handleRenderStream)
	e.GET("/api/inspect", s.handleInspect)

	return s
}

// Handler exposes the router, e.g. for httptest
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.options.Port)
	log.Printf("Starting web server on http://localhost%s", addr)
	err := s.echo.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string        `json:"scene"`
	Width   int           `json:"width"`
	Samples int           `json:"samples"`
	Depth   int           `json:"depth"`
	Seed    int64         `json:"seed"`
	Format  output.Format `json:"format"`
	Passes  int           `json:"passes"` // Stream endpoint only
}

// HealthResponse is returned by /api/health
type HealthResponse struct {
	Status  string `json:"status"`
	Workers int    `json:"workers"`
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok", Workers: s.options.Workers})
}

// handleScenes lists the built-in scenes
func (s *Server) handleScenes(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"scenes": scene.Names()})
}

// parseRenderRequest parses and validates the query parameters shared by the render endpoints
func (s *Server) parseRenderRequest(values url.Values) (RenderRequest, error) {
	req := RenderRequest{Scene: "default", Format: output.FormatPNG}
	if name := values.Get("scene"); name != "" {
		req.Scene = name
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 400, 1, MaxWidth); err != nil {
		return req, err
	}
	if req.Samples, err = parseIntParam(values, "samples", 10, 1, MaxSamples); err != nil {
		return req, err
	}
	if req.Depth, err = parseIntParam(values, "depth", 50, 0, MaxDepth); err != nil {
		return req, err
	}
	if req.Passes, err = parseIntParam(values, "passes", 5, 1, MaxPasses); err != nil {
		return req, err
	}

	req.Seed = s.options.Seed
	if value := values.Get("seed"); value != "" {
		if req.Seed, err = strconv.ParseInt(value, 10, 64); err != nil {
			return req, fmt.Errorf("invalid seed: %s", value)
		}
	}

	if value := values.Get("format"); value != "" {
		if req.Format, err = output.ParseFormat(value); err != nil {
			return req, err
		}
	}
	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene builds the requested scene with the request's render settings
func (s *Server) createScene(req RenderRequest) (*scene.Scene, error) {
	sceneObj, err := scene.New(req.Scene)
	if err != nil {
		return nil, err
	}
	sceneObj.SetWidth(req.Width)
	sceneObj.SamplingConfig.SamplesPerPixel = req.Samples
	sceneObj.SamplingConfig.MaxDepth = req.Depth
	sceneObj.SamplingConfig.Seed = req.Seed
	sceneObj.SamplingConfig.Workers = s.options.Workers
	return sceneObj, nil
}

// requestScene parses the request and creates its scene, mapping failures to HTTP errors
func (s *Server) requestScene(c echo.Context) (RenderRequest, *scene.Scene, error) {
	req, err := s.parseRenderRequest(c.QueryParams())
	if err != nil {
		return req, nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid request: "+err.Error())
	}

	sceneObj, err := s.createScene(req)
	if errors.Is(err, scene.ErrUnknownScene) {
		return req, nil, echo.NewHTTPError(http.StatusNotFound, "Unknown scene: "+req.Scene)
	}
	if err != nil {
		return req, nil, err
	}
	return req, sceneObj, nil
}
