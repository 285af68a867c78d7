package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/integrator"
	"github.com/df07/go-sphere-raytracer/pkg/material"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	SphereIndex  int                    `json:"sphereIndex"`
	MaterialType string                 `json:"materialType,omitempty"`
	Point        core.Vec3              `json:"point"`
	Normal       core.Vec3              `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// extractMaterialInfo describes a material for the inspector
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case material.Lambertian:
		properties["albedo"] = m.Albedo
		properties["color"] = hexColor(m.Albedo)
		return "lambertian", properties

	case material.Metal:
		properties["albedo"] = m.Albedo
		properties["color"] = hexColor(m.Albedo)
		properties["fuzz"] = m.Fuzz
		return "metal", properties

	default:
		return "unknown", properties
	}
}

func hexColor(c core.Vec3) string {
	return fmt.Sprintf("#%02x%02x%02x", channelByte(c.X), channelByte(c.Y), channelByte(c.Z))
}

func channelByte(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// inspectPixel casts the primary ray through the centre of pixel (x, y)
// and reports the nearest sphere it hits
func inspectPixel(sceneObj *scene.Scene, x, y int) InspectResponse {
	sc := sceneObj.SamplingConfig
	camera := renderer.NewCamera(sceneObj.CameraConfig)

	j := sc.Height - 1 - y
	u := (float64(x) + 0.5) / float64(max(sc.Width-1, 1))
	v := (float64(j) + 0.5) / float64(max(sc.Height-1, 1))
	ray := camera.GetRay(u, v)

	response := InspectResponse{SphereIndex: -1}
	closest := math.Inf(1)
	for i, sphere := range sceneObj.World.Spheres {
		hit, ok := sphere.Hit(ray, integrator.ShadowAcneEpsilon, closest)
		if !ok {
			continue
		}
		closest = hit.T
		materialType, properties := extractMaterialInfo(hit.Material)
		properties["center"] = sphere.Center
		properties["radius"] = sphere.Radius
		response = InspectResponse{
			Hit:          true,
			SphereIndex:  i,
			MaterialType: materialType,
			Point:        hit.Point,
			Normal:       hit.Normal,
			Distance:     hit.T,
			FrontFace:    hit.FrontFace,
			Properties:   properties,
		}
	}
	return response
}

// handleInspect reports what the camera sees through a single pixel
func (s *Server) handleInspect(c echo.Context) error {
	_, sceneObj, err := s.requestScene(c)
	if err != nil {
		return err
	}

	pixelX, err := strconv.Atoi(c.QueryParam("x"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid x coordinate")
	}
	pixelY, err := strconv.Atoi(c.QueryParam("y"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid y coordinate")
	}

	sc := sceneObj.SamplingConfig
	if pixelX < 0 || pixelX >= sc.Width || pixelY < 0 || pixelY >= sc.Height {
		return echo.NewHTTPError(http.StatusBadRequest, "Pixel coordinates out of bounds")
	}

	return c.JSON(http.StatusOK, inspectPixel(sceneObj, pixelX, pixelY))
}
