// Package render drives an external rendering surface: lazy asynchronous
// initialization, redraws, camera framing, selection and resize.
package render

import (
	"context"

	"scatterview/internal/encode"
	"scatterview/internal/geom"
	"scatterview/internal/pointbuf"
)

// Surface creates a drawing context on a canvas. Initialize may block and may
// fail; the Controller never calls it on the control thread.
type Surface interface {
	Initialize(ctx context.Context, req InitRequest) (Handle, error)
}

// InitRequest carries the state a surface starts from. The select callbacks
// take buffer-space ids.
type InitRequest struct {
	Points         pointbuf.Buffer
	Palette        encode.Palette
	PixelRatio     float64
	Canvas         Canvas
	OnSelect       func(bufferIDs []int)
	OnDeselect     func()
	CameraTarget   [2]float64
	CameraDistance float64
}

// Handle is the control interface of an initialized surface.
type Handle interface {
	Configure(Config)
	Draw(pointbuf.Buffer)
	Select(bufferIDs []int)
	SetLassoOverride(enabled bool)
	ResizeHandler()
}

// Config is a partial configuration update; nil fields are left unchanged.
type Config struct {
	CameraTarget      *[2]float64
	CameraDistance    *float64
	MinCameraDistance *float64
	MaxCameraDistance *float64
	Palette           *encode.Palette
}

// CameraConfig is the full camera framing as a configuration update.
func CameraConfig(c geom.Camera) Config {
	return Config{
		CameraTarget:      &c.Target,
		CameraDistance:    &c.Distance,
		MinCameraDistance: &c.MinDistance,
		MaxCameraDistance: &c.MaxDistance,
	}
}

// PaletteConfig sets the active color channel palette.
func PaletteConfig(p encode.Palette) Config {
	return Config{Palette: &p}
}

// Canvas is the physical drawing area a surface renders into.
type Canvas interface {
	SetSize(width, height int)
}

// Container reports the layout size the canvas must match.
type Container interface {
	Size() (width, height int)
}
