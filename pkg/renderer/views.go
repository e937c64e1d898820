package renderer

import "fmt"

type cameraSpec struct {
	translate [3]float64
	rotate    [3]float64
	distance  float64
}

// namedViews maps view names to --camera specs. Distances assume models sized
// in millimeters around the origin; --viewall is not used for fixed views so
// multiple views of the same model stay comparable.
var namedViews = map[string]cameraSpec{
	"front":     {rotate: [3]float64{0, 0, 0}, distance: 140},
	"back":      {rotate: [3]float64{0, 0, 180}, distance: 140},
	"left":      {rotate: [3]float64{0, 0, 90}, distance: 140},
	"right":     {rotate: [3]float64{0, 0, -90}, distance: 140},
	"top":       {rotate: [3]float64{90, 0, 0}, distance: 140},
	"bottom":    {rotate: [3]float64{-90, 0, 0}, distance: 140},
	"isometric": {rotate: [3]float64{55, 0, 25}, distance: 140},
}

// ViewNames returns the supported named camera views.
func ViewNames() []string {
	names := make([]string, 0, len(namedViews))
	for name := range namedViews {
		names = append(names, name)
	}
	return names
}

// IsValidView reports whether name is a supported camera view.
func IsValidView(name string) bool {
	_, ok := namedViews[name]
	return ok
}

func cameraArgs(view string) ([]string, error) {
	spec, ok := namedViews[view]
	if !ok {
		return nil, fmt.Errorf("unknown view %q", view)
	}
	return []string{
		"--camera",
		fmt.Sprintf("%g,%g,%g,%g,%g,%g,%g",
			spec.translate[0], spec.translate[1], spec.translate[2],
			spec.rotate[0], spec.rotate[1], spec.rotate[2],
			spec.distance,
		),
	}, nil
}
