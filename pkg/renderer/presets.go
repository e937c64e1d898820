package renderer

// Quality presets trade render fidelity for speed by overriding the $fn facet
// resolution and the num_steps loft interpolation count of the model.
//
//	Eval      — agent evaluation renders (fast enough for an iterative loop)
//	Preview3D — interactive STL preview for the viewer
//	PNG       — static image preview
//	Export    — final STL download
func PresetEval() Overrides {
	return Overrides{"num_steps": 50, "$fn": 60}
}

func PresetPreview3D() Overrides {
	return Overrides{"num_steps": 30, "$fn": 36}
}

func PresetPNG() Overrides {
	return Overrides{"num_steps": 100, "$fn": 60}
}

func PresetExport() Overrides {
	return Overrides{"num_steps": 100, "$fn": 90}
}
