package cad

// Snapshot serializes the object's state into JSON-safe values: vectors
// and placements become nested maps, object references become names, and
// reference lists become [name, face] pairs.
func (o *Object) Snapshot() map[string]any {
	o.rlock()
	defer o.runlock()

	props := make(map[string]any, len(o.props))
	for _, name := range o.order {
		props[name] = serializeValue(o.props[name])
	}
	view := make(map[string]any, len(o.view))
	for k, v := range o.view {
		view[k] = serializeValue(v)
	}
	snap := map[string]any{
		"Name":       o.name,
		"Type":       o.typeID,
		"Properties": props,
		"ViewObject": view,
	}
	if o.analysis != "" {
		snap["Analysis"] = o.analysis
	}
	return snap
}

func serializeValue(v any) any {
	switch val := v.(type) {
	case Vector:
		return map[string]any{"x": val.X, "y": val.Y, "z": val.Z}
	case Placement:
		return map[string]any{
			"Base": map[string]any{"x": val.Base.X, "y": val.Base.Y, "z": val.Base.Z},
			"Rotation": map[string]any{
				"Axis":  map[string]any{"x": val.Rotation.Axis.X, "y": val.Rotation.Axis.Y, "z": val.Rotation.Axis.Z},
				"Angle": val.Rotation.Angle,
			},
		}
	case Color:
		return []any{val[0], val[1], val[2], val[3]}
	case *Object:
		if val == nil {
			return nil
		}
		return val.name
	case []Reference:
		pairs := make([]any, 0, len(val))
		for _, r := range val {
			name := ""
			if r.Object != nil {
				name = r.Object.name
			}
			pairs = append(pairs, []any{name, r.Face})
		}
		return pairs
	case []*Object:
		names := make([]any, 0, len(val))
		for _, o := range val {
			if o != nil {
				names = append(names, o.name)
			}
		}
		return names
	default:
		return v
	}
}
