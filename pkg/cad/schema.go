package cad

// Property schemas for the shape types the bridge is commonly asked to
// create. The host application defines these; anything unknown still gets
// a Placement so it can be positioned.
var typeSchemas = map[string]map[string]any{
	"Part::Box": {
		"Length": 10.0,
		"Width":  10.0,
		"Height": 10.0,
	},
	"Part::Cylinder": {
		"Radius": 2.0,
		"Height": 10.0,
		"Angle":  360.0,
	},
	"Part::Sphere": {
		"Radius": 5.0,
	},
	"Part::Cone": {
		"Radius1": 2.0,
		"Radius2": 4.0,
		"Height":  10.0,
	},
	"Part::Torus": {
		"Radius1": 10.0,
		"Radius2": 2.0,
	},
	"Part::Cut": {
		"Base": (*Object)(nil),
		"Tool": (*Object)(nil),
	},
	"Part::Fuse": {
		"Base": (*Object)(nil),
		"Tool": (*Object)(nil),
	},
	"Part::Common": {
		"Base": (*Object)(nil),
		"Tool": (*Object)(nil),
	},
	"Part::Extrusion": {
		"Base": (*Object)(nil),
		"Dir":  Vector{0, 0, 1},
	},
	"Draft::Circle": {
		"Radius": 5.0,
	},
	"Draft::Rectangle": {
		"Length": 10.0,
		"Height": 10.0,
	},
	"PartDesign::Body": {},
	"PartDesign::Pad": {
		"Profile": (*Object)(nil),
		"Length":  10.0,
	},
	"PartDesign::Revolution": {
		"Profile": (*Object)(nil),
		"Angle":   360.0,
	},
}

func declareSchema(o *Object) {
	if schema, ok := typeSchemas[o.typeID]; ok {
		// Dimensional properties first, in a fixed order where it matters.
		for _, name := range schemaOrder(o.typeID) {
			o.declare(name, schema[name])
		}
	}
	o.declare("Placement", Placement{Rotation: Rotation{Axis: Vector{Z: 1}}})
	o.declare("Label", o.name)
}

// schemaOrder returns a deterministic declaration order for a type's
// schema properties.
var schemaOrders = map[string][]string{
	"Part::Box":              {"Length", "Width", "Height"},
	"Part::Cylinder":         {"Radius", "Height", "Angle"},
	"Part::Sphere":           {"Radius"},
	"Part::Cone":             {"Radius1", "Radius2", "Height"},
	"Part::Torus":            {"Radius1", "Radius2"},
	"Part::Cut":              {"Base", "Tool"},
	"Part::Fuse":             {"Base", "Tool"},
	"Part::Common":           {"Base", "Tool"},
	"Part::Extrusion":        {"Base", "Dir"},
	"Draft::Circle":          {"Radius"},
	"Draft::Rectangle":       {"Length", "Height"},
	"PartDesign::Body":       {},
	"PartDesign::Pad":        {"Profile", "Length"},
	"PartDesign::Revolution": {"Profile", "Angle"},
}

func schemaOrder(typeID string) []string {
	return schemaOrders[typeID]
}
