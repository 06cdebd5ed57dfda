// Package fem provides the analysis-domain object constructors and the
// mesh generation service the dispatcher delegates to. Constructors are
// looked up by the short kind of a "Fem::" type tag.
package fem

import (
	"fmt"

	"github.com/parcad/parcad/pkg/cad"
)

// Constructor builds an analysis-domain object in doc.
type Constructor func(doc *cad.Document, name string) (*cad.Object, error)

// constructors is keyed by short kind. MaterialCommon and AnalysisPython
// map onto differently-named factories; everything else matches its kind.
var constructors = map[string]Constructor{
	"AnalysisPython":     MakeAnalysis,
	"MaterialCommon":     MakeMaterialSolid,
	"ConstraintFixed":    MakeConstraintFixed,
	"ConstraintForce":    MakeConstraintForce,
	"ConstraintPressure": MakeConstraintPressure,
	"FemMeshGmsh":        MakeMeshGmsh,
}

// ConstructorFor returns the factory for a short type kind.
func ConstructorFor(kind string) (Constructor, bool) {
	c, ok := constructors[kind]
	return c, ok
}

// MakeAnalysis creates the analysis container object.
func MakeAnalysis(doc *cad.Document, name string) (*cad.Object, error) {
	obj, err := doc.AddObject("Fem::AnalysisPython", name)
	if err != nil {
		return nil, err
	}
	obj.AddProperty("Group", []*cad.Object{})
	return obj, nil
}

// MakeMaterialSolid creates a solid material definition.
func MakeMaterialSolid(doc *cad.Document, name string) (*cad.Object, error) {
	obj, err := doc.AddObject("Fem::MaterialCommon", name)
	if err != nil {
		return nil, err
	}
	obj.AddProperty("Material", map[string]any{})
	return obj, nil
}

// MakeConstraintFixed creates a fixed-boundary constraint.
func MakeConstraintFixed(doc *cad.Document, name string) (*cad.Object, error) {
	obj, err := doc.AddObject("Fem::ConstraintFixed", name)
	if err != nil {
		return nil, err
	}
	obj.AddProperty("References", []cad.Reference{})
	return obj, nil
}

// MakeConstraintForce creates a force-load constraint.
func MakeConstraintForce(doc *cad.Document, name string) (*cad.Object, error) {
	obj, err := doc.AddObject("Fem::ConstraintForce", name)
	if err != nil {
		return nil, err
	}
	obj.AddProperty("References", []cad.Reference{})
	obj.AddProperty("Force", 0.0)
	obj.AddProperty("Reversed", false)
	return obj, nil
}

// MakeConstraintPressure creates a pressure-load constraint.
func MakeConstraintPressure(doc *cad.Document, name string) (*cad.Object, error) {
	obj, err := doc.AddObject("Fem::ConstraintPressure", name)
	if err != nil {
		return nil, err
	}
	obj.AddProperty("References", []cad.Reference{})
	obj.AddProperty("Pressure", 0.0)
	obj.AddProperty("Reversed", false)
	return obj, nil
}

// MakeMeshGmsh creates a mesh object. Its Part reference must be set
// before GenerateMesh runs.
func MakeMeshGmsh(doc *cad.Document, name string) (*cad.Object, error) {
	obj, err := doc.AddObject("Fem::FemMeshGmsh", name)
	if err != nil {
		return nil, err
	}
	obj.AddProperty("Part", (*cad.Object)(nil))
	obj.AddProperty("ElementSizeMax", 0.0)
	obj.AddProperty("ElementSizeMin", 0.0)
	obj.AddProperty("MeshAlgorithm", 2.0)
	return obj, nil
}

// AttachToAnalysis adds obj to the named analysis container's group and
// records the back-reference.
func AttachToAnalysis(doc *cad.Document, analysisName string, obj *cad.Object) error {
	analysis := doc.Object(analysisName)
	if analysis == nil {
		return fmt.Errorf("analysis '%s' not found in document '%s'", analysisName, doc.Name())
	}
	groupVal, ok := analysis.Property("Group")
	if !ok {
		return fmt.Errorf("object '%s' is not an analysis container", analysisName)
	}
	group, _ := groupVal.([]*cad.Object)
	if err := analysis.SetProperty("Group", append(group, obj)); err != nil {
		return err
	}
	obj.SetAnalysis(analysisName)
	return nil
}
