package view

import "github.com/parcad/parcad/pkg/cad"

// SheetView is a tabular view of a document, like a spreadsheet or
// drawing page. It deliberately does not implement ImageExporter:
// screenshot capture must detect the missing capability and degrade.
type SheetView struct {
	doc *cad.Document
}

// NewSheetView creates a sheet view on doc.
func NewSheetView(doc *cad.Document) *SheetView {
	return &SheetView{doc: doc}
}

// TypeName identifies the view kind.
func (v *SheetView) TypeName() string { return "SheetView" }

// Document returns the viewed document.
func (v *SheetView) Document() *cad.Document { return v.doc }
