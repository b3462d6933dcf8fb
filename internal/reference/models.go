// Package reference holds the external records other kinds point at:
// organizational structures (distribution targets) and documents (budget
// modification requests and responses). Other modules only need to know
// whether an id resolves.
package reference

const (
	StructureKind = "Structure"
	DocumentKind  = "Document"
)

type Structure struct {
	ID            int64
	Code          string
	DesignationFr string
}

type StructureDTO struct {
	ID            int64  `json:"id"`
	Code          string `json:"code"`
	DesignationFr string `json:"designationFr"`
}

type Document struct {
	ID        int64
	Reference string
	Title     string
}

type DocumentDTO struct {
	ID        int64  `json:"id"`
	Reference string `json:"reference"`
	Title     string `json:"title"`
}

func structureToDTO(s Structure) StructureDTO {
	return StructureDTO{ID: s.ID, Code: s.Code, DesignationFr: s.DesignationFr}
}

func structureToEntity(d StructureDTO) Structure {
	return Structure{ID: d.ID, Code: d.Code, DesignationFr: d.DesignationFr}
}

func documentToDTO(d Document) DocumentDTO {
	return DocumentDTO{ID: d.ID, Reference: d.Reference, Title: d.Title}
}

func documentToEntity(d DocumentDTO) Document {
	return Document{ID: d.ID, Reference: d.Reference, Title: d.Title}
}
