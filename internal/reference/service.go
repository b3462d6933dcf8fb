package reference

import (
	"backoffice/internal/platform/crud"
	"backoffice/internal/query"
	"backoffice/internal/validation"
	stringutil "backoffice/pkg/platform/strings"
)

type StructureService struct {
	*crud.Service[Structure, StructureDTO]
}

func NewStructureService(repo query.Repository[Structure], opts ...crud.Option) *StructureService {
	s := &StructureService{}
	s.Service = crud.New(StructureKind, repo, structureSchema,
		crud.Mapper[Structure, StructureDTO]{ToDTO: structureToDTO, ToEntity: structureToEntity},
		crud.Hooks[Structure]{
			Normalize: func(st *Structure) { stringutil.TrimAll(&st.Code, &st.DesignationFr) },
			Plan: func(st Structure) *validation.Plan {
				return validation.For(StructureKind).
					Require("code", st.Code).
					Require("designationFr", st.DesignationFr).
					MaxLen("code", st.Code, validation.MaxCode).
					MaxLen("designationFr", st.DesignationFr, validation.MaxDesignation).
					Unique("code", st.Code, s.Unique("code", st.Code))
			},
			Constraints: structureConstraints,
		},
		opts...,
	)
	return s
}

type DocumentService struct {
	*crud.Service[Document, DocumentDTO]
}

func NewDocumentService(repo query.Repository[Document], opts ...crud.Option) *DocumentService {
	s := &DocumentService{}
	s.Service = crud.New(DocumentKind, repo, documentSchema,
		crud.Mapper[Document, DocumentDTO]{ToDTO: documentToDTO, ToEntity: documentToEntity},
		crud.Hooks[Document]{
			Normalize: func(d *Document) { stringutil.TrimAll(&d.Reference, &d.Title) },
			Plan: func(d Document) *validation.Plan {
				return validation.For(DocumentKind).
					Require("reference", d.Reference).
					MaxLen("reference", d.Reference, validation.MaxName).
					MaxLen("title", d.Title, validation.MaxDesignation).
					Unique("reference", d.Reference, s.Unique("reference", d.Reference))
			},
			Constraints: documentConstraints,
		},
		opts...,
	)
	return s
}
