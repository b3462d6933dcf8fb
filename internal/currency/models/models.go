package models

// Kind names currencies in errors, metrics and audit events.
const Kind = "Currency"

// Currency is a monetary unit with its localized designations and codes.
// Every field is required and unique across the table.
type Currency struct {
	ID            int64
	DesignationAr string
	DesignationEn string
	DesignationFr string
	CodeAr        string
	CodeLt        string
}

type CurrencyDTO struct {
	ID            int64  `json:"id"`
	DesignationAr string `json:"designationAr"`
	DesignationEn string `json:"designationEn"`
	DesignationFr string `json:"designationFr"`
	CodeAr        string `json:"codeAr"`
	CodeLt        string `json:"codeLt"`
}

func ToDTO(c Currency) CurrencyDTO {
	return CurrencyDTO{
		ID:            c.ID,
		DesignationAr: c.DesignationAr,
		DesignationEn: c.DesignationEn,
		DesignationFr: c.DesignationFr,
		CodeAr:        c.CodeAr,
		CodeLt:        c.CodeLt,
	}
}

func ToEntity(d CurrencyDTO) Currency {
	return Currency{
		ID:            d.ID,
		DesignationAr: d.DesignationAr,
		DesignationEn: d.DesignationEn,
		DesignationFr: d.DesignationFr,
		CodeAr:        d.CodeAr,
		CodeLt:        d.CodeLt,
	}
}
