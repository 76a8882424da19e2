package dto

// CreateCompanyRequest body para POST /api/companies.
type CreateCompanyRequest struct {
	Name          string `json:"name"`
	TaxID         string `json:"tax_id"`
	Address       string `json:"address,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
	InvoicePrefix string `json:"invoice_prefix,omitempty"`
}

// CompanyResponse empresa en respuestas.
type CompanyResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	TaxID         string `json:"tax_id"`
	Address       string `json:"address,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
	InvoicePrefix string `json:"invoice_prefix,omitempty"`
	Status        string `json:"status"`
}
