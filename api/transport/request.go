package transport

import (
	"github.com/shopspring/decimal"

	"github.com/fastygo/custdir/domain"
)

// CustomerCreateRequest is the body accepted by POST /api/v1/customers.
type CustomerCreateRequest struct {
	Name        string   `json:"name" validate:"required"`
	Phone       string   `json:"phone" validate:"omitempty,max=32"`
	Email       string   `json:"email" validate:"omitempty,email"`
	TaxID       string   `json:"taxId" validate:"omitempty,max=32"`
	Address     string   `json:"address"`
	Notes       string   `json:"notes"`
	Tags        []string `json:"tags"`
	IsActive    *bool    `json:"isActive"`
	CreatedFrom string   `json:"createdFrom" validate:"omitempty,oneof=manual billing import"`
}

func (r CustomerCreateRequest) Input() domain.CustomerInput {
	return domain.CustomerInput{
		Name:     r.Name,
		Phone:    r.Phone,
		Email:    r.Email,
		TaxID:    r.TaxID,
		Address:  r.Address,
		Notes:    r.Notes,
		Tags:     r.Tags,
		IsActive: r.IsActive,
	}
}

func (r CustomerCreateRequest) Provenance() domain.Provenance {
	if r.CreatedFrom == "" {
		return domain.ProvenanceManual
	}
	return domain.Provenance(r.CreatedFrom)
}

// CustomerUpdateRequest is a partial update: absent fields keep their value,
// an empty string clears an optional field.
type CustomerUpdateRequest struct {
	Name     *string  `json:"name" validate:"omitnil,min=1"`
	Phone    *string  `json:"phone" validate:"omitnil,max=32"`
	Email    *string  `json:"email" validate:"omitnil,omitempty,email"`
	TaxID    *string  `json:"taxId" validate:"omitnil,max=32"`
	Address  *string  `json:"address"`
	Notes    *string  `json:"notes"`
	Tags     []string `json:"tags"`
	IsActive *bool    `json:"isActive"`
}

func (r CustomerUpdateRequest) Patch() domain.CustomerPatch {
	return domain.CustomerPatch{
		Name:     r.Name,
		Phone:    r.Phone,
		Email:    r.Email,
		TaxID:    r.TaxID,
		Address:  r.Address,
		Notes:    r.Notes,
		Tags:     r.Tags,
		IsActive: r.IsActive,
	}
}

// PurchaseRequest records a completed sale against a customer.
type PurchaseRequest struct {
	Amount decimal.Decimal `json:"amount"`
}
