package domain

import (
	"strings"
	"time"
)

// Provenance tags where a customer record originated.
type Provenance string

const (
	ProvenanceManual  Provenance = "manual"
	ProvenanceBilling Provenance = "billing"
	ProvenanceImport  Provenance = "import"
)

// Valid reports whether p is one of the known provenance tags.
func (p Provenance) Valid() bool {
	switch p {
	case ProvenanceManual, ProvenanceBilling, ProvenanceImport:
		return true
	}
	return false
}

// Customer is the identity and contact record kept by the directory.
// Timestamps are epoch milliseconds.
type Customer struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Phone       string     `json:"phone,omitempty"`
	Email       string     `json:"email,omitempty"`
	TaxID       string     `json:"taxId,omitempty"`
	Address     string     `json:"address,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   int64      `json:"createdAt"`
	UpdatedAt   int64      `json:"updatedAt"`
	CreatedFrom Provenance `json:"createdFrom"`
}

// Clone returns a copy that shares no slices with c.
func (c Customer) Clone() Customer {
	if c.Tags != nil {
		c.Tags = append([]string(nil), c.Tags...)
	}
	return c
}

// CustomerStats aggregates purchase events for one customer.
type CustomerStats struct {
	TotalPurchases    float64 `json:"totalPurchases"`
	TotalTransactions int     `json:"totalTransactions"`
	AverageOrderValue float64 `json:"averageOrderValue"`
	LastPurchaseDate  *int64  `json:"lastPurchaseDate,omitempty"`
}

// Clone returns a copy with its own LastPurchaseDate pointer.
func (s CustomerStats) Clone() CustomerStats {
	if s.LastPurchaseDate != nil {
		v := *s.LastPurchaseDate
		s.LastPurchaseDate = &v
	}
	return s
}

// CustomerWithStats is the merged read view handed to collaborators.
type CustomerWithStats struct {
	Customer
	Stats CustomerStats `json:"stats"`
}

// CustomerInput carries the fields accepted when creating a customer.
// IsActive defaults to true when nil.
type CustomerInput struct {
	Name     string
	Phone    string
	Email    string
	TaxID    string
	Address  string
	Notes    string
	Tags     []string
	IsActive *bool
}

// CustomerPatch is a partial update; nil fields are left untouched.
type CustomerPatch struct {
	Name     *string
	Phone    *string
	Email    *string
	TaxID    *string
	Address  *string
	Notes    *string
	Tags     []string
	IsActive *bool
}

// Apply merges the patch over c. Identity and timestamps are not touched.
func (p CustomerPatch) Apply(c *Customer) {
	if p.Name != nil {
		c.Name = strings.TrimSpace(*p.Name)
	}
	if p.Phone != nil {
		c.Phone = strings.TrimSpace(*p.Phone)
	}
	if p.Email != nil {
		c.Email = strings.TrimSpace(*p.Email)
	}
	if p.TaxID != nil {
		c.TaxID = strings.TrimSpace(*p.TaxID)
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
	}
	if p.Tags != nil {
		c.Tags = append([]string(nil), p.Tags...)
	}
	if p.IsActive != nil {
		c.IsActive = *p.IsActive
	}
}

// PatchFromCustomer builds a patch that overwrites every mutable field with
// the values carried by c.
func PatchFromCustomer(c Customer) CustomerPatch {
	active := c.IsActive
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return CustomerPatch{
		Name:     &c.Name,
		Phone:    &c.Phone,
		Email:    &c.Email,
		TaxID:    &c.TaxID,
		Address:  &c.Address,
		Notes:    &c.Notes,
		Tags:     tags,
		IsActive: &active,
	}
}

// ToMillis converts t to epoch milliseconds.
func ToMillis(t time.Time) int64 {
	return t.UnixMilli()
}
