// Package shipment provides the Shipment document: outbound stock
// movements whose balance effect is gated by a Draft/Signed state
// machine.
package shipment

import (
	"context"

	"github.com/Skalersaas/warehouse/internal/core/apperror"
	"github.com/Skalersaas/warehouse/internal/core/entity"
	"github.com/Skalersaas/warehouse/internal/core/id"
	"github.com/Skalersaas/warehouse/internal/core/types"
	"github.com/Skalersaas/warehouse/internal/domain/balance"
)

// Status is the shipment lifecycle state.
type Status string

const (
	// StatusDraft: items freely editable, balance untouched, deletable.
	StatusDraft Status = "draft"
	// StatusSigned: balance decremented, document immutable until revoked.
	StatusSigned Status = "signed"
)

// Shipment represents an outbound goods document.
type Shipment struct {
	entity.Document

	// ClientID references the counterparty the goods ship to
	ClientID id.ID `db:"client_id" json:"clientId"`

	// Status gates when the document touches balance
	Status Status `db:"status" json:"status"`

	// Table part: shipped goods
	Lines []ShipmentLine `db:"-" json:"lines"`
}

// ShipmentLine represents one line of a shipment.
type ShipmentLine struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ResourceID id.ID          `db:"resource_id" json:"resourceId"`
	UnitID     id.ID          `db:"unit_id" json:"unitId"`
	Quantity   types.Quantity `db:"quantity" json:"quantity"`
}

// NewShipment creates a new shipment document in Draft.
func NewShipment(clientID id.ID) *Shipment {
	return &Shipment{
		Document: entity.NewDocument(),
		ClientID: clientID,
		Status:   StatusDraft,
		Lines:    make([]ShipmentLine, 0),
	}
}

// AddLine appends a line to the shipment.
func (s *Shipment) AddLine(resourceID, unitID id.ID, quantity types.Quantity) {
	s.Lines = append(s.Lines, ShipmentLine{
		LineID:     id.New(),
		LineNo:     len(s.Lines) + 1,
		ResourceID: resourceID,
		UnitID:     unitID,
		Quantity:   quantity,
	})
}

// Validate implements entity.Validatable.
func (s *Shipment) Validate(ctx context.Context) error {
	if err := s.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(s.ClientID) {
		return apperror.NewValidation("client is required").
			WithDetail("field", "clientId")
	}

	if len(s.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range s.Lines {
		if id.IsNil(line.ResourceID) {
			return apperror.NewValidation("resource is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if id.IsNil(line.UnitID) {
			return apperror.NewValidation("unit is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// IsSigned reports whether the shipment currently affects balance.
func (s *Shipment) IsSigned() bool {
	return s.Status == StatusSigned
}

// CanModify checks if the document can be edited. Signed documents are
// immutable until revoked back to Draft.
func (s *Shipment) CanModify() error {
	if s.IsSigned() {
		return apperror.NewBusinessRule(
			apperror.CodeDocumentSigned,
			"Cannot edit signed document. Revoke first.",
		).WithDetail("document_id", s.ID.String())
	}
	return nil
}

// CanDelete checks if the document can be deleted.
func (s *Shipment) CanDelete() error {
	if s.IsSigned() {
		return apperror.NewBusinessRule(
			apperror.CodeDocumentSigned,
			"Cannot delete signed document. Revoke first.",
		).WithDetail("document_id", s.ID.String())
	}
	return nil
}

// CanSign checks the Draft → Signed transition.
func (s *Shipment) CanSign() error {
	if s.IsSigned() {
		return apperror.NewBusinessRule(
			apperror.CodeDocumentSigned,
			"Document is already signed.",
		).WithDetail("document_id", s.ID.String())
	}
	return nil
}

// CanRevoke checks the Signed → Draft transition.
func (s *Shipment) CanRevoke() error {
	if !s.IsSigned() {
		return apperror.NewBusinessRule(
			apperror.CodeDocumentNotSigned,
			"Only signed documents can be revoked.",
		).WithDetail("document_id", s.ID.String())
	}
	return nil
}

// MarkSigned transitions the document to Signed.
func (s *Shipment) MarkSigned() {
	s.Status = StatusSigned
	s.Touch()
}

// MarkDraft transitions the document back to Draft.
func (s *Shipment) MarkDraft() {
	s.Status = StatusDraft
	s.Touch()
}

// BalanceLines converts the table part to balance engine input.
func (s *Shipment) BalanceLines() []balance.Line {
	lines := make([]balance.Line, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, balance.Line{
			ResourceID: l.ResourceID,
			UnitID:     l.UnitID,
			Quantity:   l.Quantity,
		})
	}
	return lines
}
