package dto

// CreateContactRequest is the exchange-form payload submitted by a card visitor.
type CreateContactRequest struct {
	ProfileID    string  `json:"profile_id" validate:"required,uuid"`
	FullName     string  `json:"full_name" validate:"required,max=200"`
	Email        string  `json:"email" validate:"required,email,max=254"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,max=40"`
	Company      *string `json:"company,omitempty" validate:"omitempty,max=200"`
	InterestType string  `json:"interest_type" validate:"required,oneof=networking contratar_servicios podcast colaboracion oportunidades_negocio ofrecer_servicios"`
	Message      *string `json:"message,omitempty" validate:"omitempty,max=2000"`
	Source       string  `json:"source,omitempty" validate:"omitempty,oneof=qr_scan nfc_tap direct_link share"`
}

// CreateContactResponse reports the stored contact and the inline sync outcome.
type CreateContactResponse struct {
	ContactID string `json:"contact_id"`
	GHLSync   any    `json:"ghl_sync"`
}

// SyncContactRequest asks for a manual CRM sync of one contact.
type SyncContactRequest struct {
	ContactID string `json:"contact_id" validate:"required,uuid"`
}
