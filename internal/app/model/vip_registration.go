package model

import (
	"time"
)

// VipRegistrationExpiry is the validity window of a confirmation link.
const VipRegistrationExpiry = 48 * time.Hour

// Registration states derived from confirmed_at/expires_at. The state is
// never stored; it is computed at read time, and confirmed takes precedence
// over expired.
const (
	VipStatusPendiente  = "pendiente"
	VipStatusExpirada   = "expirada"
	VipStatusConfirmada = "confirmada"
)

// VipStoreRegistration is a pending request to create a VIP store, awaiting
// confirmation through the token link emailed to the registrant.
type VipStoreRegistration struct {
	ID            uint       `gorm:"primarykey" json:"id"`                      // registration ID
	Token         string     `gorm:"size:64;not null;uniqueIndex" json:"-"`     // confirmation token (never exposed)
	Nombre        string     `gorm:"not null" json:"nombre"`                    // prospective store name
	Rut           string     `gorm:"size:20;not null" json:"rut"`               // Chilean RUT
	Email         string     `gorm:"size:255;not null" json:"email"`            // recipient of the confirmation link
	Direccion     string     `gorm:"type:text" json:"direccion,omitempty"`      // street address
	Telefono      string     `gorm:"size:30" json:"telefono,omitempty"`         // phone number
	Observaciones string     `gorm:"type:text" json:"observaciones,omitempty"`  // free-form notes
	CreatedAt     time.Time  `json:"created_at"`                                // creation time, immutable
	ExpiresAt     time.Time  `gorm:"not null" json:"expires_at"`                // created_at + 48h, immutable
	ConfirmedAt   *time.Time `json:"confirmed_at,omitempty"`                    // first-write-wins confirmation mark
}

func (VipStoreRegistration) TableName() string {
	return "vip_store_registrations"
}

// Status derives the registration state at the given instant. A confirmed
// registration reports confirmed even when its expiry has since elapsed.
func (r *VipStoreRegistration) Status(now time.Time) string {
	if r.ConfirmedAt != nil {
		return VipStatusConfirmada
	}
	if now.After(r.ExpiresAt) {
		return VipStatusExpirada
	}
	return VipStatusPendiente
}
