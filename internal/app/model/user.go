package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string // user permission level

const (
	RoleCliente UserRole = "cliente" // regular client account
	RoleAdmin   UserRole = "admin"   // back-office administrator
)

// User is a site account. Clients are created by administrators from the
// back-office; the optional RFID code identifies the client at the door.
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                           // user ID
	Nombre       string         `gorm:"not null" json:"nombre"`                         // full name
	Rut          string         `gorm:"size:20;not null;uniqueIndex" json:"rut"`        // Chilean RUT, normalized
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`              // email, login identifier
	PasswordHash string         `gorm:"not null" json:"-"`                              // bcrypt hash
	Rfid         *string        `gorm:"size:64;uniqueIndex" json:"rfid,omitempty"`      // RFID code (nullable)
	Role         UserRole       `gorm:"type:varchar(20);default:'cliente'" json:"role"` // permission level
	CreatedAt    time.Time      `json:"created_at"`                                     // creation time
	UpdatedAt    time.Time      `json:"updated_at"`                                     // last update time
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                 // soft delete marker

	Tiendas []Tienda `gorm:"many2many:cliente_tiendas;joinForeignKey:ClienteID;joinReferences:TiendaID" json:"tiendas,omitempty"` // associated stores
}

func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user may perform admin-gated actions.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
