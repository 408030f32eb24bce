package model

import (
	"time"

	"gorm.io/gorm"
)

// MaxTiendas is the system-wide cap on live stores. The limit is enforced
// at the single insert path shared by the admin CRUD and the VIP
// confirmation flow.
const MaxTiendas = 4

// Tienda is an affiliated store. VIP stores are created exclusively through
// the confirmed-registration workflow (vip = true); every other row comes
// from the admin back-office.
type Tienda struct {
	ID        uint           `gorm:"primarykey" json:"id"`                    // store ID
	Nombre    string         `gorm:"not null" json:"nombre"`                  // store name
	Rut       string         `gorm:"size:20;not null" json:"rut"`             // Chilean RUT
	Email     string         `gorm:"size:255" json:"email,omitempty"`         // contact email
	Direccion string         `gorm:"type:text" json:"direccion,omitempty"`    // street address
	Telefono  string         `gorm:"size:30" json:"telefono,omitempty"`       // phone number
	Vip       bool           `gorm:"default:false;index" json:"vip"`          // created via VIP registration
	Activa    bool           `gorm:"default:true;index" json:"activa"`        // active flag
	CreatedAt time.Time      `json:"created_at"`                              // creation time
	UpdatedAt time.Time      `json:"updated_at"`                              // last update time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                          // soft delete marker

	Clientes []User `gorm:"many2many:cliente_tiendas;joinForeignKey:TiendaID;joinReferences:ClienteID" json:"clientes,omitempty"` // associated clients
}

func (Tienda) TableName() string {
	return "tiendas"
}

// ClienteTienda links a client account to a store.
type ClienteTienda struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	ClienteID uint `gorm:"not null;index:idx_cliente_tienda,unique" json:"cliente_id"` // client user ID
	TiendaID  uint `gorm:"not null;index:idx_cliente_tienda,unique" json:"tienda_id"`  // store ID

	Cliente User   `gorm:"foreignKey:ClienteID" json:"-"`
	Tienda  Tienda `gorm:"foreignKey:TiendaID" json:"-"`
}

func (ClienteTienda) TableName() string {
	return "cliente_tiendas"
}
