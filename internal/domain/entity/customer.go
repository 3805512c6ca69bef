package entity

import (
	"encoding/json"
	"time"
)

// Customer representa un cliente del negocio.
// El ID se deriva del tiempo (UUIDv7) y no cambia; borrar un cliente arrastra sus trabajos.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	Currency  string    `json:"currency,omitempty"` // ISO 4217; vacío = moneda del perfil
	CreatedAt time.Time `json:"createdAt"`
}

// FullName nombre y apellido.
func (c Customer) FullName() string {
	if c.Surname == "" {
		return c.Name
	}
	return c.Name + " " + c.Surname
}

// UnmarshalJSON acepta createdAt en cualquiera de los formatos del árbol de estado.
func (c *Customer) UnmarshalJSON(data []byte) error {
	type plain Customer
	var w struct {
		plain
		CreatedAt *looseTime `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*c = Customer(w.plain)
	c.CreatedAt = w.CreatedAt.value()
	return nil
}
