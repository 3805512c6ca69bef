package entity

import (
	"encoding/json"
	"time"
)

// Vault caja de efectivo con moneda fija desde su creación.
// Solo los cobros que la referencian mueven su saldo.
type Vault struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"createdAt"`
}

// UnmarshalJSON acepta createdAt en cualquiera de los formatos del árbol de estado.
func (v *Vault) UnmarshalJSON(data []byte) error {
	type plain Vault
	var w struct {
		plain
		CreatedAt *looseTime `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*v = Vault(w.plain)
	v.CreatedAt = w.CreatedAt.value()
	return nil
}
