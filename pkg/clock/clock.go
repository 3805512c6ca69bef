// Package clock aísla la fuente de tiempo para que el motor contable sea
// determinista en pruebas (las duraciones de cronómetros abiertos dependen de "ahora").
package clock

import "time"

// Clock devuelve el instante actual.
type Clock interface {
	Now() time.Time
}

// System usa el reloj del sistema.
type System struct{}

// Now implementa Clock.
func (System) Now() time.Time { return time.Now() }

// Fixed devuelve siempre el mismo instante.
type Fixed struct {
	At time.Time
}

// Now implementa Clock.
func (f Fixed) Now() time.Time { return f.At }

// Func adapta una función a Clock.
type Func func() time.Time

// Now implementa Clock.
func (f Func) Now() time.Time { return f() }
