package entity

// Actor quién ejecuta una operación. Se construye en el middleware de auth a partir
// del JWT y se pasa explícitamente a cada caso de uso.
type Actor struct {
	Role      string
	AccountID string
}

// IsAdmin informa si el actor es administrador.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// IsCompany informa si el actor es una cuenta de empresa.
func (a Actor) IsCompany() bool { return a.Role == RoleCompany }
