package entity

// SessionState estado derivado de Session.
type SessionState string

const (
	SessionBootstrapping   SessionState = "bootstrapping"
	SessionUnauthenticated SessionState = "unauthenticated"
	SessionAuthenticated   SessionState = "authenticated"
)

// Session sesión del usuario en el dispositivo.
// Token no vacío si y solo si el usuario está autenticado. Token y UserName cambian juntos.
type Session struct {
	Token     string
	UserName  string
	IsLoading bool
}

// Authenticated indica si hay token.
func (s Session) Authenticated() bool { return s.Token != "" }

// State devuelve el estado de la máquina de sesión.
func (s Session) State() SessionState {
	switch {
	case s.IsLoading:
		return SessionBootstrapping
	case s.Authenticated():
		return SessionAuthenticated
	default:
		return SessionUnauthenticated
	}
}
