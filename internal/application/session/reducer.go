package session

import "github.com/jhoicas/comanda-client/internal/domain/entity"

type actionKind int

const (
	actionRetrieveToken actionKind = iota
	actionLogin
	actionLogout
	actionRegister
)

type action struct {
	kind     actionKind
	token    string
	userName string
}

// reduce produce siempre una sesión completa; token y usuario cambian juntos.
func reduce(prev entity.Session, a action) entity.Session {
	switch a.kind {
	case actionRetrieveToken:
		// Un LOGIN/LOGOUT anterior al arranque ya resolvió la sesión.
		if !prev.IsLoading {
			return prev
		}
		return entity.Session{Token: a.token, UserName: prev.UserName, IsLoading: false}
	case actionLogin, actionRegister:
		return entity.Session{Token: a.token, UserName: a.userName, IsLoading: false}
	case actionLogout:
		return entity.Session{}
	default:
		return prev
	}
}
