package entity

// MenuState estado del menú lateral de acciones de la comanda.
type MenuState int

const (
	MenuClosed MenuState = iota
	MenuOpening
	MenuOpen
	MenuClosing
)

func (s MenuState) String() string {
	switch s {
	case MenuOpening:
		return "opening"
	case MenuOpen:
		return "open"
	case MenuClosing:
		return "closing"
	default:
		return "closed"
	}
}

// Visible indica si el menú ocupa la pantalla (cualquier estado distinto de cerrado).
func (s MenuState) Visible() bool { return s != MenuClosed }
