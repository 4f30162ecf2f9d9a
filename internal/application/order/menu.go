package order

import (
	"time"

	"github.com/jhoicas/comanda-client/internal/domain/entity"
)

// ToggleMenu abre o cierra el menú lateral. La transición dura MenuAnimation:
// closed → opening → open y open → closing → closed.
// Un cierre siempre corre hasta el final, incluso si interrumpe una apertura; una apertura
// pedida mientras el menú se cierra se ignora. El canal devuelto se cierra cuando termina
// la transición vigente.
func (c *Controller) ToggleMenu(visible bool) <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return closedChan()
	}

	switch {
	case visible && c.menu == entity.MenuClosed:
		return c.startMenu(entity.MenuOpening, entity.MenuOpen)
	case !visible && (c.menu == entity.MenuOpen || c.menu == entity.MenuOpening):
		return c.startMenu(entity.MenuClosing, entity.MenuClosed)
	}

	// sin cambio: abrir algo que ya abre/está abierto, cerrar algo que ya cierra/está cerrado,
	// o abrir durante un cierre.
	if c.menuDone != nil {
		return c.menuDone
	}
	return closedChan()
}

// MenuState estado actual del menú.
func (c *Controller) MenuState() entity.MenuState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.menu
}

// startMenu arranca una transición; debe llamarse con c.mu tomado.
func (c *Controller) startMenu(transition, final entity.MenuState) <-chan struct{} {
	c.menuGen++
	gen := c.menuGen
	if c.menuTimer != nil {
		c.menuTimer.Stop()
		c.menuTimer = nil
	}
	if c.menuDone != nil {
		// la transición interrumpida termina aquí
		close(c.menuDone)
		c.menuDone = nil
	}

	if c.menuDuration <= 0 {
		c.menu = final
		c.signal()
		return closedChan()
	}

	c.menu = transition
	done := make(chan struct{})
	c.menuDone = done
	c.menuTimer = time.AfterFunc(c.menuDuration, func() {
		c.finishMenu(gen, final)
	})
	c.signal()
	return done
}

func (c *Controller) finishMenu(gen uint64, final entity.MenuState) {
	c.mu.Lock()
	if c.closed || gen != c.menuGen {
		c.mu.Unlock()
		return
	}
	c.menu = final
	c.menuTimer = nil
	if c.menuDone != nil {
		close(c.menuDone)
		c.menuDone = nil
	}
	c.mu.Unlock()
	c.signal()
}

func closedChan() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
