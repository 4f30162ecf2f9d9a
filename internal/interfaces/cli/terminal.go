package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/jhoicas/comanda-client/internal/application/ports"
)

// ErrQuit el usuario pidió salir de la aplicación.
var ErrQuit = errors.New("cli: salir")

var (
	_ ports.Notifier  = (*Terminal)(nil)
	_ ports.Confirmer = (*Terminal)(nil)
)

// Terminal entrada y salida de texto de las pantallas. Implementa Notifier y Confirmer.
type Terminal struct {
	in  *bufio.Reader
	mu  sync.Mutex
	out io.Writer
}

// NewTerminal crea una terminal sobre in/out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// Printf escribe en la salida.
func (t *Terminal) Printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, format, args...)
}

// Println escribe una línea.
func (t *Terminal) Println(args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, args...)
}

// Prompt muestra label y lee una línea sin espacios sobrantes. Fin de la entrada → ErrQuit.
func (t *Terminal) Prompt(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	t.Printf("%s: ", label)
	line, err := t.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && strings.TrimSpace(line) != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrQuit
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Notify muestra una alerta de una sola opción.
func (t *Terminal) Notify(title, message string) {
	t.Printf("\n[%s] %s\n", title, message)
}

// Confirm pregunta con dos opciones; solo "s" o "si" confirman.
func (t *Terminal) Confirm(ctx context.Context, title, message string) (bool, error) {
	t.Printf("\n[%s] %s\n", title, message)
	answer, err := t.Prompt(ctx, "Confirmar (s/N)")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "s", "si", "sí":
		return true, nil
	}
	return false, nil
}
