package entity

import "time"

// User cuenta del servidor sandbox. El cliente nunca la ve: solo recibe el token.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
