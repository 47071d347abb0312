// Package fixture lee archivos JSON con cajas y usuarios para poblar un almacén
// (backend en memoria al iniciar, o postgres desde cmd/seed).
package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/cajas-api/internal/domain/entity"
)

// File contenido de un fixture.
type File struct {
	Boxes []Box  `json:"boxes"`
	Users []User `json:"users"`
}

// Box caja tal como aparece en el fixture. Active ausente equivale a true.
type Box struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Balance     decimal.Decimal `json:"balance"`
	Active      *bool           `json:"active"`
}

// User usuario tal como aparece en el fixture.
type User struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Role           string   `json:"role"`
	BoxPermissions []string `json:"box_permissions"`
}

// Sink destino de la carga.
type Sink interface {
	UpsertBox(ctx context.Context, b *entity.Box) error
	UpsertUser(ctx context.Context, u *entity.User) error
}

// Load abre y decodifica path. charset admite "utf-8" (o vacío) e "iso-8859-1"
// para exportaciones antiguas.
func Load(path, charset string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("abrir fixture: %w", err)
	}
	defer f.Close()
	return Decode(f, charset)
}

// Decode lee un fixture desde r.
func Decode(r io.Reader, charset string) (*File, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8":
	case "iso-8859-1", "iso8859-1", "latin1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return nil, fmt.Errorf("charset no soportado: %q", charset)
	}
	var out File
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decodificar fixture: %w", err)
	}
	return &out, nil
}

// Entities valida el fixture y lo convierte a entidades de dominio con fecha de alta now.
func (f *File) Entities(now time.Time) ([]entity.Box, []entity.User, error) {
	boxes := make([]entity.Box, 0, len(f.Boxes))
	known := make(map[string]struct{}, len(f.Boxes))
	for i, b := range f.Boxes {
		id := strings.TrimSpace(b.ID)
		if id == "" {
			return nil, nil, fmt.Errorf("caja %d: id vacío", i)
		}
		if _, dup := known[id]; dup {
			return nil, nil, fmt.Errorf("caja %q duplicada", id)
		}
		known[id] = struct{}{}
		active := true
		if b.Active != nil {
			active = *b.Active
		}
		boxes = append(boxes, entity.Box{
			ID:          id,
			Description: strings.TrimSpace(b.Description),
			Balance:     b.Balance,
			Active:      active,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	users := make([]entity.User, 0, len(f.Users))
	for i, u := range f.Users {
		id := strings.TrimSpace(u.ID)
		if id == "" {
			return nil, nil, fmt.Errorf("usuario %d: id vacío", i)
		}
		role, ok := entity.ParseRole(strings.ToLower(strings.TrimSpace(u.Role)))
		if !ok {
			return nil, nil, fmt.Errorf("usuario %q: rol inválido %q", id, u.Role)
		}
		users = append(users, entity.User{
			ID:             id,
			Name:           strings.TrimSpace(u.Name),
			Email:          strings.TrimSpace(u.Email),
			Role:           role,
			BoxPermissions: u.BoxPermissions,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	return boxes, users, nil
}

// Apply valida el fixture y lo escribe en sink. Devuelve cuántas cajas y usuarios cargó.
func (f *File) Apply(ctx context.Context, sink Sink) (int, int, error) {
	boxes, users, err := f.Entities(time.Now().UTC())
	if err != nil {
		return 0, 0, err
	}
	for i := range boxes {
		if err := sink.UpsertBox(ctx, &boxes[i]); err != nil {
			return 0, 0, fmt.Errorf("caja %s: %w", boxes[i].ID, err)
		}
	}
	for i := range users {
		if err := sink.UpsertUser(ctx, &users[i]); err != nil {
			return len(boxes), 0, fmt.Errorf("usuario %s: %w", users[i].ID, err)
		}
	}
	return len(boxes), len(users), nil
}
