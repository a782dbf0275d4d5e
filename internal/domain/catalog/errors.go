package catalog

import (
	"strings"

	"github.com/rotisserie/eris"
)

var (
	// ErrNotFound indicates the addressed platform or game does not exist.
	ErrNotFound = eris.New("resource not found")
	// ErrPlatformExists indicates a platform with the same name is already stored.
	ErrPlatformExists = eris.New("a platform of this name already exists")
	// ErrGameExists indicates a game with the same name and platform is already stored.
	ErrGameExists = eris.New("a game of this name already exists")
	// ErrUnknownPlatform indicates a game references a platform slug nobody owns.
	ErrUnknownPlatform = eris.New("this platform does not exist")
	// ErrEmptySlug indicates a name produced no usable slug characters.
	ErrEmptySlug = eris.New("name must contain at least one letter or digit")
)

// MissingFieldsError lists required input fields that were absent or blank.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

// Field pairs a required input field name with its submitted value.
type Field struct {
	Name  string
	Value string
}

// RequireFields returns a *MissingFieldsError naming every blank field, in argument order,
// or nil when all are present.
func RequireFields(fields ...Field) error {
	var missing []string
	for _, field := range fields {
		if strings.TrimSpace(field.Value) == "" {
			missing = append(missing, field.Name)
		}
	}

	if len(missing) == 0 {
		return nil
	}

	return &MissingFieldsError{Fields: missing}
}
