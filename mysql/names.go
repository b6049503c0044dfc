package mysql

import (
	"fmt"
	"strings"
)

// sanitizeTableName validates a jobs table name before it is spliced into
// SQL text, since table names cannot be bound as placeholders. Dotted
// schema-qualified names are accepted; each segment is restricted to ASCII
// letters, digits, and underscores.
func sanitizeTableName(name string) (string, error) {
	if name == "" {
		return "", ErrTableNameRequired
	}

	for _, segment := range strings.Split(name, ".") {
		if segment == "" || strings.ContainsFunc(segment, isForbiddenNameRune) {
			return "", fmt.Errorf("%w: %s", ErrInvalidTableName, name)
		}
	}

	return name, nil
}

func isForbiddenNameRune(r rune) bool {
	switch {
	case r == '_':
		return false
	case r >= '0' && r <= '9':
		return false
	case r >= 'a' && r <= 'z':
		return false
	case r >= 'A' && r <= 'Z':
		return false
	}

	return true
}
