package impl

import (
	"ibspot/internal/domain/entity"
	"ibspot/internal/domain/repository"
)

// Document codecs between domain entities and remote documents. Decoding is
// tolerant of missing fields: absent "active" defaults to true (older roster
// documents predate the flag) and absent strings stay empty.

func userToDocument(u entity.User) map[string]any {
	return map[string]any{
		"name":   u.Name,
		"email":  u.Email,
		"avatar": u.Avatar,
		"active": u.Active,
		"role":   u.Role,
	}
}

func userFromDocument(id string, data map[string]any) entity.User {
	return entity.User{
		ID:     id,
		Name:   docString(data, "name"),
		Email:  docString(data, "email"),
		Avatar: docString(data, "avatar"),
		Active: docBool(data, "active", true),
		Role:   docString(data, "role"),
	}
}

func entryToDocument(e entity.IsinEntry) map[string]any {
	return map[string]any{
		"isin":      e.ISIN,
		"userId":    e.UserID,
		"timestamp": e.Timestamp,
		"dateStr":   e.DateStr,
	}
}

func entryFromDocument(id string, data map[string]any) entity.IsinEntry {
	return entity.IsinEntry{
		ID:        id,
		ISIN:      docString(data, "isin"),
		UserID:    docString(data, "userId"),
		Timestamp: docInt64(data, "timestamp"),
		DateStr:   docString(data, "dateStr"),
	}
}

func usersFromDocuments(docs []repository.Document) []entity.User {
	users := make([]entity.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, userFromDocument(doc.ID, doc.Data))
	}

	return users
}

func entriesFromDocuments(docs []repository.Document) []entity.IsinEntry {
	entries := make([]entity.IsinEntry, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, entryFromDocument(doc.ID, doc.Data))
	}

	return entries
}

func docString(data map[string]any, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}

	return ""
}

func docBool(data map[string]any, key string, fallback bool) bool {
	if v, ok := data[key].(bool); ok {
		return v
	}

	return fallback
}

func docInt64(data map[string]any, key string) int64 {
	switch v := data[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}
