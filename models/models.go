package models

// All lists every model for auto-migration, parents first.
func All() []any {
	return []any{&User{}, &Topic{}, &Room{}, &Message{}}
}
