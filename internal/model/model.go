package model

// All returns every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Flan{},
		&CartItem{},
		&ContactMessage{},
		&Review{},
	}
}
