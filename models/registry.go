package models

// All lists every model in parent->child order for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Account{},
		&Property{},
		&PropertyImage{},
		&Reservation{},
		&Review{},
		&Wishlist{},
	}
}
