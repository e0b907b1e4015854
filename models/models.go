package models

// All liệt kê các model cần AutoMigrate
func All() []interface{} {
	return []interface{}{&User{}, &Court{}, &Review{}, &Vote{}}
}
