package constants

const (
	DbField    = "db"
	AdminField = "admin"
)
