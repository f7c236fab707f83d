// Command createadmin provisions a moderator account. Logins are never
// self-service, so the first admin has to be seeded from the shell.
package main

import (
	"flag"
	"log"

	"whistleline/internal/models"
	"whistleline/pkg/config"
	"whistleline/pkg/util"
)

func main() {
	name := flag.String("name", "", "display name")
	email := flag.String("email", "", "login email")
	password := flag.String("password", "", "login password")
	role := flag.String("role", "admin", "role")
	flag.Parse()

	if *name == "" || *email == "" || *password == "" {
		log.Fatal("usage: createadmin -name NAME -email EMAIL -password PASSWORD [-role ROLE]")
	}

	if err := config.Load(); err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg := config.GlobalConfig

	db, err := util.OpenDatabase(cfg.DBDriver, cfg.DSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	if err := db.AutoMigrate(&models.Admin{}); err != nil {
		log.Fatalf("migrate schema: %v", err)
	}

	admin := models.Admin{Name: *name, Email: *email, Role: *role}
	if err := admin.SetPassword(*password); err != nil {
		log.Fatalf("hash password: %v", err)
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("admin %s (%s) created with id %d", admin.Name, admin.Email, admin.ID)
}
