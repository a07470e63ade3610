package main

import (
	"errors"
	"log"
	"os"

	"shiftdesk-be/internal/entity"
	"shiftdesk-be/internal/model"
	"shiftdesk-be/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ensureUser returns the existing user with that email or creates it.
func ensureUser(db *gorm.DB, email, fullName, password string, role entity.UserRole) model.User {
	var user model.User
	err := db.Where("email = ?", email).First(&user).Error
	if err == nil {
		log.Printf("User '%s' already exists, skipping...", email)
		return user
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Error: Failed to look up %s: %v", email, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Error: Failed to hash password: %v", err)
	}
	user = model.User{Email: email, FullName: fullName, PasswordHash: string(hash), Role: string(role)}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("Error: Failed to create %s: %v", email, err)
	}
	log.Printf("Created user '%s'", email)
	return user
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	password := getEnv("SEED_PASSWORD", "changeme123")
	ensureUser(db, getEnv("SEED_SUPERADMIN_EMAIL", "root@shiftdesk.local"), "Super Admin", password, entity.UserRoleSuperAdmin)

	log.Println("Seeding demo organization...")

	var org model.Organization
	if err := db.Where("name = ?", "Demo Facility Services").First(&org).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("Error: Failed to look up demo organization: %v", err)
		}
		org = model.Organization{
			Name:        "Demo Facility Services",
			ChatLocale:  "multi",
			ChatPhrases: datatypes.JSON(`{"start":["punch in","timbra"],"end":["punch out"]}`),
		}
		if err := db.Create(&org).Error; err != nil {
			log.Fatalf("Error: Failed to create demo organization: %v", err)
		}

		services := []model.Service{
			{OrganizationId: org.Id, Name: "Cleaning", Description: "Offices and common areas"},
			{OrganizationId: org.Id, Name: "Maintenance", Description: "Plumbing, electrical, HVAC"},
			{OrganizationId: org.Id, Name: "Security"},
		}
		if err := db.Create(&services).Error; err != nil {
			log.Fatalf("Error: Failed to create services: %v", err)
		}
	} else {
		log.Println("Demo organization already exists, skipping services...")
	}

	admin := ensureUser(db, "admin@demo.shiftdesk.local", "Demo Admin", password, entity.UserRoleUser)
	employee := ensureUser(db, "employee@demo.shiftdesk.local", "Demo Employee", password, entity.UserRoleUser)

	memberships := []model.Membership{
		{OrganizationId: org.Id, UserId: admin.Id, Role: string(entity.MembershipRoleAdmin)},
		{OrganizationId: org.Id, UserId: employee.Id, Role: string(entity.MembershipRoleEmployee)},
	}
	for _, m := range memberships {
		err := db.Where("organization_id = ? AND user_id = ?", m.OrganizationId, m.UserId).
			FirstOrCreate(&m).Error
		if err != nil {
			log.Fatalf("Error: Failed to create membership: %v", err)
		}
	}

	log.Println("✅ Seeding completed successfully!")
}
