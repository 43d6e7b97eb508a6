package bootstrap

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"stackit.dev/forum/internal/model"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.Tag{},
		&model.Question{},
		&model.Answer{},
		&model.Comment{},
		&model.Notification{},
	)
}

func SeedRoles(db *gorm.DB) error {
	defaultRoles := []model.Role{
		{Name: "admin", Description: "Super administrator"},
		{Name: "member", Description: "Registered member"},
	}

	for _, role := range defaultRoles {
		var count int64
		if err := db.Model(&model.Role{}).
			Where("name = ?", role.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&role).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func SeedTags(db *gorm.DB) error {
	defaultTags := []model.Tag{
		{Name: "go", Slug: "go", Description: "The Go programming language"},
		{Name: "python", Slug: "python", Description: "The Python programming language"},
		{Name: "javascript", Slug: "javascript", Description: "The JavaScript programming language"},
		{Name: "databases", Slug: "databases", Description: "Relational and NoSQL databases"},
		{Name: "web", Slug: "web", Description: "Web development"},
	}

	for _, tag := range defaultTags {
		var count int64
		if err := db.Model(&model.Tag{}).
			Where("LOWER(name) = ?", tag.Name).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&tag).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// SeedAdminUser creates a development login. Only called when APP_ENV is
// development; production users come from the identity provider.
func SeedAdminUser(db *gorm.DB) error {
	var adminRole model.Role
	if err := db.Where("name = ?", "admin").First(&adminRole).Error; err != nil {
		return err
	}

	var count int64
	if err := db.Model(&model.User{}).
		Where("email = ?", "admin@stackit.dev").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	password := "admin123"
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := model.User{
		Email:        "admin@stackit.dev",
		PasswordHash: string(hashedPasswordBytes),
		RoleID:       &adminRole.ID,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.Println("Admin user seeded successfully")
	return nil
}
