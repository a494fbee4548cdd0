package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with roles, permissions and an admin user",
	Long:  `Seed the database with the baseline roles, permission tags and an administrator account for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		roles := []string{"admin", "staff", "student"}
		roleIDs := map[string]int64{}
		for _, title := range roles {
			var id int64
			row := db.Raw("SELECT role_id FROM roles WHERE title = ?", title).Row()
			if err := row.Scan(&id); err != nil {
				row = db.Raw("INSERT INTO roles (title) VALUES (?) RETURNING role_id", title).Row()
				if err := row.Scan(&id); err != nil {
					log.Fatalf("failed to insert role %s: %v", title, err)
				}
				fmt.Println("seeded role:", title)
			}
			roleIDs[title] = id
		}

		permissions := []string{
			"category.create",
			"category.read",
			"category.update",
			"category.delete",
			"category.assign",
			"complain.read",
			"complain.activity.create",
			"user.read",
			"user.update",
		}
		permissionIDs := map[string]int64{}
		for _, title := range permissions {
			var id int64
			row := db.Raw("SELECT permission_id FROM permissions WHERE title = ?", title).Row()
			if err := row.Scan(&id); err != nil {
				row = db.Raw("INSERT INTO permissions (title) VALUES (?) RETURNING permission_id", title).Row()
				if err := row.Scan(&id); err != nil {
					log.Fatalf("failed to insert permission %s: %v", title, err)
				}
				fmt.Println("seeded permission:", title)
			}
			permissionIDs[title] = id
		}

		grants := map[string][]string{
			"admin": permissions,
			"staff": {"complain.read", "complain.activity.create", "category.read"},
		}
		for role, tags := range grants {
			for _, tag := range tags {
				var exists int
				row := db.Raw("SELECT 1 FROM role_permissions WHERE role_id = ? AND permission_id = ?", roleIDs[role], permissionIDs[tag]).Row()
				if err := row.Scan(&exists); err == nil {
					continue
				}
				if err := db.Exec("INSERT INTO role_permissions (role_id, permission_id, status) VALUES (?, ?, 1)", roleIDs[role], permissionIDs[tag]).Error; err != nil {
					log.Fatalf("failed to grant %s to %s: %v", tag, role, err)
				}
			}
		}
		fmt.Println("seeded role permission grants")

		adminEmail := "admin@inquiry.local"
		var exists int
		row := db.Raw("SELECT 1 FROM users WHERE email = ?", adminEmail).Row()
		if err := row.Scan(&exists); err != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
			if err != nil {
				log.Fatalf("failed to hash admin password: %v", err)
			}
			err = db.Exec(
				"INSERT INTO users (first_name, last_name, email, password_hash, phone, role_id) VALUES (?, ?, ?, ?, ?, ?)",
				"System", "Administrator", adminEmail, string(hash), "0000000000", roleIDs["admin"],
			).Error
			if err != nil {
				log.Fatalf("failed to insert admin user: %v", err)
			}
			fmt.Println("seeded admin user:", adminEmail)
		} else {
			fmt.Println("admin user already exists")
		}
	},
}
