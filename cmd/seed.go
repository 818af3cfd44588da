package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/peopleops/hr-platform/internal/roles"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			for _, table := range []string{
				"notifications", "documents", "expense_requests", "leave_requests",
				"leave_balances", "role_promotions", "employee_role_history",
				"users", "employees", "departments",
			} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		seedDepartment(db, "Engineering")
		seedDepartment(db, "People Operations")

		seedEmployee(db, "Mira", "Cole", "mira@example.com", "Engineering", roles.RoleManager)
		seedEmployee(db, "Jon", "Park", "jon@example.com", "Engineering", roles.RoleEmployee)
		seedEmployee(db, "Priya", "Shah", "priya@example.com", "People Operations", roles.RoleHR)
		seedEmployee(db, "Sam", "Reyes", "sam@example.com", "People Operations", roles.RoleAdminHR)

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		seedUser(db, "mira@example.com", string(hash), roles.RoleManager)
		seedUser(db, "jon@example.com", string(hash), roles.RoleEmployee)
		seedUser(db, "priya@example.com", string(hash), roles.RoleHR)
		seedUser(db, "sam@example.com", string(hash), roles.RoleAdminHR)

		fmt.Println("Seeding complete; all sample accounts use password:", password)
	},
}

func seedDepartment(db *gorm.DB, name string) {
	var exists int
	if err := db.Raw("SELECT 1 FROM departments WHERE name = ?", name).Row().Scan(&exists); err == nil {
		return
	}
	if err := db.Exec(
		"INSERT INTO departments (name, created_at, updated_at) VALUES (?, now(), now())",
		name).Error; err != nil {
		log.Fatalf("failed to seed department %s: %v", name, err)
	}
	fmt.Println("Seeded department:", name)
}

func seedEmployee(db *gorm.DB, firstName, lastName, email, departmentName, role string) {
	var exists int
	if err := db.Raw("SELECT 1 FROM employees WHERE email = ?", email).Row().Scan(&exists); err == nil {
		return
	}

	var departmentID int64
	if err := db.Raw("SELECT id FROM departments WHERE name = ?", departmentName).Row().Scan(&departmentID); err != nil {
		log.Fatalf("department %s not found: %v", departmentName, err)
	}

	if err := db.Exec(
		`INSERT INTO employees (first_name, last_name, email, department_id, role, status, salary_cents, hired_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, 'active', 0, now(), now(), now())`,
		firstName, lastName, email, departmentID, role).Error; err != nil {
		log.Fatalf("failed to seed employee %s: %v", email, err)
	}
	fmt.Println("Seeded employee:", email)
}

func seedUser(db *gorm.DB, email, passwordHash, role string) {
	var exists int
	if err := db.Raw("SELECT 1 FROM users WHERE email = ?", email).Row().Scan(&exists); err == nil {
		fmt.Println("user already exists:", email)
		return
	}

	var employeeID int64
	if err := db.Raw("SELECT id FROM employees WHERE email = ?", email).Row().Scan(&employeeID); err != nil {
		log.Fatalf("employee %s not found: %v", email, err)
	}

	if err := db.Exec(
		`INSERT INTO users (email, password_hash, role, employee_id, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, true, now(), now())`,
		email, passwordHash, role, employeeID).Error; err != nil {
		log.Fatalf("failed to seed user %s: %v", email, err)
	}
	fmt.Println("Seeded user:", email)
}
