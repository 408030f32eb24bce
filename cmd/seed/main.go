package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/viptalca/viptalca-backend/config"
	"github.com/viptalca/viptalca-backend/internal/app/model"
	"github.com/viptalca/viptalca-backend/internal/app/repository"
	"github.com/viptalca/viptalca-backend/internal/db"
	"github.com/viptalca/viptalca-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

// Imports cliente accounts from an XLSX export.
// Expected columns: nombre, rut, email, password, rfid (header row first).
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	userRepo := repository.NewUserRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	clientes, err := readClientesFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total clientes to import: %d\n", len(clientes))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	imported := 0
	for i := range clientes {
		if err := userRepo.Create(&clientes[i]); err != nil {
			fmt.Printf("Skipping %s: %v\n", clientes[i].Email, err)
			continue
		}
		imported++
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total clientes imported: %d\n", imported)
}

func readClientesFromXLSX(filePath string) ([]model.User, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var clientes []model.User
	seenEmails := make(map[string]bool)
	skippedCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 4 {
			skippedCount++
			continue
		}

		nombre := strings.TrimSpace(row[0])
		rut := strings.TrimSpace(row[1])
		email := strings.TrimSpace(strings.ToLower(row[2]))
		password := strings.TrimSpace(row[3])
		rfid := ""
		if len(row) > 4 {
			rfid = strings.TrimSpace(row[4])
		}

		if nombre == "" || email == "" || password == "" {
			skippedCount++
			continue
		}
		if !util.IsValidRut(rut) {
			fmt.Printf("Row %d: invalid RUT %q, skipping\n", i+1, rut)
			skippedCount++
			continue
		}
		if seenEmails[email] {
			skippedCount++
			continue
		}
		seenEmails[email] = true

		hashedPassword, err := util.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password for row %d: %w", i+1, err)
		}

		cliente := model.User{
			Nombre:       nombre,
			Rut:          util.FormatRut(rut),
			Email:        email,
			PasswordHash: hashedPassword,
			Role:         model.RoleCliente,
		}
		if rfid != "" {
			cliente.Rfid = &rfid
		}

		clientes = append(clientes, cliente)
	}

	if skippedCount > 0 {
		fmt.Printf("Skipped rows: %d\n", skippedCount)
	}

	return clientes, nil
}
