package service

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/viptalca/viptalca-backend/internal/app/repository"
	"github.com/viptalca/viptalca-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

type ExportService interface {
	// ExportClientes builds an XLSX workbook listing every cliente with
	// their RFID code and associated tiendas.
	ExportClientes() (*bytes.Buffer, string, error)
}

type exportService struct {
	userRepo       repository.UserRepository
	asociacionRepo repository.ClienteTiendaRepository
}

func NewExportService(
	userRepo repository.UserRepository,
	asociacionRepo repository.ClienteTiendaRepository,
) ExportService {
	return &exportService{
		userRepo:       userRepo,
		asociacionRepo: asociacionRepo,
	}
}

func (s *exportService) ExportClientes() (*bytes.Buffer, string, error) {
	logger.Info("Exporting clientes to XLSX")

	clientes, err := s.userRepo.ListClientes()
	if err != nil {
		logger.Error("Failed to list clientes for export", err, nil)
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Clientes"
	f.SetSheetName(f.GetSheetName(0), sheetName)

	headers := []string{"ID", "Nombre", "RUT", "Email", "RFID", "Tiendas", "Creado"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, "", err
		}
	}

	for i, cliente := range clientes {
		rowNum := i + 2

		rfid := ""
		if cliente.Rfid != nil {
			rfid = *cliente.Rfid
		}

		nombres := make([]string, 0, len(cliente.Tiendas))
		for _, tienda := range cliente.Tiendas {
			nombres = append(nombres, tienda.Nombre)
		}

		values := []interface{}{
			cliente.ID,
			cliente.Nombre,
			cliente.Rut,
			cliente.Email,
			rfid,
			strings.Join(nombres, ", "),
			cliente.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for j, value := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, rowNum)
			if err != nil {
				return nil, "", err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, "", err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		logger.Error("Failed to write XLSX buffer", err, nil)
		return nil, "", err
	}

	filename := fmt.Sprintf("clientes_%s.xlsx", time.Now().Format("20060102_150405"))

	logger.Info("Clientes exported", map[string]interface{}{
		"count":    len(clientes),
		"filename": filename,
	})

	return buf, filename, nil
}
