package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viptalca/viptalca-backend/internal/app/model"
	"github.com/viptalca/viptalca-backend/internal/app/repository"
	"github.com/viptalca/viptalca-backend/internal/db"
	"github.com/viptalca/viptalca-backend/pkg/util"
	"gorm.io/gorm"
)

func setupClienteServiceTest(t *testing.T) (ClienteService, *gorm.DB) {
	testDB, err := db.SetupTestDB(t)
	require.NoError(t, err)

	return NewClienteService(repository.NewUserRepository(testDB)), testDB
}

func validClienteInput() CreateClienteInput {
	return CreateClienteInput{
		Nombre:   "Juan Pérez",
		Rut:      "11.111.111-1",
		Email:    "juan@mail.com",
		Password: "secreto123",
	}
}

func TestClienteService_CreateCliente(t *testing.T) {
	clienteService, _ := setupClienteServiceTest(t)

	cliente, err := clienteService.CreateCliente(validClienteInput())
	require.NoError(t, err)
	require.NotNil(t, cliente)

	assert.Equal(t, "Juan Pérez", cliente.Nombre)
	assert.Equal(t, "11.111.111-1", cliente.Rut)
	assert.Equal(t, model.RoleCliente, cliente.Role)
	assert.Nil(t, cliente.Rfid)
	assert.True(t, util.VerifyPassword(cliente.PasswordHash, "secreto123"))
}

func TestClienteService_CreateCliente_Validation(t *testing.T) {
	clienteService, _ := setupClienteServiceTest(t)

	tests := []struct {
		name    string
		mutate  func(*CreateClienteInput)
		wantErr error
	}{
		{
			name:    "Invalid rut check digit",
			mutate:  func(in *CreateClienteInput) { in.Rut = "11.111.111-2" },
			wantErr: ErrInvalidRut,
		},
		{
			name:    "Malformed rut",
			mutate:  func(in *CreateClienteInput) { in.Rut = "abc" },
			wantErr: ErrInvalidRut,
		},
		{
			name:    "Malformed email",
			mutate:  func(in *CreateClienteInput) { in.Email = "not-an-email" },
			wantErr: ErrInvalidEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validClienteInput()
			tt.mutate(&input)

			cliente, err := clienteService.CreateCliente(input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, cliente)
		})
	}
}

func TestClienteService_CreateCliente_DuplicateEmail(t *testing.T) {
	clienteService, _ := setupClienteServiceTest(t)

	_, err := clienteService.CreateCliente(validClienteInput())
	require.NoError(t, err)

	input := validClienteInput()
	input.Rut = "22.222.222-2"
	_, err = clienteService.CreateCliente(input)
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestClienteService_Rfid(t *testing.T) {
	clienteService, _ := setupClienteServiceTest(t)

	cliente, err := clienteService.CreateCliente(validClienteInput())
	require.NoError(t, err)

	// Assign
	updated, err := clienteService.AssignRfid(cliente.ID, "RFID-0001")
	require.NoError(t, err)
	require.NotNil(t, updated.Rfid)
	assert.Equal(t, "RFID-0001", *updated.Rfid)

	// Lookup by code
	found, err := clienteService.FindByRfid("RFID-0001")
	require.NoError(t, err)
	assert.Equal(t, cliente.ID, found.ID)

	// Reassigning the same code to the same cliente is a no-op
	_, err = clienteService.AssignRfid(cliente.ID, "RFID-0001")
	assert.NoError(t, err)

	// Another cliente cannot take the code
	other := validClienteInput()
	other.Rut = "22.222.222-2"
	other.Email = "otro@mail.com"
	otherCliente, err := clienteService.CreateCliente(other)
	require.NoError(t, err)

	_, err = clienteService.AssignRfid(otherCliente.ID, "RFID-0001")
	assert.ErrorIs(t, err, ErrRfidAlreadyInUse)

	// Clear
	cleared, err := clienteService.ClearRfid(cliente.ID)
	require.NoError(t, err)
	assert.Nil(t, cleared.Rfid)

	_, err = clienteService.FindByRfid("RFID-0001")
	assert.ErrorIs(t, err, ErrClienteNotFound)
}

func TestClienteService_AdminsAreNotClientes(t *testing.T) {
	clienteService, testDB := setupClienteServiceTest(t)

	admin := createTestUser(t, testDB, "admin@viptalca.cl", "password123", model.RoleAdmin)

	_, err := clienteService.GetClienteByID(admin.ID)
	assert.ErrorIs(t, err, ErrClienteNotFound)

	clientes, err := clienteService.ListClientes()
	require.NoError(t, err)
	assert.Empty(t, clientes)
}
