package repositories

import (
	"context"
	"testing"

	"clinicalfresh/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type EmployeeRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    EmployeeRepository
	context context.Context
}

func (suite *EmployeeRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewEmployeeRepo(mock)
	suite.context = context.Background()
}

func (suite *EmployeeRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestEmployeeRepoTestSuite(t *testing.T) {
	suite.Run(t, new(EmployeeRepoTestSuite))
}

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func (suite *EmployeeRepoTestSuite) fullEmployee() *models.EmployeeFull {
	return &models.EmployeeFull{
		Empleado: models.Employee{
			Nombres:            "Ana",
			Apellidos:          "Gómez",
			TipoDocumento:      "CC",
			DocumentoIdentidad: "1020304050",
		},
		TalentoHumano: &models.EmployeeTalent{Eps: stringPtr("Sura")},
		SST:           &models.EmployeeSST{Restricciones: stringPtr("ninguna")},
	}
}

func (suite *EmployeeRepoTestSuite) TestCreateFull_WritesThreeTablesInOneTransaction() {
	full := suite.fullEmployee()

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`INSERT INTO empleados `).WithArgs(anyArgs(16)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`INSERT INTO empleados_talento_humano`).WithArgs(anyArgs(7)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`INSERT INTO empleados_sst`).WithArgs(anyArgs(6)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectCommit()

	err := suite.repo.CreateFull(suite.context, full)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), full.Empleado.ID, full.TalentoHumano.EmpleadoID)
	assert.Equal(suite.T(), full.Empleado.ID, full.SST.EmpleadoID)
}

func (suite *EmployeeRepoTestSuite) TestCreateFull_SkipsEmptySections() {
	full := suite.fullEmployee()
	full.TalentoHumano = nil
	full.SST = &models.EmployeeSST{}

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`INSERT INTO empleados `).WithArgs(anyArgs(16)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectCommit()

	err := suite.repo.CreateFull(suite.context, full)
	assert.NoError(suite.T(), err)
}

func (suite *EmployeeRepoTestSuite) TestCreateFull_RollsBackOnSecondInsertFailure() {
	full := suite.fullEmployee()
	pgErr := &pgconn.PgError{Code: "22007", Message: "invalid input syntax for type date"}

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`INSERT INTO empleados `).WithArgs(anyArgs(16)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectExec(`INSERT INTO empleados_talento_humano`).WithArgs(anyArgs(7)...).
		WillReturnError(pgErr)
	suite.mock.ExpectRollback()

	err := suite.repo.CreateFull(suite.context, full)
	assert.ErrorIs(suite.T(), err, pgErr)
}

func (suite *EmployeeRepoTestSuite) TestListDocuments_NewestFirst() {
	empleadoID := uuid.New()
	suite.mock.ExpectQuery(`FROM empleado_documentos\s+WHERE empleado_id = \$1\s+ORDER BY created_at DESC`).
		WithArgs(empleadoID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	docs, err := suite.repo.ListDocuments(suite.context, empleadoID)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), docs)
}

func (suite *EmployeeRepoTestSuite) TestDeleteDocument_NotFound() {
	id := uuid.New()
	suite.mock.ExpectExec(`DELETE FROM empleado_documentos WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(suite.T(), suite.repo.DeleteDocument(suite.context, id), ErrNotFound)
}
