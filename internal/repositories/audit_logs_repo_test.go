package repositories

import (
	"context"
	"testing"
	"time"

	"clinicalfresh/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type AuditLogsRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    AuditLogsRepository
	context context.Context
}

func (suite *AuditLogsRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewAuditLogsRepo(mock)
	suite.context = context.Background()
}

func (suite *AuditLogsRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestAuditLogsRepoTestSuite(t *testing.T) {
	suite.Run(t, new(AuditLogsRepoTestSuite))
}

func (suite *AuditLogsRepoTestSuite) TestCreate_MarshalsJSONB() {
	userID := uuid.New()
	entry := &models.AuditLog{
		Tabla:       "arbol_materia_prima",
		RegistroID:  uuid.NewString(),
		Accion:      models.ActionUpdate,
		DatosNuevos: models.JSONB{"nombre": "Arroz"},
		UsuarioID:   &userID,
	}

	suite.mock.ExpectExec(`INSERT INTO auditoria`).
		WithArgs(pgxmock.AnyArg(), entry.Tabla, entry.RegistroID, entry.Accion, []byte(nil),
			[]byte(`{"nombre":"Arroz"}`), entry.UsuarioID, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, entry)
	assert.NoError(suite.T(), err)
	assert.NotEqual(suite.T(), uuid.Nil, entry.ID)
}

func (suite *AuditLogsRepoTestSuite) TestList_DefaultsWindowAndLimit() {
	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "tabla", "registro_id", "accion", "datos_anteriores", "datos_nuevos",
		"usuario_id", "created_at"}).
		AddRow(uuid.New(), "arbol_recetas", "r-1", models.ActionInsert, []byte(nil), []byte(`{"codigo":"REC-01"}`),
			(*uuid.UUID)(nil), now)

	suite.mock.ExpectQuery(`FROM auditoria\s+WHERE created_at >= \$1 ORDER BY created_at DESC LIMIT \$2`).
		WithArgs(pgxmock.AnyArg(), DefaultAuditLimit).
		WillReturnRows(rows)

	logs, err := suite.repo.List(suite.context, nil)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), logs, 1)
	assert.Equal(suite.T(), "REC-01", logs[0].DatosNuevos["codigo"])
}

func (suite *AuditLogsRepoTestSuite) TestList_WithFilters() {
	tabla := "empleados"
	accion := models.ActionDelete
	suite.mock.ExpectQuery(`WHERE created_at >= \$1 AND tabla = \$2 AND accion = \$3 ORDER BY created_at DESC LIMIT \$4`).
		WithArgs(pgxmock.AnyArg(), tabla, accion, 10).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	logs, err := suite.repo.List(suite.context, &models.AuditLogFilters{Tabla: &tabla, Accion: &accion, Limit: 10})
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), logs)
}

func (suite *AuditLogsRepoTestSuite) TestGetSummary() {
	since := time.Now().Add(-DefaultAuditWindow)
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\), COUNT\(DISTINCT usuario_id\) FROM auditoria`).
		WithArgs(since).
		WillReturnRows(pgxmock.NewRows([]string{"count", "usuarios"}).AddRow(12, 3))
	suite.mock.ExpectQuery(`SELECT tabla, COUNT\(\*\) FROM auditoria .* GROUP BY tabla`).
		WithArgs(since).
		WillReturnRows(pgxmock.NewRows([]string{"tabla", "count"}).AddRow("arbol_recetas", 12))
	suite.mock.ExpectQuery(`SELECT accion, COUNT\(\*\) FROM auditoria .* GROUP BY accion`).
		WithArgs(since).
		WillReturnRows(pgxmock.NewRows([]string{"accion", "count"}).AddRow("UPDATE", 8).AddRow("INSERT", 4))

	stats, err := suite.repo.GetSummary(suite.context, since)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 12, stats.Total)
	assert.Equal(suite.T(), 3, stats.UsuariosUnico)
	assert.Equal(suite.T(), 8, stats.PorAccion["UPDATE"])
}
