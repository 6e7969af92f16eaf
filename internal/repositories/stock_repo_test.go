package repositories

import (
	"context"
	"errors"
	"testing"

	"clinicalfresh/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type StockRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    StockRepository
	context context.Context
}

func (suite *StockRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewStockRepo(mock)
	suite.context = context.Background()
}

func (suite *StockRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestStockRepoTestSuite(t *testing.T) {
	suite.Run(t, new(StockRepoTestSuite))
}

func (suite *StockRepoTestSuite) TestAdjust_CallsProcedure() {
	id := uuid.New()
	suite.mock.ExpectQuery(`SELECT actualizar_stock\(p_stock_id => \$1, p_cantidad => \$2, p_operacion => \$3\)`).
		WithArgs(id, 5.0, "decrementar").
		WillReturnRows(pgxmock.NewRows([]string{"actualizar_stock"}).AddRow(float64Ptr(15)))

	nuevo, err := suite.repo.Adjust(suite.context, id, 5, models.StockDecrement)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 15.0, *nuevo)
}

func (suite *StockRepoTestSuite) TestAdjust_ProcedureError() {
	id := uuid.New()
	suite.mock.ExpectQuery(`SELECT actualizar_stock`).
		WithArgs(id, 500.0, "decrementar").
		WillReturnError(errors.New("stock insuficiente"))

	_, err := suite.repo.Adjust(suite.context, id, 500, models.StockDecrement)
	assert.ErrorContains(suite.T(), err, "stock insuficiente")
}

func (suite *StockRepoTestSuite) TestLowStock_CriticalAndLow() {
	rows := pgxmock.NewRows([]string{"id", "codigo", "nombre", "stock_actual", "stock_minimo", "stock_maximo",
		"unidad_stock", "estado_stock"}).
		AddRow(uuid.New(), "1.1.1.1.1", "Arroz", 1.0, 5.0, 20.0, "kg", models.StockStateCritical)

	suite.mock.ExpectQuery(`FROM vista_stock_alertas\s+WHERE estado_stock IN \(\$1, \$2\)`).
		WithArgs(models.StockStateCritical, models.StockStateLow).
		WillReturnRows(rows)

	alerts, err := suite.repo.LowStock(suite.context)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), alerts, 1)
	assert.Equal(suite.T(), models.StockStateCritical, alerts[0].EstadoStock)
}

func (suite *StockRepoTestSuite) TestInventoryValue() {
	suite.mock.ExpectQuery(`SUM\(COALESCE\(stock_actual, 0\) \* COALESCE\(costo_promedio, 0\)\)`).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(1250000.5))

	total, err := suite.repo.InventoryValue(suite.context)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1250000.5, total)
}
