package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinicalfresh/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

var treeNodeColumnNames = []string{"id", "codigo", "nombre", "descripcion", "parent_id", "nivel_actual", "tipo_rama",
	"activo", "maneja_stock", "stock_actual", "stock_minimo", "stock_maximo", "unidad_stock", "costo_promedio",
	"contenido_unidad", "unidad_contenido", "created_at", "updated_at"}

type TreeNodeRepoTestSuite struct {
	suite.Suite
	mock     pgxmock.PgxPoolIface
	repo     TreeNodeRepository
	parentID uuid.UUID
	context  context.Context
}

func (suite *TreeNodeRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewTreeNodeRepo(mock)
	suite.parentID = uuid.New()
	suite.context = context.Background()
}

func (suite *TreeNodeRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestTreeNodeRepoTestSuite(t *testing.T) {
	suite.Run(t, new(TreeNodeRepoTestSuite))
}

func (suite *TreeNodeRepoTestSuite) nodeRow(rows *pgxmock.Rows, codigo string, parentID *uuid.UUID) *pgxmock.Rows {
	now := time.Now()
	return rows.AddRow(uuid.New(), codigo, "Nodo "+codigo, (*string)(nil), parentID, models.NivelProducto,
		models.TipoRamaProduccion, true, true, float64Ptr(10), float64Ptr(2), float64Ptr(20), stringPtr("kg"),
		float64Ptr(3500), (*float64)(nil), (*string)(nil), now, now)
}

func (suite *TreeNodeRepoTestSuite) TestListChildren_OnlyActiveOrderedByCode() {
	rows := pgxmock.NewRows(treeNodeColumnNames)
	suite.nodeRow(rows, "1.1.1.1.1", &suite.parentID)
	suite.nodeRow(rows, "1.1.1.1.2", &suite.parentID)

	suite.mock.ExpectQuery(`FROM arbol_materia_prima\s+WHERE parent_id = \$1 AND activo = true\s+ORDER BY codigo\s+LIMIT \$2`).
		WithArgs(suite.parentID, DefaultPageSize).
		WillReturnRows(rows)

	nodes, err := suite.repo.ListChildren(suite.context, suite.parentID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), nodes, 2)
	assert.Equal(suite.T(), "1.1.1.1.1", nodes[0].Codigo)
	assert.Equal(suite.T(), "kg", *nodes[0].UnidadStock)
}

func (suite *TreeNodeRepoTestSuite) TestListByLevelAndBranch_Capped() {
	rows := pgxmock.NewRows(treeNodeColumnNames)
	suite.nodeRow(rows, "1.1.1.1.1", &suite.parentID)

	suite.mock.ExpectQuery(`WHERE nivel_actual = \$1 AND tipo_rama = \$2 AND activo = true\s+ORDER BY codigo\s+LIMIT \$3`).
		WithArgs(models.NivelProducto, models.TipoRamaProduccion, DefaultPageSize).
		WillReturnRows(rows)

	nodes, err := suite.repo.ListByLevelAndBranch(suite.context, models.NivelProducto, models.TipoRamaProduccion)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), nodes, 1)
}

func (suite *TreeNodeRepoTestSuite) TestListPresentations_Capped() {
	suite.mock.ExpectQuery(`WHERE parent_id = \$1 AND nivel_actual = \$2 AND activo = true\s+ORDER BY codigo\s+LIMIT \$3`).
		WithArgs(suite.parentID, models.NivelPresentacion, DefaultPageSize).
		WillReturnRows(pgxmock.NewRows(treeNodeColumnNames))

	nodes, err := suite.repo.ListPresentations(suite.context, suite.parentID)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), nodes)
}

func (suite *TreeNodeRepoTestSuite) TestSoftDelete_FlagsInactiveWithoutDeleting() {
	id := uuid.New()
	suite.mock.ExpectExec(`UPDATE arbol_materia_prima SET activo = false, updated_at = \$1 WHERE id = \$2`).
		WithArgs(pgxmock.AnyArg(), id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.SoftDelete(suite.context, id)
	assert.NoError(suite.T(), err)
}

func (suite *TreeNodeRepoTestSuite) TestSoftDelete_NotFound() {
	id := uuid.New()
	suite.mock.ExpectExec(`UPDATE arbol_materia_prima SET activo = false`).
		WithArgs(pgxmock.AnyArg(), id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.SoftDelete(suite.context, id)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *TreeNodeRepoTestSuite) TestSearch_TermAndFilters() {
	tipo := models.TipoRamaProduccion
	nivel := models.NivelProducto
	filters := &models.TreeNodeFilters{TipoRama: &tipo, NivelActual: &nivel, StockBajo: true}

	rows := pgxmock.NewRows(treeNodeColumnNames)
	suite.nodeRow(rows, "ARR-001", &suite.parentID)

	suite.mock.ExpectQuery(`WHERE activo = true AND \(nombre ILIKE \$1 OR codigo ILIKE \$1\) AND tipo_rama = \$2 AND nivel_actual = \$3 AND maneja_stock = true AND stock_actual < stock_minimo\s+ORDER BY codigo\s+LIMIT \$4`).
		WithArgs("%arr%", tipo, nivel, DefaultPageSize).
		WillReturnRows(rows)

	nodes, err := suite.repo.Search(suite.context, "arr", filters)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), nodes, 1)
}

func (suite *TreeNodeRepoTestSuite) TestSearch_FiltersOnly() {
	suite.mock.ExpectQuery(`WHERE activo = true\s+ORDER BY codigo\s+LIMIT \$1`).
		WithArgs(DefaultPageSize).
		WillReturnRows(pgxmock.NewRows(treeNodeColumnNames))

	nodes, err := suite.repo.Search(suite.context, "", nil)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), nodes)
}

func (suite *TreeNodeRepoTestSuite) TestGetByID_NotFound() {
	id := uuid.New()
	suite.mock.ExpectQuery(`FROM arbol_materia_prima WHERE id = \$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	node, err := suite.repo.GetByID(suite.context, id)
	assert.Nil(suite.T(), node)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *TreeNodeRepoTestSuite) TestCreate_SetsActiveAndTimestamps() {
	node := &models.TreeNode{
		Codigo:      "1.1.1.1.9",
		Nombre:      "Arroz blanco",
		ParentID:    &suite.parentID,
		NivelActual: models.NivelProducto,
		TipoRama:    models.TipoRamaProduccion,
		ManejaStock: true,
		UnidadStock: stringPtr("kg"),
	}

	suite.mock.ExpectExec(`INSERT INTO arbol_materia_prima`).
		WithArgs(pgxmock.AnyArg(), node.Codigo, node.Nombre, node.Descripcion, node.ParentID, node.NivelActual,
			node.TipoRama, true, true, node.StockActual, node.StockMinimo, node.StockMaximo, node.UnidadStock,
			node.CostoPromedio, node.ContenidoUnidad, node.UnidadContenido, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, node)
	assert.NoError(suite.T(), err)
	assert.NotEqual(suite.T(), uuid.Nil, node.ID)
	assert.True(suite.T(), node.Activo)
	assert.False(suite.T(), node.CreatedAt.IsZero())
}

func (suite *TreeNodeRepoTestSuite) TestCreate_DuplicateCode() {
	node := &models.TreeNode{Codigo: "DUP", Nombre: "Duplicado", NivelActual: models.NivelRaiz, TipoRama: models.TipoRamaProduccion}

	suite.mock.ExpectExec(`INSERT INTO arbol_materia_prima`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("duplicate key value violates unique constraint"))

	err := suite.repo.Create(suite.context, node)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "insert tree node")
}

func (suite *TreeNodeRepoTestSuite) TestFullTree_UsesFullTreeLimit() {
	tipo := models.TipoRamaEntregable
	suite.mock.ExpectQuery(`WHERE activo = true AND tipo_rama = \$1\s+ORDER BY nivel_actual, codigo\s+LIMIT \$2`).
		WithArgs(tipo, FullTreeLimit).
		WillReturnRows(pgxmock.NewRows(treeNodeColumnNames))

	nodes, err := suite.repo.FullTree(suite.context, &tipo)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), nodes)
}

func (suite *TreeNodeRepoTestSuite) TestCountByBranch() {
	suite.mock.ExpectQuery(`SELECT tipo_rama, COUNT\(\*\)`).
		WillReturnRows(pgxmock.NewRows([]string{"tipo_rama", "count"}).
			AddRow(models.TipoRamaDesechable, 4).
			AddRow(models.TipoRamaProduccion, 120))

	counts, err := suite.repo.CountByBranch(suite.context)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), counts, 2)
	assert.Equal(suite.T(), 120, counts[1].Total)
}

func stringPtr(s string) *string {
	return &s
}

func float64Ptr(f float64) *float64 {
	return &f
}
