package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinicalfresh/internal/models"
	"clinicalfresh/testhelpers"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type RecipeServiceTestSuite struct {
	suite.Suite
	repo    *testhelpers.MockRecipeRepository
	audit   *mockAuditLogsService
	service *recipeService
	ctx     context.Context
}

func (suite *RecipeServiceTestSuite) SetupTest() {
	suite.repo = &testhelpers.MockRecipeRepository{}
	suite.audit = &mockAuditLogsService{}
	suite.service = NewRecipeService(suite.repo, suite.audit).(*recipeService)
	suite.service.now = func() time.Time { return time.UnixMilli(1718000012345) }
	suite.ctx = context.Background()
}

func (suite *RecipeServiceTestSuite) TestSearch_ShortTermListsByLevel() {
	nivel := models.NivelRecetaEstandar
	suite.repo.On("Search", suite.ctx, "", &nivel).Return([]*models.Recipe{}, nil)

	_, err := suite.service.Search(suite.ctx, "a", &nivel)

	suite.NoError(err)
	suite.repo.AssertExpectations(suite.T())
}

func (suite *RecipeServiceTestSuite) TestSearch_InvalidLevel() {
	nivel := 4
	_, err := suite.service.Search(suite.ctx, "sopa", &nivel)
	suite.ErrorIs(err, ErrInvalidRecipe)
}

func (suite *RecipeServiceTestSuite) TestCreate_RequiresParentBelowConnector() {
	_, err := suite.service.Create(suite.ctx, &models.Recipe{Codigo: "R", Nombre: "Sopa", NivelActual: models.NivelRecetaEstandar})

	suite.ErrorIs(err, ErrInvalidRecipe)
	suite.repo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *RecipeServiceTestSuite) TestCreate_Success() {
	recipe := &models.Recipe{ID: uuid.New(), Codigo: " C-01 ", Nombre: "Almuerzo", NivelActual: models.NivelConector}
	suite.repo.On("Create", suite.ctx, recipe).Return(nil)
	suite.audit.On("LogEntityCreate", suite.ctx, recipeTable, recipe.ID.String(), recipe).Return()

	created, err := suite.service.Create(suite.ctx, recipe)

	suite.Require().NoError(err)
	suite.Equal("C-01", created.Codigo)
	suite.audit.AssertExpectations(suite.T())
}

func (suite *RecipeServiceTestSuite) TestDuplicate_UsesVariantCode() {
	original := &models.Recipe{ID: uuid.New(), Codigo: "R-05", Nombre: "Lasaña"}
	copied := &models.Recipe{ID: uuid.New(), Codigo: "R-05.V2345", Nombre: "Lasaña (copia)"}
	suite.repo.On("GetByID", suite.ctx, original.ID).Return(original, nil)
	suite.repo.On("Duplicate", suite.ctx, original, "R-05.V2345", "Lasaña (copia)").Return(copied, nil)
	suite.audit.On("LogEntityCreate", suite.ctx, recipeTable, copied.ID.String(), copied).Return()

	out, err := suite.service.Duplicate(suite.ctx, original.ID, "  ")

	suite.Require().NoError(err)
	suite.Equal(copied, out)
	suite.repo.AssertExpectations(suite.T())
}

func (suite *RecipeServiceTestSuite) TestDuplicate_TransactionFailure() {
	original := &models.Recipe{ID: uuid.New(), Codigo: "R-06", Nombre: "Pasta"}
	suite.repo.On("GetByID", suite.ctx, original.ID).Return(original, nil)
	suite.repo.On("Duplicate", suite.ctx, original, mock.Anything, "Pasta light").Return(nil, errors.New("copy ingredients: reset"))

	out, err := suite.service.Duplicate(suite.ctx, original.ID, "Pasta light")

	suite.Nil(out)
	suite.ErrorContains(err, "duplicate recipe R-06")
	suite.audit.AssertNotCalled(suite.T(), "LogEntityCreate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RecipeServiceTestSuite) TestAddIngredient_Validates() {
	_, err := suite.service.AddIngredient(suite.ctx, &models.RecipeIngredient{
		RecetaID: uuid.New(), MateriaPrimaID: uuid.New(), CantidadRequerida: 0, UnidadMedida: "kg",
	})
	suite.ErrorIs(err, ErrInvalidRecipe)

	_, err = suite.service.AddIngredient(suite.ctx, &models.RecipeIngredient{
		RecetaID: uuid.New(), MateriaPrimaID: uuid.New(), CantidadRequerida: 1, UnidadMedida: "taza",
	})
	suite.ErrorIs(err, ErrInvalidRecipe)
	suite.repo.AssertNotCalled(suite.T(), "AddIngredient", mock.Anything, mock.Anything)
}

func (suite *RecipeServiceTestSuite) TestRemoveIngredient() {
	id := uuid.New()
	suite.repo.On("RemoveIngredient", suite.ctx, id).Return(nil)
	suite.audit.On("LogEntityDelete", suite.ctx, ingredientTable, id.String(), nil).Return()

	suite.NoError(suite.service.RemoveIngredient(suite.ctx, id))
	suite.audit.AssertExpectations(suite.T())
}

func TestRecipeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RecipeServiceTestSuite))
}

func TestVariantCode(t *testing.T) {
	assert.Equal(t, "R-01.V0042", variantCode("R-01", time.UnixMilli(1700000000042)))
}
