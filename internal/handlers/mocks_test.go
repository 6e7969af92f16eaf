package handlers

import (
	"context"

	"clinicalfresh/internal/jobs/background"
	"clinicalfresh/internal/models"
	"clinicalfresh/internal/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/xuri/excelize/v2"
)

var (
	_ services.TreeService         = (*mockTreeService)(nil)
	_ services.RecipeCostService   = (*mockRecipeCostService)(nil)
	_ services.EmployeeService     = (*mockEmployeeService)(nil)
	_ services.NotificationService = (*mockNotificationService)(nil)
	_ JobRunner                    = (*mockJobRunner)(nil)
)

func nodesOf(args mock.Arguments) ([]*models.TreeNode, error) {
	if v := args.Get(0); v != nil {
		return v.([]*models.TreeNode), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockTreeService struct {
	mock.Mock
}

func (m *mockTreeService) GetChildren(ctx context.Context, parentID uuid.UUID) ([]*models.TreeNode, error) {
	return nodesOf(m.Called(ctx, parentID))
}

func (m *mockTreeService) GetByLevelAndBranch(ctx context.Context, nivel int, tipoRama models.TipoRama) ([]*models.TreeNode, error) {
	return nodesOf(m.Called(ctx, nivel, tipoRama))
}

func (m *mockTreeService) GetByID(ctx context.Context, id uuid.UUID) (*models.TreeNode, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*models.TreeNode), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTreeService) GetByCode(ctx context.Context, codigo string) (*models.TreeNode, error) {
	args := m.Called(ctx, codigo)
	if v := args.Get(0); v != nil {
		return v.(*models.TreeNode), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTreeService) Search(ctx context.Context, term string, filters *models.TreeNodeFilters) ([]*models.TreeNode, error) {
	return nodesOf(m.Called(ctx, term, filters))
}

func (m *mockTreeService) GetPresentations(ctx context.Context, productID uuid.UUID) ([]*models.TreeNode, error) {
	return nodesOf(m.Called(ctx, productID))
}

func (m *mockTreeService) GetStock(ctx context.Context, productID uuid.UUID) (*models.StockInfo, error) {
	args := m.Called(ctx, productID)
	if v := args.Get(0); v != nil {
		return v.(*models.StockInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTreeService) GetFullTree(ctx context.Context, tipoRama *models.TipoRama) ([]*models.TreeNode, error) {
	return nodesOf(m.Called(ctx, tipoRama))
}

func (m *mockTreeService) GetLevel3Categories(ctx context.Context) ([]*models.TreeNode, error) {
	return nodesOf(m.Called(ctx))
}

func (m *mockTreeService) CountByBranch(ctx context.Context) ([]models.BranchCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.BranchCount), args.Error(1)
}

func (m *mockTreeService) GetPresentationWithProduct(ctx context.Context, presentationID uuid.UUID) (*models.PresentationWithProduct, error) {
	args := m.Called(ctx, presentationID)
	if v := args.Get(0); v != nil {
		return v.(*models.PresentationWithProduct), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTreeService) SearchPresentationsForSupplier(ctx context.Context, supplierID uuid.UUID, term string) ([]*models.TreeNode, error) {
	return nodesOf(m.Called(ctx, supplierID, term))
}

func (m *mockTreeService) Create(ctx context.Context, node *models.TreeNode) (*models.TreeNode, *models.ValidationResult, error) {
	args := m.Called(ctx, node)
	n, _ := args.Get(0).(*models.TreeNode)
	res, _ := args.Get(1).(*models.ValidationResult)
	return n, res, args.Error(2)
}

func (m *mockTreeService) Update(ctx context.Context, id uuid.UUID, node *models.TreeNode) (*models.TreeNode, *models.ValidationResult, error) {
	args := m.Called(ctx, id, node)
	n, _ := args.Get(0).(*models.TreeNode)
	res, _ := args.Get(1).(*models.ValidationResult)
	return n, res, args.Error(2)
}

func (m *mockTreeService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockTreeService) Validate(ctx context.Context, node *models.TreeNode) (*models.ValidationResult, error) {
	args := m.Called(ctx, node)
	res, _ := args.Get(0).(*models.ValidationResult)
	return res, args.Error(1)
}

func (m *mockTreeService) ValidateStockUnit(unit string) bool {
	return m.Called(unit).Bool(0)
}

func (m *mockTreeService) ValidatePresentationContent(ctx context.Context, parentID uuid.UUID, unidadContenido string) (*models.ValidationResult, error) {
	args := m.Called(ctx, parentID, unidadContenido)
	res, _ := args.Get(0).(*models.ValidationResult)
	return res, args.Error(1)
}

type mockRecipeCostService struct {
	mock.Mock
}

func (m *mockRecipeCostService) Breakdown(ctx context.Context, recipeID uuid.UUID) (*models.CostBreakdown, error) {
	args := m.Called(ctx, recipeID)
	b, _ := args.Get(0).(*models.CostBreakdown)
	return b, args.Error(1)
}

func (m *mockRecipeCostService) TopCostly(ctx context.Context, recipeID uuid.UUID, n int) ([]models.IngredientCostShare, error) {
	args := m.Called(ctx, recipeID, n)
	v, _ := args.Get(0).([]models.IngredientCostShare)
	return v, args.Error(1)
}

func (m *mockRecipeCostService) IngredientPriceImpact(ctx context.Context, recipeID, materiaPrimaID uuid.UUID, newPrice decimal.Decimal) (*models.PriceImpact, error) {
	args := m.Called(ctx, recipeID, materiaPrimaID, newPrice)
	v, _ := args.Get(0).(*models.PriceImpact)
	return v, args.Error(1)
}

func (m *mockRecipeCostService) PriceImpact(ctx context.Context, materiaPrimaID uuid.UUID, newPrice decimal.Decimal) ([]*models.PriceImpact, error) {
	args := m.Called(ctx, materiaPrimaID, newPrice)
	v, _ := args.Get(0).([]*models.PriceImpact)
	return v, args.Error(1)
}

func (m *mockRecipeCostService) Compare(ctx context.Context, recipeIDs []uuid.UUID) ([]models.RecipeComparison, error) {
	args := m.Called(ctx, recipeIDs)
	v, _ := args.Get(0).([]models.RecipeComparison)
	return v, args.Error(1)
}

func (m *mockRecipeCostService) CostHistory(ctx context.Context, recipeID uuid.UUID, months int) (map[uuid.UUID][]*models.PriceHistoryEntry, error) {
	args := m.Called(ctx, recipeID, months)
	v, _ := args.Get(0).(map[uuid.UUID][]*models.PriceHistoryEntry)
	return v, args.Error(1)
}

func (m *mockRecipeCostService) RecipesWithCosts(ctx context.Context, sortByCost bool) ([]models.RecipeWithCost, error) {
	args := m.Called(ctx, sortByCost)
	v, _ := args.Get(0).([]models.RecipeWithCost)
	return v, args.Error(1)
}

func (m *mockRecipeCostService) RecalculateAll(ctx context.Context) (*models.RecalculationResult, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).(*models.RecalculationResult)
	return v, args.Error(1)
}

func (m *mockRecipeCostService) RecalculatePending(ctx context.Context) (*models.RecalculationResult, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).(*models.RecalculationResult)
	return v, args.Error(1)
}

func (m *mockRecipeCostService) SimulatePriceChange(ctx context.Context, materiaPrimaID uuid.UUID, newPrice decimal.Decimal) ([]models.PriceChangeSimulation, error) {
	args := m.Called(ctx, materiaPrimaID, newPrice)
	v, _ := args.Get(0).([]models.PriceChangeSimulation)
	return v, args.Error(1)
}

func (m *mockRecipeCostService) ExportBreakdown(ctx context.Context, recipeID uuid.UUID) (*excelize.File, string, error) {
	args := m.Called(ctx, recipeID)
	f, _ := args.Get(0).(*excelize.File)
	return f, args.String(1), args.Error(2)
}

type mockEmployeeService struct {
	mock.Mock
}

func (m *mockEmployeeService) CreateEmployee(ctx context.Context, full *models.EmployeeFull) (*models.EmployeeFull, error) {
	args := m.Called(ctx, full)
	v, _ := args.Get(0).(*models.EmployeeFull)
	return v, args.Error(1)
}

func (m *mockEmployeeService) GetEmployee(ctx context.Context, id uuid.UUID) (*models.EmployeeFull, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*models.EmployeeFull)
	return v, args.Error(1)
}

func (m *mockEmployeeService) ListEmployees(ctx context.Context, term string, limit, offset int) ([]*models.Employee, error) {
	args := m.Called(ctx, term, limit, offset)
	v, _ := args.Get(0).([]*models.Employee)
	return v, args.Error(1)
}

func (m *mockEmployeeService) DeactivateEmployee(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockEmployeeService) UploadDocument(ctx context.Context, empleadoID uuid.UUID, upload *services.DocumentUpload) (*models.EmployeeDocument, error) {
	args := m.Called(ctx, empleadoID, upload)
	v, _ := args.Get(0).(*models.EmployeeDocument)
	return v, args.Error(1)
}

func (m *mockEmployeeService) ListDocuments(ctx context.Context, empleadoID uuid.UUID) ([]*models.EmployeeDocument, error) {
	args := m.Called(ctx, empleadoID)
	v, _ := args.Get(0).([]*models.EmployeeDocument)
	return v, args.Error(1)
}

func (m *mockEmployeeService) DocumentURL(ctx context.Context, documentID uuid.UUID) (string, error) {
	args := m.Called(ctx, documentID)
	return args.String(0), args.Error(1)
}

func (m *mockEmployeeService) DeleteDocument(ctx context.Context, documentID uuid.UUID) error {
	return m.Called(ctx, documentID).Error(0)
}

type mockNotificationService struct {
	mock.Mock
}

func (m *mockNotificationService) Unread(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error) {
	args := m.Called(ctx, userID)
	v, _ := args.Get(0).([]*models.Notification)
	return v, args.Error(1)
}

func (m *mockNotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *mockNotificationService) MarkRead(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockNotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationService) Create(ctx context.Context, n *models.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *mockNotificationService) NotifyRoles(ctx context.Context, roles []string, tipo models.NotificationType, titulo, mensaje string, datos models.JSONB) (int, error) {
	args := m.Called(ctx, roles, tipo, titulo, mensaje, datos)
	return args.Int(0), args.Error(1)
}

type mockPinger struct {
	mock.Mock
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockJobRunner struct {
	mock.Mock
}

func (m *mockJobRunner) Status() []background.JobStatus {
	args := m.Called()
	st, _ := args.Get(0).([]background.JobStatus)
	return st
}

func (m *mockJobRunner) RunNow(name string) error {
	return m.Called(name).Error(0)
}
