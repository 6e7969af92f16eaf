package testhelpers

import (
	"context"
	"io"
	"time"

	"clinicalfresh/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTreeNodeRepository mocks repositories.TreeNodeRepository
type MockTreeNodeRepository struct {
	mock.Mock
}

func (m *MockTreeNodeRepository) Create(ctx context.Context, node *models.TreeNode) error {
	args := m.Called(ctx, node)
	return args.Error(0)
}

func (m *MockTreeNodeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TreeNode, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TreeNode), args.Error(1)
}

func (m *MockTreeNodeRepository) GetByCode(ctx context.Context, codigo string) (*models.TreeNode, error) {
	args := m.Called(ctx, codigo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TreeNode), args.Error(1)
}

func (m *MockTreeNodeRepository) Update(ctx context.Context, node *models.TreeNode) error {
	args := m.Called(ctx, node)
	return args.Error(0)
}

func (m *MockTreeNodeRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTreeNodeRepository) nodes(args mock.Arguments) ([]*models.TreeNode, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TreeNode), args.Error(1)
}

func (m *MockTreeNodeRepository) ListChildren(ctx context.Context, parentID uuid.UUID) ([]*models.TreeNode, error) {
	return m.nodes(m.Called(ctx, parentID))
}

func (m *MockTreeNodeRepository) ListByLevelAndBranch(ctx context.Context, nivel int, tipoRama models.TipoRama) ([]*models.TreeNode, error) {
	return m.nodes(m.Called(ctx, nivel, tipoRama))
}

func (m *MockTreeNodeRepository) Search(ctx context.Context, term string, filters *models.TreeNodeFilters) ([]*models.TreeNode, error) {
	return m.nodes(m.Called(ctx, term, filters))
}

func (m *MockTreeNodeRepository) ListPresentations(ctx context.Context, productID uuid.UUID) ([]*models.TreeNode, error) {
	return m.nodes(m.Called(ctx, productID))
}

func (m *MockTreeNodeRepository) GetStock(ctx context.Context, productID uuid.UUID) (*models.StockInfo, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockInfo), args.Error(1)
}

func (m *MockTreeNodeRepository) FullTree(ctx context.Context, tipoRama *models.TipoRama) ([]*models.TreeNode, error) {
	return m.nodes(m.Called(ctx, tipoRama))
}

func (m *MockTreeNodeRepository) CountByBranch(ctx context.Context) ([]models.BranchCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BranchCount), args.Error(1)
}

func (m *MockTreeNodeRepository) ListLowStock(ctx context.Context) ([]*models.TreeNode, error) {
	return m.nodes(m.Called(ctx))
}

func (m *MockTreeNodeRepository) GetPresentationWithProduct(ctx context.Context, presentationID uuid.UUID) (*models.PresentationWithProduct, error) {
	args := m.Called(ctx, presentationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PresentationWithProduct), args.Error(1)
}

func (m *MockTreeNodeRepository) SearchPresentationsForSupplier(ctx context.Context, supplierID uuid.UUID, term string) ([]*models.TreeNode, error) {
	return m.nodes(m.Called(ctx, supplierID, term))
}

// MockPriceHistoryRepository mocks repositories.PriceHistoryRepository
type MockPriceHistoryRepository struct {
	mock.Mock
}

func (m *MockPriceHistoryRepository) ListSince(ctx context.Context, productID uuid.UUID, since time.Time) ([]*models.PriceHistoryEntry, error) {
	args := m.Called(ctx, productID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PriceHistoryEntry), args.Error(1)
}

func (m *MockPriceHistoryRepository) AveragePrice(ctx context.Context, productID uuid.UUID, since time.Time) (*float64, error) {
	args := m.Called(ctx, productID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

func (m *MockPriceHistoryRepository) AverageStockCost(ctx context.Context, productID uuid.UUID, months int) (*float64, error) {
	args := m.Called(ctx, productID, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

// MockRecipeRepository mocks repositories.RecipeRepository
type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) recipe(args mock.Arguments) (*models.Recipe, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) recipes(args mock.Arguments) ([]*models.Recipe, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	return m.Called(ctx, recipe).Error(0)
}

func (m *MockRecipeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	return m.recipe(m.Called(ctx, id))
}

func (m *MockRecipeRepository) GetByCode(ctx context.Context, codigo string) (*models.Recipe, error) {
	return m.recipe(m.Called(ctx, codigo))
}

func (m *MockRecipeRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	return m.Called(ctx, recipe).Error(0)
}

func (m *MockRecipeRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRecipeRepository) ListByLevel(ctx context.Context, nivel int) ([]*models.Recipe, error) {
	return m.recipes(m.Called(ctx, nivel))
}

func (m *MockRecipeRepository) ListChildren(ctx context.Context, parentID uuid.UUID) ([]*models.Recipe, error) {
	return m.recipes(m.Called(ctx, parentID))
}

func (m *MockRecipeRepository) ListByDish(ctx context.Context, platoID uuid.UUID) ([]*models.Recipe, error) {
	return m.recipes(m.Called(ctx, platoID))
}

func (m *MockRecipeRepository) ListActive(ctx context.Context, limit int) ([]*models.Recipe, error) {
	return m.recipes(m.Called(ctx, limit))
}

func (m *MockRecipeRepository) ListUsingMaterial(ctx context.Context, materiaPrimaID uuid.UUID) ([]*models.Recipe, error) {
	return m.recipes(m.Called(ctx, materiaPrimaID))
}

func (m *MockRecipeRepository) Search(ctx context.Context, term string, nivel *int) ([]*models.Recipe, error) {
	return m.recipes(m.Called(ctx, term, nivel))
}

func (m *MockRecipeRepository) CountByLevel(ctx context.Context, nivel int) (int, error) {
	args := m.Called(ctx, nivel)
	return args.Int(0), args.Error(1)
}

func (m *MockRecipeRepository) ListIngredients(ctx context.Context, recipeID uuid.UUID) ([]*models.RecipeIngredient, error) {
	args := m.Called(ctx, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RecipeIngredient), args.Error(1)
}

func (m *MockRecipeRepository) AddIngredient(ctx context.Context, ingredient *models.RecipeIngredient) error {
	return m.Called(ctx, ingredient).Error(0)
}

func (m *MockRecipeRepository) UpdateIngredient(ctx context.Context, ingredient *models.RecipeIngredient) error {
	return m.Called(ctx, ingredient).Error(0)
}

func (m *MockRecipeRepository) RemoveIngredient(ctx context.Context, ingredientID uuid.UUID) error {
	return m.Called(ctx, ingredientID).Error(0)
}

func (m *MockRecipeRepository) Duplicate(ctx context.Context, original *models.Recipe, newCode, newName string) (*models.Recipe, error) {
	return m.recipe(m.Called(ctx, original, newCode, newName))
}

func (m *MockRecipeRepository) BatchCosts(ctx context.Context, recipeIDs []uuid.UUID) ([]models.RecipeBatchCost, error) {
	args := m.Called(ctx, recipeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RecipeBatchCost), args.Error(1)
}

func (m *MockRecipeRepository) RecalculateAll(ctx context.Context) (*models.RecalculationResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecalculationResult), args.Error(1)
}

func (m *MockRecipeRepository) RecalculatePending(ctx context.Context) (*models.RecalculationResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecalculationResult), args.Error(1)
}

func (m *MockRecipeRepository) SimulatePriceChange(ctx context.Context, materiaPrimaID uuid.UUID, newPrice float64) ([]models.PriceChangeSimulation, error) {
	args := m.Called(ctx, materiaPrimaID, newPrice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PriceChangeSimulation), args.Error(1)
}

// MockAuditLogsRepository mocks repositories.AuditLogsRepository
type MockAuditLogsRepository struct {
	mock.Mock
}

func (m *MockAuditLogsRepository) Create(ctx context.Context, auditLog *models.AuditLog) error {
	return m.Called(ctx, auditLog).Error(0)
}

func (m *MockAuditLogsRepository) GetByTableAndRecord(ctx context.Context, tabla, registroID string) ([]*models.AuditLog, error) {
	args := m.Called(ctx, tabla, registroID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

func (m *MockAuditLogsRepository) List(ctx context.Context, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

func (m *MockAuditLogsRepository) GetSummary(ctx context.Context, since time.Time) (*models.AuditStats, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuditStats), args.Error(1)
}

// MockEmployeeRepository mocks repositories.EmployeeRepository
type MockEmployeeRepository struct {
	mock.Mock
}

func (m *MockEmployeeRepository) CreateFull(ctx context.Context, full *models.EmployeeFull) error {
	return m.Called(ctx, full).Error(0)
}

func (m *MockEmployeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) GetFull(ctx context.Context, id uuid.UUID) (*models.EmployeeFull, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmployeeFull), args.Error(1)
}

func (m *MockEmployeeRepository) List(ctx context.Context, term string, limit, offset int) ([]*models.Employee, error) {
	args := m.Called(ctx, term, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockEmployeeRepository) CreateDocument(ctx context.Context, doc *models.EmployeeDocument) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *MockEmployeeRepository) GetDocument(ctx context.Context, id uuid.UUID) (*models.EmployeeDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmployeeDocument), args.Error(1)
}

func (m *MockEmployeeRepository) ListDocuments(ctx context.Context, empleadoID uuid.UUID) ([]*models.EmployeeDocument, error) {
	args := m.Called(ctx, empleadoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.EmployeeDocument), args.Error(1)
}

func (m *MockEmployeeRepository) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockNotificationRepository mocks repositories.NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNotificationRepository) ListUnread(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Notification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) ListRecipientsByRoles(ctx context.Context, roles []string) ([]uuid.UUID, error) {
	args := m.Called(ctx, roles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockStockRepository mocks repositories.StockRepository
type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) Adjust(ctx context.Context, productID uuid.UUID, cantidad float64, op models.StockOperation) (*float64, error) {
	args := m.Called(ctx, productID, cantidad, op)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

func (m *MockStockRepository) UpdateFromInvoice(ctx context.Context, facturaID uuid.UUID) (int, error) {
	args := m.Called(ctx, facturaID)
	return args.Int(0), args.Error(1)
}

func (m *MockStockRepository) Movements(ctx context.Context, productID uuid.UUID, limit int) ([]*models.StockMovement, error) {
	args := m.Called(ctx, productID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StockMovement), args.Error(1)
}

func (m *MockStockRepository) Alerts(ctx context.Context, estado *string) ([]*models.StockAlert, error) {
	args := m.Called(ctx, estado)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StockAlert), args.Error(1)
}

func (m *MockStockRepository) LowStock(ctx context.Context) ([]*models.StockAlert, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StockAlert), args.Error(1)
}

func (m *MockStockRepository) SummaryByBranch(ctx context.Context) ([]models.BranchStockSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BranchStockSummary), args.Error(1)
}

func (m *MockStockRepository) InventoryValue(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

// MockProfileRepository mocks repositories.ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

// MockObjectStorage mocks storage.ObjectStorage
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	return m.Called(ctx, bucketName, objectName, reader, objectSize, contentType).Error(0)
}

func (m *MockObjectStorage) GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucketName, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStorage) Delete(ctx context.Context, bucketName, objectName string) error {
	return m.Called(ctx, bucketName, objectName).Error(0)
}

func (m *MockObjectStorage) EnsureBucketExists(ctx context.Context, bucketName string) error {
	return m.Called(ctx, bucketName).Error(0)
}

func (m *MockObjectStorage) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

// MockCacheService mocks caching.CacheService
type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int, bool, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockCacheService) SetUnreadCount(ctx context.Context, userID uuid.UUID, count int, ttl time.Duration) error {
	return m.Called(ctx, userID, count, ttl).Error(0)
}

func (m *MockCacheService) DeleteUnreadCount(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) MarkOnce(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) Unmark(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
