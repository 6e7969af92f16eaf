package testhelpers

import (
	"clinicalfresh/internal/caching"
	"clinicalfresh/internal/repositories"
	"clinicalfresh/internal/storage"
)

var (
	_ repositories.TreeNodeRepository     = (*MockTreeNodeRepository)(nil)
	_ repositories.PriceHistoryRepository = (*MockPriceHistoryRepository)(nil)
	_ repositories.RecipeRepository       = (*MockRecipeRepository)(nil)
	_ repositories.AuditLogsRepository    = (*MockAuditLogsRepository)(nil)
	_ repositories.EmployeeRepository     = (*MockEmployeeRepository)(nil)
	_ repositories.NotificationRepository = (*MockNotificationRepository)(nil)
	_ repositories.StockRepository        = (*MockStockRepository)(nil)
	_ repositories.ProfileRepository      = (*MockProfileRepository)(nil)
	_ storage.ObjectStorage               = (*MockObjectStorage)(nil)
	_ caching.CacheService                = (*MockCacheService)(nil)
)
