package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"clinicalfresh/internal/models"
	"clinicalfresh/internal/repositories"

	"github.com/google/uuid"
)

// Minimum search term lengths, counted in characters.
const (
	MinTreeSearchLength         = 3
	MinPresentationSearchLength = 2
	maxSearchLength             = 100
)

const treeTable = "arbol_materia_prima"

type TreeService interface {
	GetChildren(ctx context.Context, parentID uuid.UUID) ([]*models.TreeNode, error)
	GetByLevelAndBranch(ctx context.Context, nivel int, tipoRama models.TipoRama) ([]*models.TreeNode, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.TreeNode, error)
	GetByCode(ctx context.Context, codigo string) (*models.TreeNode, error)
	Search(ctx context.Context, term string, filters *models.TreeNodeFilters) ([]*models.TreeNode, error)
	GetPresentations(ctx context.Context, productID uuid.UUID) ([]*models.TreeNode, error)
	GetStock(ctx context.Context, productID uuid.UUID) (*models.StockInfo, error)
	GetFullTree(ctx context.Context, tipoRama *models.TipoRama) ([]*models.TreeNode, error)
	GetLevel3Categories(ctx context.Context) ([]*models.TreeNode, error)
	CountByBranch(ctx context.Context) ([]models.BranchCount, error)
	GetPresentationWithProduct(ctx context.Context, presentationID uuid.UUID) (*models.PresentationWithProduct, error)
	SearchPresentationsForSupplier(ctx context.Context, supplierID uuid.UUID, term string) ([]*models.TreeNode, error)

	// Writes return a non-nil ValidationResult with Valido=false, and no
	// error, when the node is rejected on its content.
	Create(ctx context.Context, node *models.TreeNode) (*models.TreeNode, *models.ValidationResult, error)
	Update(ctx context.Context, id uuid.UUID, node *models.TreeNode) (*models.TreeNode, *models.ValidationResult, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error

	Validate(ctx context.Context, node *models.TreeNode) (*models.ValidationResult, error)
	ValidateStockUnit(unit string) bool
	ValidatePresentationContent(ctx context.Context, parentID uuid.UUID, unidadContenido string) (*models.ValidationResult, error)
}

type treeService struct {
	treeRepo     repositories.TreeNodeRepository
	auditService AuditLogsService
}

func NewTreeService(treeRepo repositories.TreeNodeRepository, auditService AuditLogsService) TreeService {
	return &treeService{
		treeRepo:     treeRepo,
		auditService: auditService,
	}
}

func (s *treeService) GetChildren(ctx context.Context, parentID uuid.UUID) ([]*models.TreeNode, error) {
	return s.treeRepo.ListChildren(ctx, parentID)
}

func (s *treeService) GetByLevelAndBranch(ctx context.Context, nivel int, tipoRama models.TipoRama) ([]*models.TreeNode, error) {
	if nivel < models.NivelRaiz || nivel > models.NivelPresentacion {
		return nil, fmt.Errorf("%w: nivel %d", ErrInvalidNode, nivel)
	}
	if !tipoRama.Valid() {
		return nil, fmt.Errorf("%w: tipo_rama %q", ErrInvalidNode, tipoRama)
	}
	return s.treeRepo.ListByLevelAndBranch(ctx, nivel, tipoRama)
}

func (s *treeService) GetByID(ctx context.Context, id uuid.UUID) (*models.TreeNode, error) {
	return s.treeRepo.GetByID(ctx, id)
}

func (s *treeService) GetByCode(ctx context.Context, codigo string) (*models.TreeNode, error) {
	return s.treeRepo.GetByCode(ctx, strings.TrimSpace(codigo))
}

// Search returns an empty result without querying when the term is shorter
// than MinTreeSearchLength.
func (s *treeService) Search(ctx context.Context, term string, filters *models.TreeNodeFilters) ([]*models.TreeNode, error) {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < MinTreeSearchLength {
		return []*models.TreeNode{}, nil
	}
	if utf8.RuneCountInString(term) > maxSearchLength {
		return nil, ErrSearchTermTooLong
	}
	return s.treeRepo.Search(ctx, term, filters)
}

func (s *treeService) GetPresentations(ctx context.Context, productID uuid.UUID) ([]*models.TreeNode, error) {
	return s.treeRepo.ListPresentations(ctx, productID)
}

func (s *treeService) GetStock(ctx context.Context, productID uuid.UUID) (*models.StockInfo, error) {
	return s.treeRepo.GetStock(ctx, productID)
}

func (s *treeService) GetFullTree(ctx context.Context, tipoRama *models.TipoRama) ([]*models.TreeNode, error) {
	if tipoRama != nil && !tipoRama.Valid() {
		return nil, fmt.Errorf("%w: tipo_rama %q", ErrInvalidNode, *tipoRama)
	}
	return s.treeRepo.FullTree(ctx, tipoRama)
}

func (s *treeService) GetLevel3Categories(ctx context.Context) ([]*models.TreeNode, error) {
	nivel := models.NivelCategoria
	return s.treeRepo.Search(ctx, "", &models.TreeNodeFilters{NivelActual: &nivel})
}

func (s *treeService) CountByBranch(ctx context.Context) ([]models.BranchCount, error) {
	return s.treeRepo.CountByBranch(ctx)
}

func (s *treeService) GetPresentationWithProduct(ctx context.Context, presentationID uuid.UUID) (*models.PresentationWithProduct, error) {
	return s.treeRepo.GetPresentationWithProduct(ctx, presentationID)
}

func (s *treeService) SearchPresentationsForSupplier(ctx context.Context, supplierID uuid.UUID, term string) ([]*models.TreeNode, error) {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < MinPresentationSearchLength {
		return []*models.TreeNode{}, nil
	}
	return s.treeRepo.SearchPresentationsForSupplier(ctx, supplierID, term)
}

// parentOf returns nil without error when the node has no parent or the
// parent does not exist; validation reports the latter.
func (s *treeService) parentOf(ctx context.Context, node *models.TreeNode) (*models.TreeNode, error) {
	if node.ParentID == nil {
		return nil, nil
	}
	parent, err := s.treeRepo.GetByID(ctx, *node.ParentID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	return parent, err
}

func (s *treeService) Validate(ctx context.Context, node *models.TreeNode) (*models.ValidationResult, error) {
	normalizeNode(node)
	parent, err := s.parentOf(ctx, node)
	if err != nil {
		return nil, err
	}
	return ValidateNode(node, parent), nil
}

func (s *treeService) ValidateStockUnit(unit string) bool {
	return IsValidStockUnit(unit)
}

func (s *treeService) ValidatePresentationContent(ctx context.Context, parentID uuid.UUID, unidadContenido string) (*models.ValidationResult, error) {
	parent, err := s.treeRepo.GetByID(ctx, parentID)
	if err != nil {
		return nil, err
	}
	unidad := NormalizeUnit(unidadContenido)
	return ValidatePresentationAgainstParent(&unidad, parent), nil
}

func (s *treeService) Create(ctx context.Context, node *models.TreeNode) (*models.TreeNode, *models.ValidationResult, error) {
	normalizeNode(node)

	res, err := s.Validate(ctx, node)
	if err != nil {
		return nil, nil, err
	}
	if !res.Valido {
		return nil, res, nil
	}

	if err := s.treeRepo.Create(ctx, node); err != nil {
		return nil, nil, err
	}
	s.auditService.LogEntityCreate(ctx, treeTable, node.ID.String(), node)
	return node, res, nil
}

// Update keeps the node's position in the tree; parent, level and branch are
// taken from the stored row.
func (s *treeService) Update(ctx context.Context, id uuid.UUID, node *models.TreeNode) (*models.TreeNode, *models.ValidationResult, error) {
	existing, err := s.treeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	normalizeNode(node)
	node.ID = id
	node.ParentID = existing.ParentID
	node.NivelActual = existing.NivelActual
	node.TipoRama = existing.TipoRama
	node.Activo = existing.Activo
	node.CreatedAt = existing.CreatedAt

	res, err := s.Validate(ctx, node)
	if err != nil {
		return nil, nil, err
	}
	if !res.Valido {
		return nil, res, nil
	}

	if err := s.treeRepo.Update(ctx, node); err != nil {
		return nil, nil, err
	}
	s.auditService.LogEntityUpdate(ctx, treeTable, id.String(), existing, node)
	return node, res, nil
}

func (s *treeService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.treeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.treeRepo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.auditService.LogEntitySoftDelete(ctx, treeTable, id.String(), existing)
	return nil
}

func normalizeNode(node *models.TreeNode) {
	node.Codigo = strings.TrimSpace(node.Codigo)
	node.Nombre = strings.TrimSpace(node.Nombre)
	if node.UnidadStock != nil {
		u := NormalizeUnit(*node.UnidadStock)
		node.UnidadStock = &u
	}
	if node.UnidadContenido != nil {
		u := NormalizeUnit(*node.UnidadContenido)
		node.UnidadContenido = &u
	}
}
