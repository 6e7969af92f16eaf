package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"clinicalfresh/internal/caching"
	"clinicalfresh/internal/common"
	"clinicalfresh/internal/models"
	"clinicalfresh/internal/repositories"
	"clinicalfresh/internal/storage"

	"github.com/google/uuid"
	"github.com/labstack/gommon/random"
	"github.com/rs/zerolog/log"
)

// Document upload limits.
const (
	DocumentsBucket   = "empleado-documentos"
	MaxDocumentSize   = 10 * 1024 * 1024
	DocumentURLExpiry = time.Hour
	uploadRateLimit   = 20
	uploadRateWindow  = time.Minute
)

const (
	employeeTable        = "empleados"
	employeeDocTable     = "empleado_documentos"
	defaultEmployeeLimit = 50
)

// allowedDocumentType accepts PDF, Word, plain text and any image.
func allowedDocumentType(mime string) bool {
	switch mime {
	case "application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"text/plain":
		return true
	}
	return strings.HasPrefix(mime, "image/")
}

// DocumentUpload describes a file received for an employee.
type DocumentUpload struct {
	TipoDocumento string
	NombreArchivo string
	MimeType      string
	Size          int64
	Content       io.Reader
}

type EmployeeService interface {
	CreateEmployee(ctx context.Context, full *models.EmployeeFull) (*models.EmployeeFull, error)
	GetEmployee(ctx context.Context, id uuid.UUID) (*models.EmployeeFull, error)
	ListEmployees(ctx context.Context, term string, limit, offset int) ([]*models.Employee, error)
	DeactivateEmployee(ctx context.Context, id uuid.UUID) error

	UploadDocument(ctx context.Context, empleadoID uuid.UUID, upload *DocumentUpload) (*models.EmployeeDocument, error)
	ListDocuments(ctx context.Context, empleadoID uuid.UUID) ([]*models.EmployeeDocument, error)
	DocumentURL(ctx context.Context, documentID uuid.UUID) (string, error)
	DeleteDocument(ctx context.Context, documentID uuid.UUID) error
}

type employeeService struct {
	employeeRepo repositories.EmployeeRepository
	storage      storage.ObjectStorage
	cache        caching.CacheService
	auditService AuditLogsService
	bucket       string
	now          func() time.Time
}

func NewEmployeeService(employeeRepo repositories.EmployeeRepository, objectStorage storage.ObjectStorage,
	cache caching.CacheService, auditService AuditLogsService, bucket string) EmployeeService {
	if bucket == "" {
		bucket = DocumentsBucket
	}
	return &employeeService{
		employeeRepo: employeeRepo,
		storage:      objectStorage,
		cache:        cache,
		auditService: auditService,
		bucket:       bucket,
		now:          time.Now,
	}
}

// CreateEmployee writes the employee and its HR and SST records in one
// transaction. Postgres errors with a known code are returned with a user
// message; see UserMessage.
func (s *employeeService) CreateEmployee(ctx context.Context, full *models.EmployeeFull) (*models.EmployeeFull, error) {
	trimEmployee(&full.Empleado)
	if err := common.Validate.Struct(full); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEmployee, err)
	}
	full.Empleado.CreatedBy = common.UserIDPtrFromContext(ctx)

	if err := s.employeeRepo.CreateFull(ctx, full); err != nil {
		if msg, ok := UserMessage(err); ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidEmployee, msg)
		}
		return nil, err
	}
	s.auditService.LogEntityCreate(ctx, employeeTable, full.Empleado.ID.String(), full)
	return full, nil
}

func trimEmployee(e *models.Employee) {
	e.Nombres = strings.TrimSpace(e.Nombres)
	e.Apellidos = strings.TrimSpace(e.Apellidos)
	e.DocumentoIdentidad = strings.TrimSpace(e.DocumentoIdentidad)
	e.TipoDocumento = strings.ToUpper(strings.TrimSpace(e.TipoDocumento))
}

func (s *employeeService) GetEmployee(ctx context.Context, id uuid.UUID) (*models.EmployeeFull, error) {
	return s.employeeRepo.GetFull(ctx, id)
}

func (s *employeeService) ListEmployees(ctx context.Context, term string, limit, offset int) ([]*models.Employee, error) {
	if limit <= 0 {
		limit = defaultEmployeeLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.employeeRepo.List(ctx, common.SanitizeSearchQuery(term), limit, offset)
}

func (s *employeeService) DeactivateEmployee(ctx context.Context, id uuid.UUID) error {
	existing, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.employeeRepo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.auditService.LogEntitySoftDelete(ctx, employeeTable, id.String(), existing)
	return nil
}

// ValidateDocument checks size and type of an upload without touching the
// network.
func ValidateDocument(upload *DocumentUpload) error {
	if upload.Size <= 0 {
		return ErrEmptyFile
	}
	if upload.Size > MaxDocumentSize {
		return fmt.Errorf("%w: %.2fMB", ErrFileTooLarge, float64(upload.Size)/(1024*1024))
	}
	mime := strings.ToLower(strings.TrimSpace(upload.MimeType))
	if !allowedDocumentType(mime) {
		return fmt.Errorf("%w: %s", ErrMimeNotAllowed, upload.MimeType)
	}
	return nil
}

// DocumentPath builds {empleadoID}/doc_{empleadoID}_{millis}_{random}.{ext}.
func DocumentPath(empleadoID uuid.UUID, fileName string, now time.Time) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	if ext == "" {
		ext = "bin"
	}
	suffix := random.String(12, random.Lowercase, random.Numeric)
	return fmt.Sprintf("%s/doc_%s_%d_%s.%s", empleadoID, empleadoID, now.UnixMilli(), suffix, ext)
}

func (s *employeeService) UploadDocument(ctx context.Context, empleadoID uuid.UUID, upload *DocumentUpload) (*models.EmployeeDocument, error) {
	if err := ValidateDocument(upload); err != nil {
		return nil, err
	}
	if strings.TrimSpace(upload.TipoDocumento) == "" {
		return nil, fmt.Errorf("%w: tipo_documento es requerido", ErrInvalidEmployee)
	}

	uploader := common.UserIDPtrFromContext(ctx)
	if uploader != nil {
		limited, err := s.cache.IsRateLimited(ctx, "upload:"+uploader.String(), uploadRateLimit, uploadRateWindow)
		if err != nil {
			log.Warn().Err(err).Msg("upload rate limit check failed")
		} else if limited {
			return nil, ErrRateLimited
		}
	}

	if _, err := s.employeeRepo.GetByID(ctx, empleadoID); err != nil {
		return nil, err
	}

	path := DocumentPath(empleadoID, upload.NombreArchivo, s.now())
	if err := s.storage.Upload(ctx, s.bucket, path, upload.Content, upload.Size, upload.MimeType); err != nil {
		return nil, fmt.Errorf("upload document: %w", err)
	}

	doc := &models.EmployeeDocument{
		EmpleadoID:    empleadoID,
		TipoDocumento: strings.TrimSpace(upload.TipoDocumento),
		NombreArchivo: upload.NombreArchivo,
		RutaStorage:   path,
		TamanoBytes:   upload.Size,
		MimeType:      upload.MimeType,
		SubidoPor:     uploader,
	}
	if err := s.employeeRepo.CreateDocument(ctx, doc); err != nil {
		if delErr := s.storage.Delete(ctx, s.bucket, path); delErr != nil {
			log.Error().Err(delErr).Str("path", path).Msg("failed to remove orphaned document")
		}
		return nil, fmt.Errorf("register document: %w", err)
	}

	s.auditService.LogEntityCreate(ctx, employeeDocTable, doc.ID.String(), doc)
	log.Info().Str("empleado_id", empleadoID.String()).Str("path", path).Int64("size", upload.Size).
		Msg("employee document uploaded")
	return doc, nil
}

func (s *employeeService) ListDocuments(ctx context.Context, empleadoID uuid.UUID) ([]*models.EmployeeDocument, error) {
	return s.employeeRepo.ListDocuments(ctx, empleadoID)
}

func (s *employeeService) DocumentURL(ctx context.Context, documentID uuid.UUID) (string, error) {
	doc, err := s.employeeRepo.GetDocument(ctx, documentID)
	if err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(ctx, s.bucket, doc.RutaStorage, DocumentURLExpiry)
}

// DeleteDocument removes the stored object, then the row.
func (s *employeeService) DeleteDocument(ctx context.Context, documentID uuid.UUID) error {
	doc, err := s.employeeRepo.GetDocument(ctx, documentID)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, s.bucket, doc.RutaStorage); err != nil {
		return fmt.Errorf("delete document object: %w", err)
	}
	if err := s.employeeRepo.DeleteDocument(ctx, documentID); err != nil {
		return err
	}
	s.auditService.LogEntityDelete(ctx, employeeDocTable, documentID.String(), doc)
	return nil
}
