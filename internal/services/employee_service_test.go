package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"clinicalfresh/internal/common"
	"clinicalfresh/internal/models"
	"clinicalfresh/testhelpers"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type EmployeeServiceTestSuite struct {
	suite.Suite
	repo     *testhelpers.MockEmployeeRepository
	storage  *testhelpers.MockObjectStorage
	cache    *testhelpers.MockCacheService
	audit    *mockAuditLogsService
	service  EmployeeService
	ctx      context.Context
	userID   uuid.UUID
	employee *models.Employee
}

func (suite *EmployeeServiceTestSuite) SetupTest() {
	suite.repo = &testhelpers.MockEmployeeRepository{}
	suite.storage = &testhelpers.MockObjectStorage{}
	suite.cache = &testhelpers.MockCacheService{}
	suite.audit = &mockAuditLogsService{}
	suite.service = NewEmployeeService(suite.repo, suite.storage, suite.cache, suite.audit, "")
	suite.userID = uuid.New()
	suite.ctx = context.WithValue(context.Background(), common.UserIDKey, suite.userID)
	suite.employee = &models.Employee{ID: uuid.New(), Nombres: "Ana", Apellidos: "Ríos", TipoDocumento: "CC", DocumentoIdentidad: "1020"}
}

func (suite *EmployeeServiceTestSuite) upload(size int64, mime string) *DocumentUpload {
	return &DocumentUpload{
		TipoDocumento: "contrato",
		NombreArchivo: "Contrato.PDF",
		MimeType:      mime,
		Size:          size,
		Content:       strings.NewReader("x"),
	}
}

func (suite *EmployeeServiceTestSuite) TestUploadDocument_TooLargeMakesNoCalls() {
	_, err := suite.service.UploadDocument(suite.ctx, suite.employee.ID, suite.upload(11*1024*1024, "application/pdf"))

	suite.ErrorIs(err, ErrFileTooLarge)
	suite.storage.AssertNotCalled(suite.T(), "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.repo.AssertNotCalled(suite.T(), "GetByID", mock.Anything, mock.Anything)
	suite.cache.AssertNotCalled(suite.T(), "IsRateLimited", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EmployeeServiceTestSuite) TestUploadDocument_RejectsMimeType() {
	_, err := suite.service.UploadDocument(suite.ctx, suite.employee.ID, suite.upload(1024, "application/zip"))

	suite.ErrorIs(err, ErrMimeNotAllowed)
	suite.storage.AssertNotCalled(suite.T(), "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EmployeeServiceTestSuite) TestUploadDocument_Success() {
	up := suite.upload(2048, "application/pdf")
	prefix := suite.employee.ID.String() + "/doc_" + suite.employee.ID.String() + "_"

	suite.cache.On("IsRateLimited", suite.ctx, "upload:"+suite.userID.String(), uploadRateLimit, uploadRateWindow).Return(false, nil)
	suite.repo.On("GetByID", suite.ctx, suite.employee.ID).Return(suite.employee, nil)
	suite.storage.On("Upload", suite.ctx, DocumentsBucket, mock.MatchedBy(func(p string) bool {
		return strings.HasPrefix(p, prefix) && strings.HasSuffix(p, ".pdf")
	}), up.Content, int64(2048), "application/pdf").Return(nil)
	suite.repo.On("CreateDocument", suite.ctx, mock.AnythingOfType("*models.EmployeeDocument")).Return(nil)
	suite.audit.On("LogEntityCreate", suite.ctx, employeeDocTable, mock.Anything, mock.Anything).Return()

	doc, err := suite.service.UploadDocument(suite.ctx, suite.employee.ID, up)

	suite.Require().NoError(err)
	suite.Equal(suite.userID, *doc.SubidoPor)
	suite.True(strings.HasPrefix(doc.RutaStorage, prefix))
	suite.storage.AssertExpectations(suite.T())
	suite.repo.AssertExpectations(suite.T())
}

func (suite *EmployeeServiceTestSuite) TestUploadDocument_RemovesObjectWhenInsertFails() {
	up := suite.upload(2048, "image/webp")
	suite.cache.On("IsRateLimited", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
	suite.repo.On("GetByID", suite.ctx, suite.employee.ID).Return(suite.employee, nil)
	suite.storage.On("Upload", suite.ctx, DocumentsBucket, mock.Anything, up.Content, int64(2048), "image/webp").Return(nil)
	suite.repo.On("CreateDocument", suite.ctx, mock.Anything).Return(errors.New("insert failed"))
	suite.storage.On("Delete", suite.ctx, DocumentsBucket, mock.Anything).Return(nil)

	doc, err := suite.service.UploadDocument(suite.ctx, suite.employee.ID, up)

	suite.Nil(doc)
	suite.ErrorContains(err, "register document")
	suite.storage.AssertCalled(suite.T(), "Delete", suite.ctx, DocumentsBucket, mock.Anything)
}

func (suite *EmployeeServiceTestSuite) TestUploadDocument_RateLimited() {
	suite.cache.On("IsRateLimited", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)

	_, err := suite.service.UploadDocument(suite.ctx, suite.employee.ID, suite.upload(10, "text/plain"))

	suite.ErrorIs(err, ErrRateLimited)
	suite.repo.AssertNotCalled(suite.T(), "GetByID", mock.Anything, mock.Anything)
}

func (suite *EmployeeServiceTestSuite) TestCreateEmployee_ValidationError() {
	_, err := suite.service.CreateEmployee(suite.ctx, &models.EmployeeFull{Empleado: models.Employee{Nombres: "Ana"}})

	suite.ErrorIs(err, ErrInvalidEmployee)
	fields, ok := common.ValidationFields(err)
	suite.True(ok)
	suite.Contains(fields, "apellidos")
	suite.repo.AssertNotCalled(suite.T(), "CreateFull", mock.Anything, mock.Anything)
}

func (suite *EmployeeServiceTestSuite) TestCreateEmployee_DuplicateDocument() {
	full := &models.EmployeeFull{Empleado: *suite.employee}
	suite.repo.On("CreateFull", suite.ctx, full).Return(&pgconn.PgError{Code: "23505"})

	_, err := suite.service.CreateEmployee(suite.ctx, full)

	suite.ErrorIs(err, ErrInvalidEmployee)
	suite.ErrorContains(err, "Ya existe un registro")
}

func (suite *EmployeeServiceTestSuite) TestCreateEmployee_Success() {
	full := &models.EmployeeFull{Empleado: *suite.employee}
	full.Empleado.TipoDocumento = " cc "
	suite.repo.On("CreateFull", suite.ctx, full).Return(nil)
	suite.audit.On("LogEntityCreate", suite.ctx, employeeTable, full.Empleado.ID.String(), full).Return()

	out, err := suite.service.CreateEmployee(suite.ctx, full)

	suite.Require().NoError(err)
	suite.Equal("CC", out.Empleado.TipoDocumento)
	suite.Equal(suite.userID, *out.Empleado.CreatedBy)
}

func (suite *EmployeeServiceTestSuite) TestDocumentURL() {
	docID := uuid.New()
	suite.repo.On("GetDocument", suite.ctx, docID).Return(&models.EmployeeDocument{ID: docID, RutaStorage: "a/b.pdf"}, nil)
	suite.storage.On("GetPresignedURL", suite.ctx, DocumentsBucket, "a/b.pdf", DocumentURLExpiry).Return("https://signed", nil)

	url, err := suite.service.DocumentURL(suite.ctx, docID)

	suite.NoError(err)
	suite.Equal("https://signed", url)
}

func (suite *EmployeeServiceTestSuite) TestDeleteDocument() {
	docID := uuid.New()
	doc := &models.EmployeeDocument{ID: docID, RutaStorage: "a/b.pdf"}
	suite.repo.On("GetDocument", suite.ctx, docID).Return(doc, nil)
	suite.storage.On("Delete", suite.ctx, DocumentsBucket, "a/b.pdf").Return(nil)
	suite.repo.On("DeleteDocument", suite.ctx, docID).Return(nil)
	suite.audit.On("LogEntityDelete", suite.ctx, employeeDocTable, docID.String(), doc).Return()

	suite.NoError(suite.service.DeleteDocument(suite.ctx, docID))
	suite.repo.AssertExpectations(suite.T())
	suite.storage.AssertExpectations(suite.T())
}

func TestEmployeeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EmployeeServiceTestSuite))
}

func TestDocumentPath(t *testing.T) {
	id := uuid.MustParse("6f1c2a9e-0d7b-4c55-9a43-2b1f0c7e8d11")
	path := DocumentPath(id, "cedula.JPG", time.UnixMilli(1700000000000))

	assert.True(t, strings.HasPrefix(path, id.String()+"/doc_"+id.String()+"_1700000000000_"))
	assert.True(t, strings.HasSuffix(path, ".jpg"))
}

func TestValidateDocument(t *testing.T) {
	assert.ErrorIs(t, ValidateDocument(&DocumentUpload{Size: 0, MimeType: "text/plain"}), ErrEmptyFile)
	assert.NoError(t, ValidateDocument(&DocumentUpload{Size: MaxDocumentSize, MimeType: "application/pdf"}))
	assert.NoError(t, ValidateDocument(&DocumentUpload{Size: 10, MimeType: "image/heic"}))
	assert.ErrorIs(t, ValidateDocument(&DocumentUpload{Size: 10, MimeType: "video/mp4"}), ErrMimeNotAllowed)
}
