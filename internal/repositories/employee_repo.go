package repositories

import (
	"context"
	"fmt"
	"time"

	"clinicalfresh/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type EmployeeRepository interface {
	CreateFull(ctx context.Context, full *models.EmployeeFull) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	GetFull(ctx context.Context, id uuid.UUID) (*models.EmployeeFull, error)
	List(ctx context.Context, term string, limit, offset int) ([]*models.Employee, error)
	Deactivate(ctx context.Context, id uuid.UUID) error

	CreateDocument(ctx context.Context, doc *models.EmployeeDocument) error
	GetDocument(ctx context.Context, id uuid.UUID) (*models.EmployeeDocument, error)
	ListDocuments(ctx context.Context, empleadoID uuid.UUID) ([]*models.EmployeeDocument, error)
	DeleteDocument(ctx context.Context, id uuid.UUID) error
}

type employeeRepo struct {
	db DB
}

func NewEmployeeRepo(db DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

const employeeColumns = `id, nombres, apellidos, tipo_documento, documento_identidad, cargo, area, telefono, correo,
		direccion, fecha_ingreso, tipo_vinculacion, activo, created_at, updated_at, created_by`

func scanEmployee(row pgx.Row) (*models.Employee, error) {
	e := &models.Employee{}
	err := row.Scan(&e.ID, &e.Nombres, &e.Apellidos, &e.TipoDocumento, &e.DocumentoIdentidad, &e.Cargo, &e.Area,
		&e.Telefono, &e.Correo, &e.Direccion, &e.FechaIngreso, &e.TipoVinculacion, &e.Activo, &e.CreatedAt,
		&e.UpdatedAt, &e.CreatedBy)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// CreateFull writes the employee and its optional HR and SST records in one
// transaction; any failure leaves none of them behind.
func (r *employeeRepo) CreateFull(ctx context.Context, full *models.EmployeeFull) error {
	e := &full.Empleado
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	e.Activo = true

	return withTx(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO empleados (id, nombres, apellidos, tipo_documento, documento_identidad, cargo, area, telefono,
				correo, direccion, fecha_ingreso, tipo_vinculacion, activo, created_at, updated_at, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		`
		if _, err := tx.Exec(ctx, query, e.ID, e.Nombres, e.Apellidos, e.TipoDocumento, e.DocumentoIdentidad,
			e.Cargo, e.Area, e.Telefono, e.Correo, e.Direccion, e.FechaIngreso, e.TipoVinculacion, e.Activo,
			e.CreatedAt, e.UpdatedAt, e.CreatedBy); err != nil {
			return fmt.Errorf("insert empleado: %w", err)
		}

		if !full.TalentoHumano.Empty() {
			t := full.TalentoHumano
			t.EmpleadoID = e.ID
			query := `
				INSERT INTO empleados_talento_humano (empleado_id, tipo_contrato, eps, afp, arl, caja_compensacion,
					fecha_fin_contrato)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`
			if _, err := tx.Exec(ctx, query, t.EmpleadoID, t.TipoContrato, t.Eps, t.Afp, t.Arl, t.CajaCompensacion,
				t.FechaFinContrato); err != nil {
				return fmt.Errorf("insert talento humano: %w", err)
			}
		}

		if !full.SST.Empty() {
			s := full.SST
			s.EmpleadoID = e.ID
			query := `
				INSERT INTO empleados_sst (empleado_id, examenes_medicos, fecha_examen, curso_manipulacion, fecha_curso,
					restricciones)
				VALUES ($1, $2, $3, $4, $5, $6)
			`
			if _, err := tx.Exec(ctx, query, s.EmpleadoID, s.ExamenesMedicos, s.FechaExamen, s.CursoManipulacion,
				s.FechaCurso, s.Restricciones); err != nil {
				return fmt.Errorf("insert sst: %w", err)
			}
		}
		return nil
	})
}

func (r *employeeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM empleados WHERE id = $1`
	e, err := scanEmployee(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

func (r *employeeRepo) GetFull(ctx context.Context, id uuid.UUID) (*models.EmployeeFull, error) {
	e, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	full := &models.EmployeeFull{Empleado: *e}

	t := &models.EmployeeTalent{}
	err = r.db.QueryRow(ctx, `
		SELECT empleado_id, tipo_contrato, eps, afp, arl, caja_compensacion, fecha_fin_contrato
		FROM empleados_talento_humano WHERE empleado_id = $1`, id).
		Scan(&t.EmpleadoID, &t.TipoContrato, &t.Eps, &t.Afp, &t.Arl, &t.CajaCompensacion, &t.FechaFinContrato)
	switch {
	case err == nil:
		full.TalentoHumano = t
	case notFound(err) != ErrNotFound:
		return nil, err
	}

	s := &models.EmployeeSST{}
	err = r.db.QueryRow(ctx, `
		SELECT empleado_id, examenes_medicos, fecha_examen, curso_manipulacion, fecha_curso, restricciones
		FROM empleados_sst WHERE empleado_id = $1`, id).
		Scan(&s.EmpleadoID, &s.ExamenesMedicos, &s.FechaExamen, &s.CursoManipulacion, &s.FechaCurso, &s.Restricciones)
	switch {
	case err == nil:
		full.SST = s
	case notFound(err) != ErrNotFound:
		return nil, err
	}

	return full, nil
}

func (r *employeeRepo) List(ctx context.Context, term string, limit, offset int) ([]*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM empleados WHERE activo = true`
	args := []any{}
	if term != "" {
		args = append(args, "%"+term+"%")
		query += ` AND (nombres ILIKE $1 OR apellidos ILIKE $1 OR documento_identidad ILIKE $1)`
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY apellidos, nombres LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := []*models.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (r *employeeRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE empleados SET activo = false, updated_at = $1 WHERE id = $2`, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const documentColumns = `id, empleado_id, tipo_documento, nombre_archivo, ruta_storage, tamano_bytes, mime_type,
		subido_por, created_at`

func scanDocument(row pgx.Row) (*models.EmployeeDocument, error) {
	d := &models.EmployeeDocument{}
	err := row.Scan(&d.ID, &d.EmpleadoID, &d.TipoDocumento, &d.NombreArchivo, &d.RutaStorage, &d.TamanoBytes,
		&d.MimeType, &d.SubidoPor, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *employeeRepo) CreateDocument(ctx context.Context, doc *models.EmployeeDocument) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	doc.CreatedAt = time.Now()

	query := `
		INSERT INTO empleado_documentos (id, empleado_id, tipo_documento, nombre_archivo, ruta_storage, tamano_bytes,
			mime_type, subido_por, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query, doc.ID, doc.EmpleadoID, doc.TipoDocumento, doc.NombreArchivo, doc.RutaStorage,
		doc.TamanoBytes, doc.MimeType, doc.SubidoPor, doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert documento: %w", err)
	}
	return nil
}

func (r *employeeRepo) GetDocument(ctx context.Context, id uuid.UUID) (*models.EmployeeDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM empleado_documentos WHERE id = $1`
	d, err := scanDocument(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return d, nil
}

func (r *employeeRepo) ListDocuments(ctx context.Context, empleadoID uuid.UUID) ([]*models.EmployeeDocument, error) {
	query := `SELECT ` + documentColumns + `
		FROM empleado_documentos
		WHERE empleado_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, empleadoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []*models.EmployeeDocument{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (r *employeeRepo) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM empleado_documentos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
