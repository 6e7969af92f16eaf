package models

import (
	"time"

	"github.com/google/uuid"
)

// Employee is a row of empleados.
type Employee struct {
	ID                 uuid.UUID  `json:"id" db:"id"`
	Nombres            string     `json:"nombres" db:"nombres" validate:"required,max=120"`
	Apellidos          string     `json:"apellidos" db:"apellidos" validate:"required,max=120"`
	TipoDocumento      string     `json:"tipo_documento" db:"tipo_documento" validate:"required,oneof=CC CE TI PA PPT"`
	DocumentoIdentidad string     `json:"documento_identidad" db:"documento_identidad" validate:"required,max=20"`
	Cargo              *string    `json:"cargo,omitempty" db:"cargo"`
	Area               *string    `json:"area,omitempty" db:"area"`
	Telefono           *string    `json:"telefono,omitempty" db:"telefono"`
	Correo             *string    `json:"correo,omitempty" db:"correo" validate:"omitempty,email"`
	Direccion          *string    `json:"direccion,omitempty" db:"direccion"`
	FechaIngreso       *string    `json:"fecha_ingreso,omitempty" db:"fecha_ingreso"`
	TipoVinculacion    *string    `json:"tipo_vinculacion,omitempty" db:"tipo_vinculacion"`
	Activo             bool       `json:"activo" db:"activo"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
	CreatedBy          *uuid.UUID `json:"created_by,omitempty" db:"created_by"`
}

// EmployeeTalent is the HR record of an employee.
type EmployeeTalent struct {
	EmpleadoID       uuid.UUID `json:"empleado_id" db:"empleado_id"`
	TipoContrato     *string   `json:"tipo_contrato,omitempty" db:"tipo_contrato"`
	Eps              *string   `json:"eps,omitempty" db:"eps"`
	Afp              *string   `json:"afp,omitempty" db:"afp"`
	Arl              *string   `json:"arl,omitempty" db:"arl"`
	CajaCompensacion *string   `json:"caja_compensacion,omitempty" db:"caja_compensacion"`
	FechaFinContrato *string   `json:"fecha_fin_contrato,omitempty" db:"fecha_fin_contrato"`
}

// Empty reports whether no HR field is set.
func (t *EmployeeTalent) Empty() bool {
	return t == nil || (t.TipoContrato == nil && t.Eps == nil && t.Afp == nil && t.Arl == nil &&
		t.CajaCompensacion == nil && t.FechaFinContrato == nil)
}

// EmployeeSST is the occupational health record of an employee.
type EmployeeSST struct {
	EmpleadoID        uuid.UUID `json:"empleado_id" db:"empleado_id"`
	ExamenesMedicos   *bool     `json:"examenes_medicos,omitempty" db:"examenes_medicos"`
	FechaExamen       *string   `json:"fecha_examen,omitempty" db:"fecha_examen"`
	CursoManipulacion *bool     `json:"curso_manipulacion,omitempty" db:"curso_manipulacion"`
	FechaCurso        *string   `json:"fecha_curso,omitempty" db:"fecha_curso"`
	Restricciones     *string   `json:"restricciones,omitempty" db:"restricciones"`
}

// Empty reports whether no SST field is set.
func (s *EmployeeSST) Empty() bool {
	return s == nil || (s.ExamenesMedicos == nil && s.FechaExamen == nil && s.CursoManipulacion == nil &&
		s.FechaCurso == nil && s.Restricciones == nil)
}

// EmployeeFull is the payload of a complete employee creation.
type EmployeeFull struct {
	Empleado      Employee        `json:"empleado" validate:"required"`
	TalentoHumano *EmployeeTalent `json:"talento_humano,omitempty"`
	SST           *EmployeeSST    `json:"sst,omitempty"`
}

// EmployeeDocument is a file stored for an employee.
type EmployeeDocument struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	EmpleadoID    uuid.UUID  `json:"empleado_id" db:"empleado_id"`
	TipoDocumento string     `json:"tipo_documento" db:"tipo_documento"`
	NombreArchivo string     `json:"nombre_archivo" db:"nombre_archivo"`
	RutaStorage   string     `json:"ruta_storage" db:"ruta_storage"`
	TamanoBytes   int64      `json:"tamano_bytes" db:"tamano_bytes"`
	MimeType      string     `json:"mime_type" db:"mime_type"`
	SubidoPor     *uuid.UUID `json:"subido_por,omitempty" db:"subido_por"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}
