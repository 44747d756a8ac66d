package models

import "database/sql"

// Student is one row of the estudiantes table, keyed by Cedula
type Student struct {
	Cedula    string         `db:"cedula"`
	Apellido1 sql.NullString `db:"apellido1"`
	Apellido2 sql.NullString `db:"apellido2"`
	Nombre1   sql.NullString `db:"nombre1"`
	Nombre2   sql.NullString `db:"nombre2"`
	Telefono  sql.NullString `db:"telefono"`
	Correo    sql.NullString `db:"correo"`
	EstadoU   sql.NullString `db:"estado_u"`
	Jornada   sql.NullString `db:"jornada"`
	SheetName sql.NullString `db:"sheetname"`
	FileName  sql.NullString `db:"filename"`
}

// StudentColumns lists the persisted columns in table order
var StudentColumns = []string{
	"cedula", "apellido1", "apellido2", "nombre1", "nombre2",
	"telefono", "correo", "estado_u", "jornada", "sheetname", "filename",
}

// NullString maps an empty string to NULL
func NullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// FullName joins the name parts that are present
func (s Student) FullName() string {
	name := ""
	for _, part := range []sql.NullString{s.Nombre1, s.Nombre2, s.Apellido1, s.Apellido2} {
		if !part.Valid || part.String == "" {
			continue
		}
		if name != "" {
			name += " "
		}
		name += part.String
	}
	return name
}
