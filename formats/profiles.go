package formats

import (
	"fmt"
	"strings"
)

// Format selects the spreadsheet layout being processed
type Format string

const (
	Activos Format = "activos"
	Moodle  Format = "moodle"
	Grados  Format = "grados"
)

// Canonical student labels
const (
	Cedula    = "CEDULA"
	Apellido1 = "APELLIDO1"
	Apellido2 = "APELLIDO2"
	Nombre1   = "NOMBRE1"
	Nombre2   = "NOMBRE2"
	Telefono  = "TELEFONO"
	Correo    = "CORREO"
	EstadoU   = "estado_u"
	Jornada   = "jornada"
	SheetName = "SheetName"
	FileName  = "FileName"
)

// StudentSchema is the canonical output order for student exports
var StudentSchema = []string{
	Cedula, Apellido1, Apellido2, Nombre1, Nombre2,
	Telefono, Correo, EstadoU, Jornada, SheetName, FileName,
}

// ColumnMapping renames a source label to its destination label
type ColumnMapping struct {
	SourceColumn      string
	DestinationColumn string
}

// NameSplit splits a source column on its first whitespace run into two columns
type NameSplit struct {
	SourceColumn string
	Primary      string
	Remainder    string
}

// Layout restricts the part of a sheet that is read. SkipRows rows are
// discarded before the header row; columns outside FirstColumn..LastColumn
// are ignored. Empty column bounds mean the whole row.
type Layout struct {
	SkipRows    int
	FirstColumn string
	LastColumn  string
}

// Profile is the named configuration for one spreadsheet format
type Profile struct {
	Format           Format
	Description      string
	Layout           Layout
	Required         []string
	Splits           []NameSplit
	Mappings         []ColumnMapping
	Keep             []string // when set, only these labels survive normalization
	Schema           []string
	IdentityColumns  []string
	DeriveCategories bool
	LowerCaseHeaders bool
}

var activosProfile = Profile{
	Format:      Activos,
	Description: "Estudiantes Activos",
	Layout:      Layout{SkipRows: 6, FirstColumn: "B", LastColumn: "H"},
	Mappings: []ColumnMapping{
		{"APELLIDO 1", Apellido1},
		{"APELLIDO 2", Apellido2},
		{"NOMBRE 1", Nombre1},
		{"NOMBRE 2", Nombre2},
		{"# CELULAR", Telefono},
		{"CELULAR", Telefono},
		{"CORREO ELECTRONICO", Correo},
		{"CORREO ELECTRÓNICO", Correo},
	},
	Schema:           StudentSchema,
	IdentityColumns:  []string{Cedula, Telefono},
	DeriveCategories: true,
}

var moodleProfile = Profile{
	Format:      Moodle,
	Description: "Estudiantes Moodle",
	Required:    []string{"firstname", "lastname", "idnumber", "profile_field_Proaca", "email"},
	Splits: []NameSplit{
		{SourceColumn: "firstname", Primary: Nombre1, Remainder: Nombre2},
		{SourceColumn: "lastname", Primary: Apellido1, Remainder: Apellido2},
	},
	Mappings: []ColumnMapping{
		{"idnumber", Cedula},
		{"profile_field_Proaca", EstadoU},
		{"email", Correo},
	},
	Keep:             []string{Cedula, Apellido1, Apellido2, Nombre1, Nombre2, Correo, EstadoU},
	Schema:           StudentSchema,
	IdentityColumns:  []string{Cedula, Telefono},
	LowerCaseHeaders: true,
}

var gradosProfile = Profile{
	Format:      Grados,
	Description: "Graduados",
	Layout:      Layout{SkipRows: 6, FirstColumn: "B", LastColumn: "H"},
	Mappings: []ColumnMapping{
		{"DOCUMENTO", "documento"},
		{"TIPO DE DOCUMENTO", "tipo de documento"},
		{"APELLIDO 1", "apellido1"},
		{"APELLIDO 2", "apellido2"},
		{"NOMBRE 1", "nombre1"},
		{"NOMBRE 2", "nombre2"},
		{"EXPEDICIÓN", "expedicion"},
		{"ACTA DE GRADO NO.", "acta de grado no."},
		{"LIBRO DE GRADO NO.", "libro de grado no."},
		{"FOLIO NO.", "folio no."},
		{"TÍTULO", "titulo"},
		{"DÍA DE GRADUACIÓN", "dia de graduacion"},
		{"SNIES PROGRAMA", "SNIES programa"},
		{"DIRECCIÓN", "direccion"},
		{"TELÉFONO", "telefono"},
		{"CORREO ELECTRÓNICO", "correo electronico"},
	},
	Schema: []string{
		"documento", "tipo de documento", "apellido1", "apellido2", "nombre1", "nombre2",
		"expedicion", "acta de grado no.", "libro de grado no.", "folio no.", "titulo",
		"dia de graduacion", "SNIES programa", "direccion", "telefono", "correo electronico",
		SheetName, FileName,
	},
}

var profiles = map[Format]Profile{
	Activos: activosProfile,
	Moodle:  moodleProfile,
	Grados:  gradosProfile,
}

// Formats lists the supported formats in menu order
func Formats() []Format {
	return []Format{Activos, Moodle, Grados}
}

// Lookup returns the profile for f
func Lookup(f Format) (Profile, error) {
	p, ok := profiles[f]
	if !ok {
		return Profile{}, fmt.Errorf("unknown format: %q", string(f))
	}
	return p, nil
}

// Parse resolves a user supplied format name. Besides the format identifiers
// it accepts the profile descriptions ("Estudiantes Activos", ...).
func Parse(name string) (Format, error) {
	clean := strings.ToLower(strings.TrimSpace(name))
	for _, f := range Formats() {
		p := profiles[f]
		if clean == string(f) || clean == strings.ToLower(p.Description) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format: %q", name)
}

// OutputLabel returns how label is written for this profile
func (p Profile) OutputLabel(label string) string {
	if p.LowerCaseHeaders {
		return strings.ToLower(label)
	}
	return label
}

// Known reports whether label is a mapping source, a mapping destination or
// a schema column of the profile.
func (p Profile) Known(label string) bool {
	for _, m := range p.Mappings {
		if m.SourceColumn == label || m.DestinationColumn == label {
			return true
		}
	}
	for _, s := range p.Splits {
		if s.SourceColumn == label {
			return true
		}
	}
	for _, c := range p.Schema {
		if c == label {
			return true
		}
	}
	for _, c := range p.Required {
		if c == label {
			return true
		}
	}
	return false
}
