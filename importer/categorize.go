package importer

import (
	"strings"

	"github.com/consultorio-iudc/estudiantes_db/dataset"
	"github.com/consultorio-iudc/estudiantes_db/formats"
)

// categoryRule assigns value to a file whose name satisfies match
type categoryRule struct {
	match func(fileName string) bool
	value string
}

func contains(subs ...string) func(string) bool {
	return func(fileName string) bool {
		for _, s := range subs {
			if strings.Contains(fileName, s) {
				return true
			}
		}
		return false
	}
}

// Evaluated top to bottom, first match wins. Order is significant.
var jornadaRules = []categoryRule{
	{contains("FS"), "FS"},
	{contains("DIU"), "DIU"},
	{contains("NOC", "ESPECIALIZA"), "NOC"},
}

var estadoRules = []categoryRule{
	{contains("DIPLOMADO"), "Diplomado"},
	{contains("TECNICO"), "Tecnico"},
	{contains("PROF", "DERECHO"), "Profesional"},
	{contains("ESPECIALIZA"), "Especialización"},
}

func classify(rules []categoryRule, fileName string) string {
	for _, r := range rules {
		if r.match(fileName) {
			return r.value
		}
	}
	return ""
}

// Jornada returns the class shift encoded in a file name, or "" when none matches
func Jornada(fileName string) string {
	return classify(jornadaRules, fileName)
}

// EstadoU returns the program level encoded in a file name, or "" when none matches
func EstadoU(fileName string) string {
	return classify(estadoRules, fileName)
}

// DeriveCategories overwrites jornada and estado_u of every row from its FileName
func DeriveCategories(d *dataset.Dataset) {
	file := d.Index(formats.FileName)
	name := func(row int) string {
		if file == -1 {
			return ""
		}
		return d.Rows[row][file]
	}
	d.SetColumn(formats.Jornada, func(row int) string { return Jornada(name(row)) })
	d.SetColumn(formats.EstadoU, func(row int) string { return EstadoU(name(row)) })
}
