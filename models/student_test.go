package models

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullString(t *testing.T) {
	assert.False(t, NullString("").Valid)
	assert.Equal(t, "x", NullString("x").String)
	assert.True(t, NullString("x").Valid)
}

func TestFullName(t *testing.T) {
	s := Student{
		Nombre1:   NullString("ANA"),
		Apellido1: NullString("PEREZ"),
		Apellido2: NullString("GOMEZ"),
	}
	assert.Equal(t, "ANA PEREZ GOMEZ", s.FullName())
	assert.Equal(t, "", Student{}.FullName())
}

func TestStudentColumnsMatchTags(t *testing.T) {
	typ := reflect.TypeOf(Student{})
	require.Equal(t, len(StudentColumns), typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		assert.Equal(t, StudentColumns[i], field.Tag.Get("db"), field.Name)
		_, tagged := field.Tag.Lookup("json")
		assert.False(t, tagged, field.Name)
	}
}
