package migrations

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockLister struct {
	mock.Mock
}

func (m *mockLister) ListTables(ctx context.Context, schema string) ([]string, error) {
	args := m.Called(ctx, schema)
	tables, _ := args.Get(0).([]string)
	return tables, args.Error(1)
}

func TestVerifyTables(t *testing.T) {
	ctx := context.Background()
	lister := new(mockLister)
	lister.On("ListTables", ctx, "relacional").Return([]string{"Estudiantes", "programas"}, nil)

	assert.NoError(t, VerifyTables(ctx, lister, "relacional"))

	err := VerifyTables(ctx, lister, "relacional", "estudiantes", "graduados")
	assert.ErrorContains(t, err, "graduados")
	lister.AssertExpectations(t)
}

func TestVerifyTablesPropagatesErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection refused")
	lister := new(mockLister)
	lister.On("ListTables", ctx, "public").Return(nil, boom)

	assert.ErrorIs(t, VerifyTables(ctx, lister, "public"), boom)
}
