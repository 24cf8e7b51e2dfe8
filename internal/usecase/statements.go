package usecase

import (
	"context"
	"fmt"

	"FinCast/internal/domain/models"
	domrepo "FinCast/internal/domain/repository"
	"FinCast/internal/statement"
)

// StatementUseCase reads stored statements for transport.
type StatementUseCase struct {
	store domrepo.RecordStore
}

func NewStatementUseCase(store domrepo.RecordStore) *StatementUseCase {
	return &StatementUseCase{store: store}
}

// Get loads one stored statement and returns its transport view.
func (uc *StatementUseCase) Get(ctx context.Context, ticker, kind string) (*models.StatementView, error) {
	schema, ok := statement.SchemaFor(kind)
	if !ok {
		return nil, fmt.Errorf("unknown statement kind %q", kind)
	}

	st := statement.New(schema, ticker, "")
	if err := st.Load(ctx, uc.store); err != nil {
		return nil, fmt.Errorf("load statement: %w", err)
	}
	view := st.View(kind)
	return &view, nil
}
