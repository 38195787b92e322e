package postgres

import (
	"context"
	"errors"

	loanDatamodel "github.com/frahmantamala/asset-tracking/internal/core/datamodel/loan"
	"gorm.io/gorm"
)

type LoanRepository struct {
	db *gorm.DB
}

func NewLoanRepository(db *gorm.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

func (r *LoanRepository) List(ctx context.Context, limit int) ([]*loanDatamodel.Loan, error) {
	var loans []*loanDatamodel.Loan
	q := r.db.WithContext(ctx).Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&loans).Error
	return loans, err
}

func (r *LoanRepository) GetByID(ctx context.Context, id string) (*loanDatamodel.Loan, error) {
	var l loanDatamodel.Loan
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *LoanRepository) Create(ctx context.Context, l *loanDatamodel.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}
