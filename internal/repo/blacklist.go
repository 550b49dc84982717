package repo

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/qnrlabs/order_service/internal/models"
)

// AddBlacklistedToken inserts a revocation entry. The insert ignores
// conflicts on the unique token column, so two concurrent logouts of the
// same token both succeed and the first entry wins.
func (r *GormRepo) AddBlacklistedToken(ctx context.Context, entry *models.BlacklistedToken) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token"}},
			DoNothing: true,
		}).
		Create(entry).Error
}

func (r *GormRepo) BlacklistedTokenExists(ctx context.Context, fingerprint string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.BlacklistedToken{}).
		Where("token = ?", fingerprint).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
