package sos

import (
	"context"
	"strings"
	"time"

	"sos-service/internal/models"
	"sos-service/pkg/database"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type sqlRepository struct {
	db *gorm.DB
}

func NewSQLRepository(db *gorm.DB) Repository {
	return &sqlRepository{
		db: db,
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Alert{}, &models.Response{})
}

func (r *sqlRepository) CreateAlert(ctx context.Context, alert *models.Alert) error {
	if err := r.db.WithContext(ctx).Create(alert).Error; err != nil {
		return errors.Wrap(err, "insert alert")
	}
	return nil
}

func (r *sqlRepository) FindAlertByID(ctx context.Context, id string) (*models.Alert, error) {

	var alert models.Alert

	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&alert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "find alert %s", id)
	}

	return &alert, nil
}

func (r *sqlRepository) CancelAlert(ctx context.Context, id, ownerID string) error {

	res := r.db.WithContext(ctx).
		Model(&models.Alert{}).
		Where("id = ? AND owner_id = ? AND status = ?", id, ownerID, models.StatusActive).
		Updates(map[string]interface{}{
			"status":             models.StatusCancelled,
			"cancelled_by_owner": true,
		})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "cancel alert %s", id)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrInvalidState, "alert %s is no longer active", id)
	}

	return nil
}

func (r *sqlRepository) activeScope(ctx context.Context, q AlertQuery) *gorm.DB {

	tx := r.db.WithContext(ctx).Model(&models.Alert{}).Where("status = ?", models.StatusActive)

	clauses := make([]string, 0, len(models.Categories)+1)
	args := make([]interface{}, 0, 2*(len(models.Categories)+1))
	for _, w := range retentionWindows(q.Now) {
		if len(w.Scope.In) > 0 {
			clauses = append(clauses, "(category IN ? AND created_at >= ?)")
			args = append(args, categoryStrings(w.Scope.In), w.Cutoff)
		} else {
			clauses = append(clauses, "(category NOT IN ? AND created_at >= ?)")
			args = append(args, categoryStrings(w.Scope.NotIn), w.Cutoff)
		}
	}
	tx = tx.Where("("+strings.Join(clauses, " OR ")+")", args...)

	if q.OwnerID != "" {
		tx = tx.Where("owner_id = ?", q.OwnerID)
	}
	if q.ExcludeOwnerID != "" {
		tx = tx.Where("owner_id <> ?", q.ExcludeOwnerID)
	}
	if q.CreatedAfter != nil {
		tx = tx.Where("created_at > ?", *q.CreatedAfter)
	}
	if q.MinLatitude != nil && q.MaxLatitude != nil {
		tx = tx.Where("latitude IS NOT NULL AND longitude IS NOT NULL AND latitude BETWEEN ? AND ?", *q.MinLatitude, *q.MaxLatitude)
	}

	return tx
}

func (r *sqlRepository) FindActiveAlerts(ctx context.Context, q AlertQuery) ([]*models.Alert, error) {

	var alerts []*models.Alert

	err := r.activeScope(ctx, q).
		Order("created_at DESC").
		Order("id DESC").
		Find(&alerts).Error
	if err != nil {
		return nil, errors.Wrap(err, "find active alerts")
	}

	return alerts, nil
}

func (r *sqlRepository) CountActiveAlerts(ctx context.Context, q AlertQuery) (int64, error) {

	var count int64

	if err := r.activeScope(ctx, q).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "count active alerts")
	}

	return count, nil
}

func (r *sqlRepository) DeleteAlertsBefore(ctx context.Context, scope CategoryScope, cutoff time.Time) (int64, error) {

	tx := r.db.WithContext(ctx).Where("created_at < ?", cutoff)
	if len(scope.In) > 0 {
		tx = tx.Where("category IN ?", categoryStrings(scope.In))
	} else {
		tx = tx.Where("category NOT IN ?", categoryStrings(scope.NotIn))
	}

	res := tx.Delete(&models.Alert{})
	if res.Error != nil {
		return 0, errors.Wrapf(res.Error, "delete %s alerts created before %s", scope, cutoff.Format(time.RFC3339))
	}

	return res.RowsAffected, nil
}

func (r *sqlRepository) CreateResponse(ctx context.Context, response *models.Response, resolve bool) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		updates := map[string]interface{}{
			"response_count": gorm.Expr("response_count + ?", 1),
		}
		if resolve {
			updates["status"] = models.StatusResolved
			updates["resolved_at"] = response.CreatedAt
		}

		res := tx.Model(&models.Alert{}).
			Where("id = ? AND status = ?", response.AlertID, models.StatusActive).
			Updates(updates)
		if res.Error != nil {
			return errors.Wrapf(res.Error, "update alert %s", response.AlertID)
		}

		if res.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&models.Alert{}).Where("id = ?", response.AlertID).Count(&n).Error; err != nil {
				return errors.Wrapf(err, "find alert %s", response.AlertID)
			}
			if n == 0 {
				return errors.Wrapf(ErrNotFound, "alert %s", response.AlertID)
			}
			return errors.Wrapf(ErrInvalidState, "alert %s is no longer active", response.AlertID)
		}

		if err := tx.Create(response).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return errors.Wrapf(ErrConflict, "user %s already responded to alert %s", response.ResponderID, response.AlertID)
			}
			return errors.Wrap(err, "insert response")
		}

		return nil
	})
}

func (r *sqlRepository) FindResponseByID(ctx context.Context, id string) (*models.Response, error) {

	var response models.Response

	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&response).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "find response %s", id)
	}

	return &response, nil
}

func (r *sqlRepository) FindResponsesByAlert(ctx context.Context, alertID string) ([]*models.Response, error) {

	var responses []*models.Response

	err := r.db.WithContext(ctx).
		Where("alert_id = ?", alertID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&responses).Error
	if err != nil {
		return nil, errors.Wrapf(err, "find responses for alert %s", alertID)
	}

	return responses, nil
}

func (r *sqlRepository) FindResponsesByResponder(ctx context.Context, responderID string, alertIDs ...string) ([]*models.Response, error) {

	var responses []*models.Response

	tx := r.db.WithContext(ctx).Where("responder_id = ?", responderID)
	if len(alertIDs) > 0 {
		tx = tx.Where("alert_id IN ?", alertIDs)
	}

	err := tx.Order("created_at DESC").Order("id DESC").Find(&responses).Error
	if err != nil {
		return nil, errors.Wrapf(err, "find responses by %s", responderID)
	}

	return responses, nil
}

func (r *sqlRepository) MarkConfirmed(ctx context.Context, id string, at time.Time) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Response{}).
		Where("id = ? AND confirmed = ?", id, false).
		Updates(map[string]interface{}{
			"confirmed":    true,
			"confirmed_at": at,
		})
	if res.Error != nil {
		return false, errors.Wrapf(res.Error, "confirm response %s", id)
	}

	return res.RowsAffected == 1, nil
}

func (r *sqlRepository) RevertConfirmed(ctx context.Context, id string) error {

	res := r.db.WithContext(ctx).
		Model(&models.Response{}).
		Where("id = ? AND confirmed = ?", id, true).
		Updates(map[string]interface{}{
			"confirmed":    false,
			"confirmed_at": nil,
		})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "revert confirmation of response %s", id)
	}

	return nil
}

func (r *sqlRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
