package user

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type sqlDirectory struct {
	db *gorm.DB
}

func NewSQLDirectory(db *gorm.DB) Directory {
	return &sqlDirectory{
		db: db,
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{})
}

func (d *sqlDirectory) FindByID(ctx context.Context, id string) (*User, error) {
	return d.findOne(ctx, "id = ?", id)
}

func (d *sqlDirectory) FindByUsername(ctx context.Context, username string) (*User, error) {
	return d.findOne(ctx, "username = ?", username)
}

func (d *sqlDirectory) findOne(ctx context.Context, query string, arg interface{}) (*User, error) {

	var u User

	err := d.db.WithContext(ctx).Where(query, arg).Take(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "find user")
	}

	return &u, nil
}

func (d *sqlDirectory) FindByIDs(ctx context.Context, ids []string) (map[string]*User, error) {

	users := make(map[string]*User)
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return users, nil
	}

	var found []*User
	if err := d.db.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, errors.Wrap(err, "find users")
	}

	for _, u := range found {
		users[u.ID] = u
	}

	return users, nil
}

func (d *sqlDirectory) IncrementPoints(ctx context.Context, id string, delta int64) error {

	res := d.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		UpdateColumn("leaderboard_points", gorm.Expr("leaderboard_points + ?", delta))
	if res.Error != nil {
		return errors.Wrapf(res.Error, "increment points for user %s", id)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrUserNotFound, "increment points for user %s", id)
	}

	return nil
}

func (d *sqlDirectory) TopByPoints(ctx context.Context, limit int) ([]*User, error) {

	var users []*User

	err := d.db.WithContext(ctx).
		Order("leaderboard_points DESC").
		Order("id ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, errors.Wrap(err, "find top users")
	}

	return users, nil
}

func (d *sqlDirectory) SetLastAlertCheck(ctx context.Context, id string, at time.Time) (bool, error) {

	res := d.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		UpdateColumn("last_alert_check_at", at)
	if res.Error != nil {
		return false, errors.Wrapf(res.Error, "set last alert check for user %s", id)
	}

	return res.RowsAffected > 0, nil
}
