package user

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoDirectory struct {
	collection *mongo.Collection
}

func NewMongoDirectory(collection *mongo.Collection) Directory {
	return &mongoDirectory{
		collection: collection,
	}
}

func (d *mongoDirectory) FindByID(ctx context.Context, id string) (*User, error) {
	return d.findOne(ctx, bson.M{"_id": id})
}

func (d *mongoDirectory) FindByUsername(ctx context.Context, username string) (*User, error) {
	return d.findOne(ctx, bson.M{"username": username})
}

func (d *mongoDirectory) findOne(ctx context.Context, filter bson.M) (*User, error) {

	var u User

	err := d.collection.FindOne(ctx, filter).Decode(&u)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, errors.Wrap(err, "find user")
	}

	return &u, nil
}

func (d *mongoDirectory) FindByIDs(ctx context.Context, ids []string) (map[string]*User, error) {

	users := make(map[string]*User)
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return users, nil
	}

	cursor, err := d.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, errors.Wrap(err, "find users")
	}

	var found []*User
	if err := cursor.All(ctx, &found); err != nil {
		return nil, errors.Wrap(err, "decode users")
	}

	for _, u := range found {
		users[u.ID] = u
	}

	return users, nil
}

func (d *mongoDirectory) IncrementPoints(ctx context.Context, id string, delta int64) error {

	res, err := d.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"leaderboard_points": delta}},
	)
	if err != nil {
		return errors.Wrapf(err, "increment points for user %s", id)
	}
	if res.MatchedCount == 0 {
		return errors.Wrapf(ErrUserNotFound, "increment points for user %s", id)
	}

	return nil
}

func (d *mongoDirectory) TopByPoints(ctx context.Context, limit int) ([]*User, error) {

	opts := options.Find().
		SetSort(bson.D{{Key: "leaderboard_points", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := d.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find top users")
	}

	var users []*User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, errors.Wrap(err, "decode top users")
	}

	return users, nil
}

func (d *mongoDirectory) SetLastAlertCheck(ctx context.Context, id string, at time.Time) (bool, error) {

	res, err := d.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"last_alert_check_at": at}},
	)
	if err != nil {
		return false, errors.Wrapf(err, "set last alert check for user %s", id)
	}

	return res.MatchedCount > 0, nil
}

func EnsureUserIndexes(ctx context.Context, coll *mongo.Collection) error {

	models := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "username", Value: 1}},
			Options: options.Index().
				SetName("username_unique").
				SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "leaderboard_points", Value: -1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().
				SetName("by_points"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, models)
	return err
}
