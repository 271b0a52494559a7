package sos

import (
	"context"
	"time"

	"sos-service/internal/models"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	alertsCollection    = "sos_alerts"
	responsesCollection = "sos_responses"
)

type mongoRepository struct {
	client    *mongo.Client
	alerts    *mongo.Collection
	responses *mongo.Collection
}

// NewMongoRepository needs a replica set deployment: responses are written in a transaction.
func NewMongoRepository(db *mongo.Database) Repository {
	return &mongoRepository{
		client:    db.Client(),
		alerts:    db.Collection(alertsCollection),
		responses: db.Collection(responsesCollection),
	}
}

func (r *mongoRepository) CreateAlert(ctx context.Context, alert *models.Alert) error {

	_, err := r.alerts.InsertOne(ctx, alert)
	if err != nil {
		return errors.Wrap(err, "insert alert")
	}

	return nil
}

func (r *mongoRepository) FindAlertByID(ctx context.Context, id string) (*models.Alert, error) {

	var alert models.Alert

	err := r.alerts.FindOne(ctx, bson.M{"_id": id}).Decode(&alert)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "find alert %s", id)
	}

	return &alert, nil
}

func (r *mongoRepository) CancelAlert(ctx context.Context, id, ownerID string) error {

	res, err := r.alerts.UpdateOne(ctx,
		bson.M{"_id": id, "owner_id": ownerID, "status": models.StatusActive},
		bson.M{"$set": bson.M{"status": models.StatusCancelled, "cancelled_by_owner": true}},
	)
	if err != nil {
		return errors.Wrapf(err, "cancel alert %s", id)
	}
	if res.MatchedCount == 0 {
		return errors.Wrapf(ErrInvalidState, "alert %s is no longer active", id)
	}

	return nil
}

func activeFilter(q AlertQuery) bson.M {

	windows := retentionWindows(q.Now)
	or := make(bson.A, 0, len(windows))
	for _, w := range windows {
		category := bson.M{"$nin": categoryStrings(w.Scope.NotIn)}
		if len(w.Scope.In) > 0 {
			category = bson.M{"$in": categoryStrings(w.Scope.In)}
		}
		or = append(or, bson.M{
			"category":   category,
			"created_at": bson.M{"$gte": w.Cutoff},
		})
	}

	filter := bson.M{
		"status": models.StatusActive,
		"$or":    or,
	}

	owner := bson.M{}
	if q.OwnerID != "" {
		owner["$eq"] = q.OwnerID
	}
	if q.ExcludeOwnerID != "" {
		owner["$ne"] = q.ExcludeOwnerID
	}
	if len(owner) > 0 {
		filter["owner_id"] = owner
	}

	if q.CreatedAfter != nil {
		// created_at already carries the retention bound inside $or
		filter["$and"] = bson.A{bson.M{"created_at": bson.M{"$gt": *q.CreatedAfter}}}
	}

	if q.MinLatitude != nil && q.MaxLatitude != nil {
		filter["latitude"] = bson.M{"$gte": *q.MinLatitude, "$lte": *q.MaxLatitude}
		filter["longitude"] = bson.M{"$exists": true, "$ne": nil}
	}

	return filter
}

func (r *mongoRepository) FindActiveAlerts(ctx context.Context, q AlertQuery) ([]*models.Alert, error) {

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.alerts.Find(ctx, activeFilter(q), opts)
	if err != nil {
		return nil, errors.Wrap(err, "find active alerts")
	}

	var alerts []*models.Alert
	if err := cursor.All(ctx, &alerts); err != nil {
		return nil, errors.Wrap(err, "decode active alerts")
	}

	return alerts, nil
}

func (r *mongoRepository) CountActiveAlerts(ctx context.Context, q AlertQuery) (int64, error) {

	n, err := r.alerts.CountDocuments(ctx, activeFilter(q))
	if err != nil {
		return 0, errors.Wrap(err, "count active alerts")
	}

	return n, nil
}

func (r *mongoRepository) DeleteAlertsBefore(ctx context.Context, scope CategoryScope, cutoff time.Time) (int64, error) {

	category := bson.M{"$nin": categoryStrings(scope.NotIn)}
	if len(scope.In) > 0 {
		category = bson.M{"$in": categoryStrings(scope.In)}
	}

	res, err := r.alerts.DeleteMany(ctx, bson.M{
		"category":   category,
		"created_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, errors.Wrapf(err, "delete %s alerts created before %s", scope, cutoff.Format(time.RFC3339))
	}

	return res.DeletedCount, nil
}

func (r *mongoRepository) CreateResponse(ctx context.Context, response *models.Response, resolve bool) error {

	session, err := r.client.StartSession()
	if err != nil {
		return errors.Wrap(err, "start session")
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {

		update := bson.M{"$inc": bson.M{"response_count": 1}}
		if resolve {
			update["$set"] = bson.M{
				"status":      models.StatusResolved,
				"resolved_at": response.CreatedAt,
			}
		}

		res, err := r.alerts.UpdateOne(sc, bson.M{"_id": response.AlertID, "status": models.StatusActive}, update)
		if err != nil {
			return nil, errors.Wrapf(err, "update alert %s", response.AlertID)
		}

		if res.MatchedCount == 0 {
			n, err := r.alerts.CountDocuments(sc, bson.M{"_id": response.AlertID})
			if err != nil {
				return nil, errors.Wrapf(err, "find alert %s", response.AlertID)
			}
			if n == 0 {
				return nil, errors.Wrapf(ErrNotFound, "alert %s", response.AlertID)
			}
			return nil, errors.Wrapf(ErrInvalidState, "alert %s is no longer active", response.AlertID)
		}

		if _, err := r.responses.InsertOne(sc, response); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, errors.Wrapf(ErrConflict, "user %s already responded to alert %s", response.ResponderID, response.AlertID)
			}
			return nil, errors.Wrap(err, "insert response")
		}

		return nil, nil
	})

	return err
}

func (r *mongoRepository) FindResponseByID(ctx context.Context, id string) (*models.Response, error) {

	var response models.Response

	err := r.responses.FindOne(ctx, bson.M{"_id": id}).Decode(&response)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "find response %s", id)
	}

	return &response, nil
}

func (r *mongoRepository) findResponses(ctx context.Context, filter bson.M) ([]*models.Response, error) {

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.responses.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var responses []*models.Response
	if err := cursor.All(ctx, &responses); err != nil {
		return nil, err
	}

	return responses, nil
}

func (r *mongoRepository) FindResponsesByAlert(ctx context.Context, alertID string) ([]*models.Response, error) {

	responses, err := r.findResponses(ctx, bson.M{"alert_id": alertID})
	if err != nil {
		return nil, errors.Wrapf(err, "find responses for alert %s", alertID)
	}

	return responses, nil
}

func (r *mongoRepository) FindResponsesByResponder(ctx context.Context, responderID string, alertIDs ...string) ([]*models.Response, error) {

	filter := bson.M{"responder_id": responderID}
	if len(alertIDs) > 0 {
		filter["alert_id"] = bson.M{"$in": alertIDs}
	}

	responses, err := r.findResponses(ctx, filter)
	if err != nil {
		return nil, errors.Wrapf(err, "find responses by %s", responderID)
	}

	return responses, nil
}

func (r *mongoRepository) MarkConfirmed(ctx context.Context, id string, at time.Time) (bool, error) {

	res, err := r.responses.UpdateOne(ctx,
		bson.M{"_id": id, "confirmed": false},
		bson.M{"$set": bson.M{"confirmed": true, "confirmed_at": at}},
	)
	if err != nil {
		return false, errors.Wrapf(err, "confirm response %s", id)
	}

	return res.ModifiedCount == 1, nil
}

func (r *mongoRepository) RevertConfirmed(ctx context.Context, id string) error {

	_, err := r.responses.UpdateOne(ctx,
		bson.M{"_id": id, "confirmed": true},
		bson.M{
			"$set":   bson.M{"confirmed": false},
			"$unset": bson.M{"confirmed_at": ""},
		},
	)
	if err != nil {
		return errors.Wrapf(err, "revert confirmation of response %s", id)
	}

	return nil
}

func (r *mongoRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

// EnsureIndexes creates the indexes the repository relies on, including the
// unique (alert_id, responder_id) index that makes duplicate responses impossible.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {

	alertModels := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "category", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().
				SetName("status_category_created"),
		},
		{
			Keys: bson.D{
				{Key: "owner_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().
				SetName("by_owner_created"),
		},
		{
			Keys: bson.D{{Key: "latitude", Value: 1}},
			Options: options.Index().
				SetName("by_latitude").
				SetSparse(true),
		},
	}
	if _, err := db.Collection(alertsCollection).Indexes().CreateMany(ctx, alertModels); err != nil {
		return errors.Wrap(err, "create alert indexes")
	}

	responseModels := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "alert_id", Value: 1},
				{Key: "responder_id", Value: 1},
			},
			Options: options.Index().
				SetName("alert_responder_unique").
				SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "responder_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().
				SetName("by_responder_created"),
		},
	}
	if _, err := db.Collection(responsesCollection).Indexes().CreateMany(ctx, responseModels); err != nil {
		return errors.Wrap(err, "create response indexes")
	}

	return nil
}
