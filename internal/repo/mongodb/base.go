package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/nguyentranbao-ct/catalog-discovery/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

// keep the baseRepo implementation in sync with IRepository interface
var _ IRepository[IEntity] = (*baseRepo[IEntity])(nil)

type IEntity interface {
	CollectionName() string
}

type PaginateWithTotal[E any] struct {
	Total int64
	Data  []E
}

// IRepository is read-only; the catalog is written by other tooling.
type IRepository[E IEntity] interface {
	Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]E, error)
	FindByID(ctx context.Context, docID string) (E, error)
	FindOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (E, error)
	Paginate(ctx context.Context, filter bson.M, limit int64, skip int64, opts ...*options.FindOptions) ([]E, error)
	PaginateWithTotal(ctx context.Context, filter bson.M, limit int64, skip int64, opts ...*options.FindOptions) (*PaginateWithTotal[E], error)
	Iterate(ctx context.Context, filter bson.M, fn func(E) error, opts ...*options.FindOptions) error
}

type baseRepo[E IEntity] struct {
	coll *mongo.Collection
}

func newBaseRepo[E IEntity](dbc *mongo.Database) baseRepo[E] {
	var entity E
	return baseRepo[E]{
		coll: dbc.Collection(entity.CollectionName()),
	}
}

func (r *baseRepo[E]) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]E, error) {
	cursor, err := r.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	var entities []E
	if err := cursor.All(ctx, &entities); err != nil {
		return nil, fmt.Errorf("cursor all: %w", err)
	}
	return entities, nil
}

func (r *baseRepo[E]) FindByID(ctx context.Context, docID string) (E, error) {
	var zero E
	if !models.IsCanonicalID(docID) {
		return zero, models.ErrInvalidID
	}
	return r.FindOne(ctx, bson.M{"_id": models.ObjectID(docID)})
}

func (r *baseRepo[E]) FindOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (E, error) {
	var entity E
	err := r.coll.FindOne(ctx, filter, opts...).Decode(&entity)
	if errors.Is(err, mongo.ErrNoDocuments) {
		var zero E
		return zero, models.ErrNotFound
	}
	if err != nil {
		var zero E
		return zero, fmt.Errorf("find one: %w", err)
	}
	return entity, nil
}

func (r *baseRepo[E]) Paginate(ctx context.Context, filter bson.M, limit int64, skip int64, opts ...*options.FindOptions) ([]E, error) {
	opts = append(opts, options.Find().SetSkip(skip).SetLimit(limit))
	return r.Find(ctx, filter, opts...)
}

// PaginateWithTotal runs the page query and the count concurrently. The
// count uses the same filter and ignores skip/limit.
func (r *baseRepo[E]) PaginateWithTotal(ctx context.Context, filter bson.M, limit int64, skip int64, opts ...*options.FindOptions) (*PaginateWithTotal[E], error) {
	group, ctx := errgroup.WithContext(ctx)
	var entities []E
	var total int64

	group.Go(func() error {
		var err error
		entities, err = r.Paginate(ctx, filter, limit, skip, opts...)
		return err
	})

	group.Go(func() error {
		var err error
		total, err = r.coll.CountDocuments(ctx, filter)
		if err != nil {
			return fmt.Errorf("count documents: %w", err)
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return &PaginateWithTotal[E]{Total: total, Data: entities}, nil
}

var ErrStop = errors.New("stop")

func (r *baseRepo[E]) Iterate(ctx context.Context, filter bson.M, fn func(E) error, opts ...*options.FindOptions) error {
	cursor, err := r.coll.Find(ctx, filter, opts...)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var entity E
		if err := cursor.Decode(&entity); err != nil {
			return err
		}

		err := fn(entity)
		if errors.Is(err, ErrStop) {
			return nil
		}
		if err != nil {
			return err
		}
	}

	return cursor.Err()
}
