package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sheetboard/internal/domain"
)

const (
	usersColl        = "users"
	filesColl        = "files"
	subscribersColl  = "subscribers"
	testimonialsColl = "testimonials"
)

// EnsureMongoIndexes creates the unique email index and the per-owner file listing index.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection(usersColl).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("users index: %w", err)
	}
	if _, err := db.Collection(filesColl).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: -1}},
	}); err != nil {
		return fmt.Errorf("files index: %w", err)
	}
	return nil
}

type MongoUserRepo struct {
	users *mongo.Collection
	files *mongo.Collection
}

func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{users: db.Collection(usersColl), files: db.Collection(filesColl)}
}

func (r *MongoUserRepo) Create(ctx context.Context, u *domain.User) error {
	stamp(&u.CreatedAt, &u.UpdatedAt)
	if _, err := r.users.InsertOne(ctx, userToDoc(u)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *MongoUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": domain.NormalizeEmail(email)})
}

func (r *MongoUserRepo) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var d userDoc
	err := r.users.FindOne(ctx, filter).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return d.toDomain(), nil
}

func (r *MongoUserRepo) List(ctx context.Context) ([]domain.User, error) {
	cur, err := r.users.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]domain.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, *d.toDomain())
	}
	return out, nil
}

func (r *MongoUserRepo) Update(ctx context.Context, u *domain.User) error {
	stamp(&u.CreatedAt, &u.UpdatedAt)
	_, err := r.users.ReplaceOne(ctx, bson.M{"_id": u.ID}, userToDoc(u))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// DeleteWithFiles runs without a transaction: files go first, then the user.
func (r *MongoUserRepo) DeleteWithFiles(ctx context.Context, id string) (bool, error) {
	n, err := r.users.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete user %s: %w", id, err)
	}
	if n == 0 {
		return false, nil
	}
	if _, err := r.files.DeleteMany(ctx, bson.M{"owner": id}); err != nil {
		return false, fmt.Errorf("delete files of %s: %w", id, err)
	}
	res, err := r.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("delete user %s: %w", id, err)
	}
	return res.DeletedCount > 0, nil
}

type MongoFileRepo struct{ files *mongo.Collection }

func NewMongoFileRepo(db *mongo.Database) *MongoFileRepo {
	return &MongoFileRepo{files: db.Collection(filesColl)}
}

func (r *MongoFileRepo) Create(ctx context.Context, f *domain.File) error {
	stamp(&f.CreatedAt, &f.UpdatedAt)
	if _, err := r.files.InsertOne(ctx, fileToDoc(f)); err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	return nil
}

func (r *MongoFileRepo) FindByID(ctx context.Context, id string) (*domain.File, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoFileRepo) FindOwned(ctx context.Context, id, ownerID string) (*domain.File, error) {
	return r.findOne(ctx, bson.M{"_id": id, "owner": ownerID})
}

func (r *MongoFileRepo) findOne(ctx context.Context, filter bson.M) (*domain.File, error) {
	var d fileDoc
	err := r.files.FindOne(ctx, filter).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find file: %w", err)
	}
	f := d.toDomain()
	return &f, nil
}

func (r *MongoFileRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.File, error) {
	return r.find(ctx, bson.M{"owner": ownerID})
}

func (r *MongoFileRepo) ListAll(ctx context.Context) ([]domain.File, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoFileRepo) find(ctx context.Context, filter bson.M) ([]domain.File, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.files.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	var docs []fileDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	out := make([]domain.File, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *MongoFileRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.files.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete file %s: %w", id, err)
	}
	return nil
}

func (r *MongoFileRepo) UsageByOwner(ctx context.Context) (map[string]domain.Usage, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$owner"},
			{Key: "fileCount", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "totalBytes", Value: bson.D{{Key: "$sum", Value: "$size"}}},
		}}},
	}
	cur, err := r.files.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("file usage: %w", err)
	}
	var rows []struct {
		OwnerID    string `bson:"_id"`
		FileCount  int64  `bson:"fileCount"`
		TotalBytes int64  `bson:"totalBytes"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("file usage: %w", err)
	}
	out := make(map[string]domain.Usage, len(rows))
	for _, row := range rows {
		out[row.OwnerID] = domain.Usage{FileCount: row.FileCount, TotalBytes: row.TotalBytes}
	}
	return out, nil
}

type MongoSubscriberRepo struct{ coll *mongo.Collection }

func NewMongoSubscriberRepo(db *mongo.Database) *MongoSubscriberRepo {
	return &MongoSubscriberRepo{coll: db.Collection(subscribersColl)}
}

func (r *MongoSubscriberRepo) Create(ctx context.Context, s *domain.Subscriber) error {
	var updated time.Time
	stamp(&s.CreatedAt, &updated)
	_, err := r.coll.InsertOne(ctx, bson.M{"_id": s.ID, "email": s.Email, "createdAt": s.CreatedAt})
	if err != nil {
		return fmt.Errorf("create subscriber: %w", err)
	}
	return nil
}

type MongoTestimonialRepo struct{ coll *mongo.Collection }

func NewMongoTestimonialRepo(db *mongo.Database) *MongoTestimonialRepo {
	return &MongoTestimonialRepo{coll: db.Collection(testimonialsColl)}
}

func (r *MongoTestimonialRepo) Create(ctx context.Context, t *domain.Testimonial) error {
	var updated time.Time
	stamp(&t.CreatedAt, &updated)
	_, err := r.coll.InsertOne(ctx, bson.M{
		"_id":       t.ID,
		"user":      t.UserID,
		"feedback":  t.Feedback,
		"rating":    t.Rating,
		"createdAt": t.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("create testimonial: %w", err)
	}
	return nil
}
