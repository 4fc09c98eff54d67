package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/payout-reconciler/internal/domain/run"
)

const (
	// RunCollectionName is the name of the reconciliation run collection in MongoDB
	RunCollectionName = "reconciliation_runs"
)

// RunRepository implements the run.Repository interface for MongoDB
type RunRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewRunRepository creates a new MongoDB run repository
func NewRunRepository(logger *slog.Logger, db *mongo.Database) run.Repository {
	return &RunRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a run document after checking for duplicates.
// Returns ErrDuplicateRun if a run with the same id exists.
func (r *RunRepository) Create(ctx context.Context, doc *run.Run) error {
	collection := r.db.Collection(RunCollectionName)

	existing, err := r.GetByID(ctx, doc.RunID)
	if err != nil && !errors.Is(err, run.ErrRunNotFound{}) {
		r.logger.Error("Failed to check for existing run",
			"run_id", doc.RunID.String(),
			"error", err)
		return fmt.Errorf("failed to check for existing run: %w", err)
	}

	if existing != nil {
		return run.ErrDuplicateRun{RunID: doc.RunID}
	}

	_, err = collection.InsertOne(ctx, doc)
	if err != nil {
		r.logger.Error("Failed to create run",
			"run_id", doc.RunID.String(),
			"error", err)
		return fmt.Errorf("failed to create run: %w", err)
	}

	return nil
}

// GetByID retrieves a run by its id.
// Returns ErrRunNotFound if no such run exists.
func (r *RunRepository) GetByID(ctx context.Context, runID uuid.UUID) (*run.Run, error) {
	collection := r.db.Collection(RunCollectionName)

	filter := bson.M{"run_id": runID}
	var doc run.Run
	err := collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, run.ErrRunNotFound{RunID: runID}
		}
		r.logger.Error("Failed to get run",
			"run_id", runID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return &doc, nil
}

// GetByAccountID retrieves paginated runs for an account, newest first
func (r *RunRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*run.Run, error) {
	collection := r.db.Collection(RunCollectionName)

	filter := bson.M{"account_id": accountID}
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get runs",
			"account_id", accountID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get runs: %w", err)
	}
	defer cursor.Close(ctx)

	runs := []*run.Run{}
	if err := cursor.All(ctx, &runs); err != nil {
		r.logger.Error("Failed to decode runs",
			"account_id", accountID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to decode runs: %w", err)
	}

	return runs, nil
}

// CountByAccountID counts the runs stored for an account
func (r *RunRepository) CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error) {
	collection := r.db.Collection(RunCollectionName)

	filter := bson.M{"account_id": accountID}
	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to count runs",
			"account_id", accountID.String(),
			"error", err)
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}

	return count, nil
}
