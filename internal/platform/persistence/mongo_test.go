package persistence

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestMongoDB_Database(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	// Using disconnected dummy database since mocking mongo.Database is complex
	dummyClient, _ := mongo.Connect(context.TODO(), options.Client().ApplyURI("mongodb://localhost:27017"))
	dummyDbInstance := dummyClient.Database("testdb")

	mdb := &MongoDB{
		logger:   logger,
		database: dummyDbInstance,
	}
	assert.Equal(t, dummyDbInstance, mdb.Database(), "Database() should return the initialized database instance")
}

func TestMongoDB_EnsureRunIndexes(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("Success", func(mt *mtest.T) {
		mdb := &MongoDB{logger: logger, database: mt.DB}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := mdb.EnsureRunIndexes(context.Background(), "reconciliation_runs")
		assert.NoError(mt, err)
	})

	mt.Run("CommandError", func(mt *mtest.T) {
		mdb := &MongoDB{logger: logger, database: mt.DB}
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 85, Message: "index options conflict"}))

		err := mdb.EnsureRunIndexes(context.Background(), "reconciliation_runs")
		assert.Error(mt, err)
		assert.Contains(mt, err.Error(), "failed to create indexes on reconciliation_runs")
	})
}
