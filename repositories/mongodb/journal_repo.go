package mongodb

import (
	// Go Internal Packages
	"context"

	// Local Packages
	models "paybot-console/models"

	// External Packages
	"go.mongodb.org/mongo-driver/mongo"
)

// JournalRepository stores operator actions issued from the console.
type JournalRepository struct {
	Client     *mongo.Client
	Database   string
	Collection string
}

func NewJournalRepository(client *mongo.Client, database string) *JournalRepository {
	return &JournalRepository{Client: client, Database: database, Collection: "operator_actions"}
}

// Record inserts a single journal entry into database
func (r *JournalRepository) Record(ctx context.Context, entry models.JournalEntry) error {
	collection := r.Client.Database(r.Database).Collection(r.Collection)
	_, err := collection.InsertOne(ctx, entry)
	if err != nil {
		return err
	}
	return nil
}
