package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/ukydev/saferoute-dashboard/internal/models"
)

func TestMongoUserCollection_InsertUser(t *testing.T) {
	client, err := ConnectMongo()
	if err != nil {
		t.Skipf("failed to create client: %v, skipping integration test", err)
	}
	defer client.Disconnect(context.Background())

	collection := client.Database("test_saferoute").Collection("users")
	collection.Drop(context.Background())

	userCollection := &MongoUserCollection{Collection: collection}

	user := models.User{
		Username:     "dispatcher1",
		Email:        "dispatcher1@example.com",
		PasswordHash: "hashedpassword",
		Role:         models.RoleDispatcher,
	}

	err = userCollection.InsertUser(context.Background(), user)
	assert.NoError(t, err)

	// Verify user was inserted
	var foundUser models.User
	err = collection.FindOne(context.Background(), bson.M{"username": "dispatcher1"}).Decode(&foundUser)
	assert.NoError(t, err)
	assert.Equal(t, user.Username, foundUser.Username)
	assert.Equal(t, user.Role, foundUser.Role)
	assert.True(t, foundUser.IsActive)
	assert.NotZero(t, foundUser.CreatedAt)
	assert.NotZero(t, foundUser.UpdatedAt)
}

func TestMongoUserCollection_FindUserByID(t *testing.T) {
	client, err := ConnectMongo()
	if err != nil {
		t.Skipf("failed to create client: %v, skipping integration test", err)
	}
	defer client.Disconnect(context.Background())

	collection := client.Database("test_saferoute").Collection("users")
	collection.Drop(context.Background())

	userCollection := &MongoUserCollection{Collection: collection}

	user := models.User{
		Username:     "dispatcher1",
		PasswordHash: "hashedpassword",
		Role:         models.RoleDispatcher,
	}
	err = userCollection.InsertUser(context.Background(), user)
	require.NoError(t, err)

	var insertedUser models.User
	err = collection.FindOne(context.Background(), bson.M{"username": "dispatcher1"}).Decode(&insertedUser)
	require.NoError(t, err)

	foundUser, err := userCollection.FindUserByID(context.Background(), insertedUser.ID.Hex())
	assert.NoError(t, err)
	assert.Equal(t, user.Username, foundUser.Username)

	// Test with invalid ID
	_, err = userCollection.FindUserByID(context.Background(), "invalid-id")
	assert.Error(t, err)
}

func TestMongoUserCollection_FindUserByUsername(t *testing.T) {
	client, err := ConnectMongo()
	if err != nil {
		t.Skipf("failed to create client: %v, skipping integration test", err)
	}
	defer client.Disconnect(context.Background())

	collection := client.Database("test_saferoute").Collection("users")
	collection.Drop(context.Background())

	userCollection := &MongoUserCollection{Collection: collection}

	user := models.User{
		Username:     "dispatcher1",
		PasswordHash: "hashedpassword",
		Role:         models.RoleDispatcher,
	}
	err = userCollection.InsertUser(context.Background(), user)
	require.NoError(t, err)

	foundUser, err := userCollection.FindUserByUsername(context.Background(), "dispatcher1")
	assert.NoError(t, err)
	assert.Equal(t, user.Username, foundUser.Username)

	// Test with non-existent username
	_, err = userCollection.FindUserByUsername(context.Background(), "nonexistent")
	assert.Error(t, err)
}

func TestMongoUserCollection_UpdateLastLogin(t *testing.T) {
	client, err := ConnectMongo()
	if err != nil {
		t.Skipf("failed to create client: %v, skipping integration test", err)
	}
	defer client.Disconnect(context.Background())

	collection := client.Database("test_saferoute").Collection("users")
	collection.Drop(context.Background())

	userCollection := &MongoUserCollection{Collection: collection}

	user := models.User{
		Username:     "dispatcher1",
		PasswordHash: "hashedpassword",
		Role:         models.RoleDispatcher,
	}
	err = userCollection.InsertUser(context.Background(), user)
	require.NoError(t, err)

	var insertedUser models.User
	err = collection.FindOne(context.Background(), bson.M{"username": "dispatcher1"}).Decode(&insertedUser)
	require.NoError(t, err)

	err = userCollection.UpdateLastLogin(context.Background(), insertedUser.ID.Hex())
	assert.NoError(t, err)

	updatedUser, err := userCollection.FindUserByID(context.Background(), insertedUser.ID.Hex())
	assert.NoError(t, err)
	assert.NotNil(t, updatedUser.LastLogin)
	assert.True(t, updatedUser.UpdatedAt.After(insertedUser.CreatedAt) || updatedUser.UpdatedAt.Equal(insertedUser.CreatedAt))

	// Test with invalid ID
	err = userCollection.UpdateLastLogin(context.Background(), "invalid-id")
	assert.Error(t, err)
}
