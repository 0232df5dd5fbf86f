package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	log.Println("EnsureUserIndexes: creating email_unique index")
	_, err := db.Collection("users").Indexes().CreateOne(ctx, emailIndex)
	if err != nil {
		log.Println("EnsureUserIndexes: email index error:", err)
		return err
	}
	return nil
}

func EnsureProfileIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	profileIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetName("userId_unique").SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "mobile", Value: 1}},
			Options: options.Index().
				SetName("mobile_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{
					"mobile": bson.M{"$exists": true},
				}),
		},
	}

	log.Println("EnsureProfileIndexes: creating buyer indexes")
	if _, err := db.Collection("buyers").Indexes().CreateMany(ctx, profileIndexes); err != nil {
		log.Println("EnsureProfileIndexes: buyer index error:", err)
		return err
	}

	log.Println("EnsureProfileIndexes: creating seller indexes")
	if _, err := db.Collection("sellers").Indexes().CreateMany(ctx, profileIndexes); err != nil {
		log.Println("EnsureProfileIndexes: seller index error:", err)
		return err
	}
	return nil
}

func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	nameIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "sellerId", Value: 1},
			{Key: "name", Value: 1},
		},
		Options: options.Index().
			SetName("sellerId_name_unique").
			SetUnique(true),
	}

	log.Println("EnsureProductIndexes: creating sellerId_name_unique index")
	_, err := db.Collection("products").Indexes().CreateOne(ctx, nameIndex)
	if err != nil {
		log.Println("EnsureProductIndexes: name index error:", err)
		return err
	}
	return nil
}

func EnsureCartIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	userIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetName("userId_unique").SetUnique(true),
	}

	log.Println("EnsureCartIndexes: creating userId_unique index")
	_, err := db.Collection("carts").Indexes().CreateOne(ctx, userIndex)
	if err != nil {
		log.Println("EnsureCartIndexes: userId index error:", err)
		return err
	}
	return nil
}

func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "orderNumber", Value: 1}},
			Options: options.Index().SetName("orderNumber_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "buyerId", Value: 1}},
			Options: options.Index().SetName("buyerId_index"),
		},
		{
			Keys:    bson.D{{Key: "sellerId", Value: 1}},
			Options: options.Index().SetName("sellerId_index"),
		},
	}

	log.Println("EnsureOrderIndexes: creating order indexes")
	_, err := db.Collection("orders").Indexes().CreateMany(ctx, indexes)
	if err != nil {
		log.Println("EnsureOrderIndexes: order index error:", err)
		return err
	}
	return nil
}

func EnsureSettingIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sellerIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "sellerId", Value: 1}},
		Options: options.Index().SetName("sellerId_unique").SetUnique(true),
	}

	log.Println("EnsureSettingIndexes: creating sellerId_unique index")
	_, err := db.Collection("settings").Indexes().CreateOne(ctx, sellerIndex)
	if err != nil {
		log.Println("EnsureSettingIndexes: sellerId index error:", err)
		return err
	}
	return nil
}
