// File: database/repository/wallet/wallet.go
package walletRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tutorhive/database"
	"tutorhive/models"
)

// ErrInsufficientPoints is returned by Debit when the balance cannot cover the
// amount. The balance is untouched in that case.
var ErrInsufficientPoints = errors.New("wallet balance below debit amount")

// WalletRepository owns the per-student point balance. Debit and Credit are
// single conditional updates so concurrent requests can never drive the
// balance negative.
type WalletRepository interface {
	Create(ctx context.Context, studentID string) (*models.Wallet, error)
	GetByStudentID(ctx context.Context, studentID string) (*models.Wallet, error)
	Debit(ctx context.Context, studentID string, amount float64) error
	Credit(ctx context.Context, studentID string, amount float64, extendDays int) error
	ClearExpired(ctx context.Context, now time.Time) (int64, error)
	EnsureIndexes() error
}

type mongoWalletRepo struct {
	coll *mongo.Collection
}

// NewMongoWalletRepo constructs a new MongoDB WalletRepository.
func NewMongoWalletRepo() WalletRepository {
	return &mongoWalletRepo{
		coll: database.DB().Collection("wallets"),
	}
}

func (r *mongoWalletRepo) Create(ctx context.Context, studentID string) (*models.Wallet, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	wallet := &models.Wallet{
		ID:        uuid.New().String(),
		StudentID: studentID,
		Points:    0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.coll.InsertOne(ctx, wallet); err != nil {
		return nil, fmt.Errorf("failed to create wallet for student %s: %w", studentID, err)
	}
	return wallet, nil
}

func (r *mongoWalletRepo) GetByStudentID(ctx context.Context, studentID string) (*models.Wallet, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var wallet models.Wallet
	if err := r.coll.FindOne(ctx, bson.M{"studentId": studentID}).Decode(&wallet); err != nil {
		return nil, err
	}
	return &wallet, nil
}

// Debit subtracts amount in one conditional update: the filter requires
// points >= amount, so no interleaving of concurrent debits can overdraw.
func (r *mongoWalletRepo) Debit(ctx context.Context, studentID string, amount float64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"studentId": studentID, "points": bson.M{"$gte": amount}}
	update := bson.M{
		"$inc": bson.M{"points": -amount},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to debit wallet for student %s: %w", studentID, err)
	}
	if res.MatchedCount == 0 {
		return ErrInsufficientPoints
	}
	return nil
}

// Credit adds amount and optionally advances the expiration date by
// extendDays from its current value, or from now when unset or in the past.
func (r *mongoWalletRepo) Credit(ctx context.Context, studentID string, amount float64, extendDays int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$inc": bson.M{"points": amount},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"studentId": studentID}, update)
	if err != nil {
		return fmt.Errorf("failed to credit wallet for student %s: %w", studentID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	if extendDays <= 0 {
		return nil
	}

	var wallet models.Wallet
	if err := r.coll.FindOne(ctx, bson.M{"studentId": studentID}).Decode(&wallet); err != nil {
		return fmt.Errorf("failed to load wallet for expiry extension: %w", err)
	}
	base := wallet.ExpirationDate
	if base.IsZero() || base.Before(time.Now()) {
		base = time.Now()
	}
	newExpiry := base.AddDate(0, 0, extendDays)
	_, err = r.coll.UpdateOne(ctx,
		bson.M{"studentId": studentID},
		bson.M{"$set": bson.M{"expirationDate": newExpiry, "updatedAt": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to extend wallet expiry for student %s: %w", studentID, err)
	}
	return nil
}

// ClearExpired zeroes balances whose expiration date has passed. Run by the
// cron worker.
func (r *mongoWalletRepo) ClearExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"expirationDate": bson.M{"$gt": time.Time{}, "$lt": now},
		"points":         bson.M{"$gt": 0},
	}
	update := bson.M{"$set": bson.M{"points": 0, "updatedAt": now}}
	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to clear expired wallet points: %w", err)
	}
	return res.ModifiedCount, nil
}

// EnsureIndexes creates the unique studentId index enforcing the 1:1 mapping.
func (r *mongoWalletRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "studentId", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_student"),
	})
	if err != nil {
		return fmt.Errorf("failed to create wallet indexes: %w", err)
	}
	return nil
}
