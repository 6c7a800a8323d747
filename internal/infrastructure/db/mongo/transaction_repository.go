package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bankdemo/banking-api/internal/core/domain"
)

const collectionTransactions = "transactions"

type TransactionRepository struct {
	col *mongo.Collection
}

func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{col: db.Collection(collectionTransactions)}
}

type transactionDoc struct {
	ID          string          `bson:"_id"`
	AccountID   string          `bson:"account_id"`
	Kind        string          `bson:"kind"`
	Amount      decimal.Decimal `bson:"amount"`
	Source      string          `bson:"source,omitempty"`
	CardBrand   string          `bson:"card_brand,omitempty"`
	CardLast4   string          `bson:"card_last4,omitempty"`
	Description string          `bson:"description,omitempty"`
	CreatedAt   time.Time       `bson:"created_at"`
	ProcessedAt time.Time       `bson:"processed_at"`
}

func (d transactionDoc) toDomain() domain.Transaction {
	return domain.Transaction{
		ID:          d.ID,
		AccountID:   d.AccountID,
		Kind:        domain.TransactionKind(d.Kind),
		Amount:      d.Amount,
		Source:      domain.FundingSource(d.Source),
		CardBrand:   d.CardBrand,
		CardLast4:   d.CardLast4,
		Description: d.Description,
		CreatedAt:   d.CreatedAt.UTC(),
		ProcessedAt: d.ProcessedAt.UTC(),
	}
}

// transactionViewDoc is the shape produced by the account join pipeline.
type transactionViewDoc struct {
	Tx      transactionDoc `bson:",inline"`
	Account struct {
		AccountNumber string `bson:"account_number"`
		Type          string `bson:"account_type"`
	} `bson:"account"`
}

func (r *TransactionRepository) Insert(ctx context.Context, tx *domain.Transaction) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, transactionDoc{
		ID:          tx.ID,
		AccountID:   tx.AccountID,
		Kind:        string(tx.Kind),
		Amount:      tx.Amount,
		Source:      string(tx.Source),
		CardBrand:   tx.CardBrand,
		CardLast4:   tx.CardLast4,
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt,
		ProcessedAt: tx.ProcessedAt,
	})
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// FindByID returns nil, nil when no row matches.
func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc transactionDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	tx := doc.toDomain()
	return &tx, nil
}

func (r *TransactionRepository) ListWithAccounts(ctx context.Context, userID, accountID string) ([]domain.TransactionView, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	accountIDs := []string{accountID}
	if accountID == "" {
		ids, err := r.ownedAccountIDs(ctx, userID)
		if err != nil {
			return nil, err
		}
		accountIDs = ids
	}
	if len(accountIDs) == 0 {
		return []domain.TransactionView{}, nil
	}

	cur, err := r.col.Aggregate(ctx, listPipeline(userID, accountIDs))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	var docs []transactionViewDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}

	out := make([]domain.TransactionView, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.TransactionView{
			Transaction:   d.Tx.toDomain(),
			AccountNumber: d.Account.AccountNumber,
			AccountType:   domain.AccountType(d.Account.Type),
		})
	}
	return out, nil
}

func (r *TransactionRepository) ownedAccountIDs(ctx context.Context, userID string) ([]string, error) {
	raw, err := r.col.Database().Collection(collectionAccounts).Distinct(ctx, "_id", bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("list account ids: %w", err)
	}
	return stringIDs(raw), nil
}

func stringIDs(raw []interface{}) []string {
	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// listPipeline narrows to the given accounts first so the account_id index
// drives the scan, then joins each transaction with its account, drops any
// the user does not own and sorts newest first.
func listPipeline(userID string, accountIDs []string) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "account_id", Value: bson.D{{Key: "$in", Value: accountIDs}}}}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionAccounts},
			{Key: "localField", Value: "account_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "account"},
		}}},
		bson.D{{Key: "$unwind", Value: "$account"}},
		bson.D{{Key: "$match", Value: bson.D{{Key: "account.user_id", Value: userID}}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}},
	}
}

func (r *TransactionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "account_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}
