package transactions

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matheusmosca/inventory-app/internal/database"
)

var (
	ErrNotFound = errors.New("transaction not found")
)

// Repository define a interface para operações de banco de dados de transações
type Repository interface {
	Add(ctx context.Context, in TransactionCreate) (int64, error)
	Update(ctx context.Context, id int64, in TransactionUpdate) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Transaction, error)
	Search(ctx context.Context, filter SearchFilter, page, pageSize int) (PagedResult[Transaction], error)
}

// PostgresRepository implementa Repository usando PostgreSQL.
// O estoque do produto é ajustado pelos triggers de inventory_transaction.
type PostgresRepository struct {
	db database.Connector
}

// NewRepository cria uma nova instância de PostgresRepository
func NewRepository(db database.Connector) Repository {
	return &PostgresRepository{
		db: db,
	}
}

const selectTransaction = `
	SELECT t.inventory_transaction_id, t.occurred_at, t.transaction_type_id, tt.name,
	       t.product_id, p.name, t.quantity, t.unit_price, t.total_price, t.detail
	FROM inventory_transaction t
	JOIN transaction_type tt ON tt.transaction_type_id = t.transaction_type_id
	JOIN product p ON p.product_id = t.product_id
`

const searchWhere = `
	WHERE ($1::int IS NULL OR t.product_id = $1)
	  AND ($2::smallint IS NULL OR t.transaction_type_id = $2)
	  AND ($3::timestamptz IS NULL OR t.occurred_at >= $3)
	  AND ($4::timestamptz IS NULL OR t.occurred_at < $4)
`

// Add insere a transação; occurred_at nulo vira now()
func (r *PostgresRepository) Add(ctx context.Context, in TransactionCreate) (int64, error) {
	var id int64
	err := database.WithConn(ctx, r.db, func(conn *pgxpool.Conn) error {
		return conn.QueryRow(ctx, `
			INSERT INTO inventory_transaction (occurred_at, transaction_type_id, product_id, quantity, unit_price, detail)
			VALUES (COALESCE($1::timestamptz, now()), $2, $3, $4, $5, $6)
			RETURNING inventory_transaction_id
		`, in.OccurredAt, int16(in.TransactionTypeID), in.ProductID, in.Quantity, in.UnitPrice, in.Detail).Scan(&id)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to add transaction: %w", err)
	}
	return id, nil
}

// Update sobrescreve a transação; occurred_at nulo mantém o valor atual
func (r *PostgresRepository) Update(ctx context.Context, id int64, in TransactionUpdate) error {
	err := database.WithConn(ctx, r.db, func(conn *pgxpool.Conn) error {
		tag, err := conn.Exec(ctx, `
			UPDATE inventory_transaction
			SET occurred_at = COALESCE($1::timestamptz, occurred_at),
			    transaction_type_id = $2,
			    product_id = $3,
			    quantity = $4,
			    unit_price = $5,
			    detail = $6,
			    updated_at = now()
			WHERE inventory_transaction_id = $7
		`, in.OccurredAt, int16(in.TransactionTypeID), in.ProductID, in.Quantity, in.UnitPrice, in.Detail, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update transaction %d: %w", id, err)
	}
	return nil
}

// Delete remove a transação; os triggers revertem o efeito no estoque
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	err := database.WithConn(ctx, r.db, func(conn *pgxpool.Conn) error {
		tag, err := conn.Exec(ctx, "DELETE FROM inventory_transaction WHERE inventory_transaction_id = $1", id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete transaction %d: %w", id, err)
	}
	return nil
}

// GetByID busca a transação; retorna nil, nil quando não existe
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Transaction, error) {
	var trx *Transaction
	err := database.WithConn(ctx, r.db, func(conn *pgxpool.Conn) error {
		found, err := scanTransaction(conn.QueryRow(ctx, selectTransaction+" WHERE t.inventory_transaction_id = $1", id))
		if err != nil {
			return err
		}
		trx = found
		return nil
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction %d: %w", id, err)
	}
	return trx, nil
}

// Search conta e busca a página dentro de uma única transação de leitura,
// para que total e items venham do mesmo snapshot.
func (r *PostgresRepository) Search(ctx context.Context, filter SearchFilter, page, pageSize int) (PagedResult[Transaction], error) {
	result := PagedResult[Transaction]{
		Items:    []Transaction{},
		Page:     page,
		PageSize: pageSize,
	}

	var typeID *int16
	if filter.TypeID != nil {
		v := int16(*filter.TypeID)
		typeID = &v
	}
	args := []any{filter.ProductID, typeID, filter.StartUTC, filter.EndUTC}

	err := database.WithConn(ctx, r.db, func(conn *pgxpool.Conn) error {
		tx, err := conn.BeginTx(ctx, pgx.TxOptions{
			IsoLevel:   pgx.RepeatableRead,
			AccessMode: pgx.ReadOnly,
		})
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := tx.QueryRow(ctx,
			"SELECT COUNT(1) FROM inventory_transaction t"+searchWhere, args...,
		).Scan(&result.Total); err != nil {
			return err
		}

		rows, err := tx.Query(ctx,
			selectTransaction+searchWhere+`
			ORDER BY t.occurred_at DESC, t.inventory_transaction_id DESC
			OFFSET $5 LIMIT $6
		`, append(args, Offset(page, pageSize), pageSize)...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			trx, err := scanTransaction(rows)
			if err != nil {
				return err
			}
			result.Items = append(result.Items, *trx)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		return PagedResult[Transaction]{}, fmt.Errorf("failed to search transactions: %w", err)
	}
	return result, nil
}

func scanTransaction(row pgx.Row) (*Transaction, error) {
	var (
		t      Transaction
		typeID int16
	)
	if err := row.Scan(
		&t.InventoryTransactionID,
		&t.OccurredAt,
		&typeID,
		&t.TransactionType,
		&t.ProductID,
		&t.ProductName,
		&t.Quantity,
		&t.UnitPrice,
		&t.TotalPrice,
		&t.Detail,
	); err != nil {
		return nil, err
	}
	t.TransactionTypeID = TransactionType(typeID)
	t.OccurredAt = t.OccurredAt.UTC()
	return &t, nil
}
