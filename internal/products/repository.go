package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matheusmosca/inventory-app/internal/database"
)

// Repository define a interface para operações de banco de dados de produtos
type Repository interface {
	// Add cria o produto via usp_product_add e retorna o id gerado
	Add(ctx context.Context, in ProductCreate) (int, error)

	// Update altera nome, descrição, imagem, preço e ativo; nunca o estoque
	Update(ctx context.Context, productID int, in ProductUpdate) error

	// Delete falha quando existem transações do produto
	Delete(ctx context.Context, productID int) error

	// List retorna todos os produtos do inventário
	List(ctx context.Context) ([]Product, error)

	// GetByID retorna nil, nil quando o produto não existe
	GetByID(ctx context.Context, productID int) (*Product, error)
}

// PostgresRepository implementa Repository usando as funções do PostgreSQL
type PostgresRepository struct {
	db database.Connector
}

// NewRepository cria uma nova instância de PostgresRepository
func NewRepository(db database.Connector) Repository {
	return &PostgresRepository{
		db: db,
	}
}

// Add cria o produto e inicializa o estoque
func (r *PostgresRepository) Add(ctx context.Context, in ProductCreate) (int, error) {
	var id int
	err := database.WithConn(ctx, r.db, func(conn *pgxpool.Conn) error {
		return conn.QueryRow(ctx,
			"SELECT usp_product_add($1, $2, $3, $4, $5)",
			in.Name, in.Description, in.ImageURL, in.Price, in.InitialStock,
		).Scan(&id)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to add product: %w", err)
	}
	return id, nil
}

// Update atualiza o produto; id inexistente não afeta linhas e não gera erro
func (r *PostgresRepository) Update(ctx context.Context, productID int, in ProductUpdate) error {
	err := database.WithConn(ctx, r.db, func(conn *pgxpool.Conn) error {
		_, err := conn.Exec(ctx,
			"SELECT usp_product_update($1, $2, $3, $4, $5, $6)",
			productID, in.Name, in.Description, in.ImageURL, in.Price, in.Active(),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update product %d: %w", productID, err)
	}
	return nil
}

// Delete remove o produto
func (r *PostgresRepository) Delete(ctx context.Context, productID int) error {
	err := database.WithConn(ctx, r.db, func(conn *pgxpool.Conn) error {
		_, err := conn.Exec(ctx, "SELECT usp_product_delete($1)", productID)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete product %d: %w", productID, err)
	}
	return nil
}

// List busca todos os produtos na ordem de usp_products_list_inventory
func (r *PostgresRepository) List(ctx context.Context) ([]Product, error) {
	items := []Product{}
	err := database.WithConn(ctx, r.db, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT product_id, name, description, image_url, price, stock, is_active
			FROM usp_products_list_inventory()
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var p Product
			if err := rows.Scan(
				&p.ProductID,
				&p.Name,
				&p.Description,
				&p.ImageURL,
				&p.Price,
				&p.Stock,
				&p.IsActive,
			); err != nil {
				return err
			}
			items = append(items, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return items, nil
}

// GetByID busca um produto pelo ID
func (r *PostgresRepository) GetByID(ctx context.Context, productID int) (*Product, error) {
	var p Product
	err := database.WithConn(ctx, r.db, func(conn *pgxpool.Conn) error {
		return conn.QueryRow(ctx, `
			SELECT product_id, name, description, image_url, price, stock, is_active
			FROM product
			WHERE product_id = $1
		`, productID).Scan(
			&p.ProductID,
			&p.Name,
			&p.Description,
			&p.ImageURL,
			&p.Price,
			&p.Stock,
			&p.IsActive,
		)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", productID, err)
	}
	return &p, nil
}
