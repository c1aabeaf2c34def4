package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/connectone/tradecore/internal/domain/listing"
)

// ListingRepository implements listing.Repository.
type ListingRepository struct {
	pool *pgxpool.Pool
}

func NewListingRepository(pool *pgxpool.Pool) *ListingRepository {
	return &ListingRepository{pool: pool}
}

const listingColumns = `id, listing_id, seller_id, title, description, category, brand, condition, price, status, created_at, updated_at`

func (r *ListingRepository) Create(ctx context.Context, l *listing.Listing) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO listings
		(listing_id, seller_id, title, description, category, brand, condition, price, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, l.ListingID, l.SellerID, l.Title, l.Description, l.Category, l.Brand, l.Condition, l.Price, l.Status, l.CreatedAt, l.UpdatedAt)
	return err
}

func (r *ListingRepository) GetByID(ctx context.Context, listingID uuid.UUID) (*listing.Listing, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+listingColumns+`
		FROM listings WHERE listing_id=$1
	`, listingID)
	return scanListing(row)
}

func (r *ListingRepository) List(ctx context.Context, statuses listing.Group, limit, offset int) ([]*listing.Listing, error) {
	if len(statuses) == 0 {
		return []*listing.Listing{}, nil
	}
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+listingColumns+`
		FROM listings WHERE status = ANY($1)
		ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, values, clampLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectListings(rows)
}

func (r *ListingRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]*listing.Listing, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+listingColumns+`
		FROM listings WHERE seller_id=$1 AND status <> $2
		ORDER BY created_at DESC LIMIT $3 OFFSET $4
	`, sellerID, listing.StatusDeleted, clampLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectListings(rows)
}

// UpdateStatus moves a listing between statuses with a compare-and-set
// guard; the update applies only while the stored status still equals
// from.
func (r *ListingRepository) UpdateStatus(ctx context.Context, listingID uuid.UUID, from, to listing.Status) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE listings SET status=$1, updated_at=NOW()
		WHERE listing_id=$2 AND status=$3
	`, to, listingID, from)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: listing %s is no longer %s", listing.ErrStatusConflict, listingID, from)
	}
	return nil
}

// ListRawStatuses returns every stored status string, including values
// the catalog does not know about. Feeds the status drift report.
func (r *ListingRepository) ListRawStatuses(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT status FROM listings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		statuses = append(statuses, s)
	}
	return statuses, rows.Err()
}

func collectListings(rows pgx.Rows) ([]*listing.Listing, error) {
	var listings []*listing.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func scanListing(row pgx.Row) (*listing.Listing, error) {
	var l listing.Listing
	if err := row.Scan(&l.ID, &l.ListingID, &l.SellerID, &l.Title, &l.Description, &l.Category, &l.Brand, &l.Condition, &l.Price, &l.Status, &l.CreatedAt, &l.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}
