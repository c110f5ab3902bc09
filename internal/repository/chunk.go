package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/veldtlabs/docvault/internal/domain"
	"github.com/veldtlabs/docvault/internal/service"
)

type dbtx interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ChunkRepository persists chunk records and runs the two retrieval legs
// against Postgres with pgvector.
type ChunkRepository struct {
	db dbtx
}

func NewChunkRepository(pool *pgxpool.Pool) *ChunkRepository {
	return &ChunkRepository{db: pool}
}

func NewChunkRepositoryWithTx(tx pgx.Tx) *ChunkRepository {
	return &ChunkRepository{db: tx}
}

// mapErr normalizes driver failures into the domain taxonomy so callers
// can distinguish timeouts from an unreachable index.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrTimeout
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return domain.NewIndexUnavailable(err)
}

// Upload upserts the whole batch inside one transaction, so a mid-batch
// failure leaves nothing behind. Re-uploading a document hits the same
// ids, and the conflict branch rewrites every column.
func (r *ChunkRepository) Upload(ctx context.Context, chunks []*domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return mapErr(err)
	}
	defer tx.Rollback(ctx)

	txRepo := NewChunkRepositoryWithTx(tx)
	for _, c := range chunks {
		if err := txRepo.upsert(ctx, c); err != nil {
			return err
		}
	}
	return mapErr(tx.Commit(ctx))
}

func (r *ChunkRepository) upsert(ctx context.Context, c *domain.Chunk) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO chunks
				(id, content, document_name, chunk_index, owner_user_id, is_shared, allowed_users, user_id, uploaded_at, content_vector)
			 VALUES
				($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 ON CONFLICT (id) DO UPDATE SET
				content = EXCLUDED.content,
				document_name = EXCLUDED.document_name,
				chunk_index = EXCLUDED.chunk_index,
				owner_user_id = EXCLUDED.owner_user_id,
				is_shared = EXCLUDED.is_shared,
				allowed_users = EXCLUDED.allowed_users,
				user_id = EXCLUDED.user_id,
				uploaded_at = EXCLUDED.uploaded_at,
				content_vector = EXCLUDED.content_vector`,
		c.ID,
		c.Content,
		c.DocumentName,
		c.ChunkIndex,
		c.OwnerUserID,
		c.IsShared,
		c.AllowedUsers,
		c.OwnerUserID,
		c.UploadedAt,
		pgvector.NewVector(c.ContentVector),
	)
	return mapErr(err)
}

func mergeArgs(filter service.AccessFilter, extra pgx.NamedArgs) pgx.NamedArgs {
	args := pgx.NamedArgs{}
	for k, v := range filter.Args {
		args[k] = v
	}
	for k, v := range extra {
		args[k] = v
	}
	return args
}

func (r *ChunkRepository) SearchSemantic(ctx context.Context, embedding []float32, filter service.AccessFilter, limit int) ([]*service.ChunkHit, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, content, document_name, chunk_index, owner_user_id, is_shared,
		       1.0 / (1.0 + (content_vector <=> @query_vector)) AS score
		FROM chunks
		WHERE content_vector IS NOT NULL AND ` + filter.Fragment + `
		ORDER BY content_vector <=> @query_vector
		LIMIT @limit`

	rows, err := r.db.Query(ctx, query, mergeArgs(filter, pgx.NamedArgs{
		"query_vector": pgvector.NewVector(embedding),
		"limit":        limit,
	}))
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	return scanHits(rows)
}

func (r *ChunkRepository) SearchLexical(ctx context.Context, query string, filter service.AccessFilter, limit int) ([]*service.ChunkHit, error) {
	if limit <= 0 {
		limit = 20
	}

	sql := `
		SELECT id, content, document_name, chunk_index, owner_user_id, is_shared,
		       ts_rank(to_tsvector('english', content), websearch_to_tsquery('english', @query)) AS score
		FROM chunks
		WHERE to_tsvector('english', content) @@ websearch_to_tsquery('english', @query)
		  AND ` + filter.Fragment + `
		ORDER BY score DESC
		LIMIT @limit`

	rows, err := r.db.Query(ctx, sql, mergeArgs(filter, pgx.NamedArgs{
		"query": query,
		"limit": limit,
	}))
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	return scanHits(rows)
}

// ListVisible groups visible chunks into per-document summaries. Listings
// group by (name, owner), so the resume point is the full tuple; a row
// comparison keeps a same-named document from another owner from being
// skipped at a page boundary.
func (r *ChunkRepository) ListVisible(ctx context.Context, filter service.AccessFilter, afterName, afterOwner string, limit int) ([]*domain.DocumentSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	sql := `
		SELECT document_name, owner_user_id, bool_or(is_shared), COUNT(*)
		FROM chunks
		WHERE (document_name, owner_user_id) > (@after_name, @after_owner) AND ` + filter.Fragment + `
		GROUP BY document_name, owner_user_id
		ORDER BY document_name, owner_user_id
		LIMIT @limit`

	rows, err := r.db.Query(ctx, sql, mergeArgs(filter, pgx.NamedArgs{
		"after_name":  afterName,
		"after_owner": afterOwner,
		"limit":       limit,
	}))
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var summaries []*domain.DocumentSummary
	for rows.Next() {
		var s domain.DocumentSummary
		if err := rows.Scan(&s.Name, &s.Owner, &s.IsShared, &s.ChunkCount); err != nil {
			return nil, mapErr(err)
		}
		summaries = append(summaries, &s)
	}
	return summaries, mapErr(rows.Err())
}

func (r *ChunkRepository) ChunkACLs(ctx context.Context, documentName string, filter service.AccessFilter) ([]*service.ChunkACL, error) {
	sql := `
		SELECT id, allowed_users
		FROM chunks
		WHERE document_name = @document_name AND ` + filter.Fragment + `
		ORDER BY chunk_index`

	rows, err := r.db.Query(ctx, sql, mergeArgs(filter, pgx.NamedArgs{
		"document_name": documentName,
	}))
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var acls []*service.ChunkACL
	for rows.Next() {
		var a service.ChunkACL
		if err := rows.Scan(&a.ID, &a.AllowedUsers); err != nil {
			return nil, mapErr(err)
		}
		acls = append(acls, &a)
	}
	return acls, mapErr(rows.Err())
}

func (r *ChunkRepository) UpdateAllowedUsers(ctx context.Context, id string, users []string) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE chunks SET allowed_users = $1 WHERE id = $2`,
		users, id,
	)
	if err != nil {
		return mapErr(err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (r *ChunkRepository) CountOwned(ctx context.Context, documentName, owner string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM chunks WHERE document_name = $1 AND owner_user_id = $2`,
		documentName, owner,
	).Scan(&count)
	if err != nil {
		return 0, mapErr(err)
	}
	return count, nil
}

func (r *ChunkRepository) IDsByDocument(ctx context.Context, documentName string) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id FROM chunks WHERE document_name = $1`,
		documentName,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, mapErr(err)
		}
		ids = append(ids, id)
	}
	return ids, mapErr(rows.Err())
}

func (r *ChunkRepository) DeleteByIDs(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM chunks WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return 0, mapErr(err)
	}
	return int(cmdTag.RowsAffected()), nil
}

func scanHits(rows pgx.Rows) ([]*service.ChunkHit, error) {
	var hits []*service.ChunkHit
	for rows.Next() {
		var h service.ChunkHit
		if err := rows.Scan(&h.ID, &h.Content, &h.DocumentName, &h.ChunkIndex, &h.Owner, &h.IsShared, &h.Score); err != nil {
			return nil, mapErr(err)
		}
		hits = append(hits, &h)
	}
	return hits, mapErr(rows.Err())
}
