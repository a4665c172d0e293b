package ledger

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

// BunRepository persists ledger entries through Bun.
type BunRepository struct {
	db *bun.DB
}

// NewBunRepository constructs a Bun-backed ledger. The publish_ledger table
// must exist; see CreateSchema.
func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db}
}

// CreateSchema creates the publish_ledger table when missing.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*entryModel)(nil)).IfNotExists().Exec(ctx)
	return err
}

// Get returns the entry for target and postPath or ErrEntryNotFound.
func (r *BunRepository) Get(ctx context.Context, target, postPath string) (Entry, error) {
	if r.db == nil {
		return Entry{}, errors.New("ledger: bun repository requires a database")
	}
	var model entryModel
	err := r.db.NewSelect().
		Model(&model).
		Where("target = ?", target).
		Where("post_path = ?", postPath).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ErrEntryNotFound
		}
		return Entry{}, err
	}
	return modelToEntry(&model), nil
}

// Record inserts entry or replaces the remote identifiers of an existing
// entry for the same target and post.
func (r *BunRepository) Record(ctx context.Context, entry Entry) (Entry, error) {
	if r.db == nil {
		return Entry{}, errors.New("ledger: bun repository requires a database")
	}
	entry = normalizeEntry(entry)

	var existing entryModel
	err := r.db.NewSelect().
		Model(&existing).
		Where("target = ?", entry.Target).
		Where("post_path = ?", entry.PostPath).
		Limit(1).
		Scan(ctx)
	created := false
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			created = true
		} else {
			return Entry{}, err
		}
	}

	model := modelFromEntry(entry)
	if created {
		if _, err := r.db.NewInsert().Model(&model).Exec(ctx); err != nil {
			return Entry{}, err
		}
	} else {
		model.ID = existing.ID
		if _, err := r.db.NewUpdate().
			Model(&model).
			Column("remote_id", "remote_slug", "submitted_at").
			WherePK().
			Exec(ctx); err != nil {
			return Entry{}, err
		}
	}

	return r.Get(ctx, entry.Target, entry.PostPath)
}

// List returns every entry for target ordered by post path.
func (r *BunRepository) List(ctx context.Context, target string) ([]Entry, error) {
	if r.db == nil {
		return nil, errors.New("ledger: bun repository requires a database")
	}
	var models []entryModel
	if err := r.db.NewSelect().
		Model(&models).
		Where("target = ?", target).
		Order("post_path ASC").
		Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(models))
	for i := range models {
		out = append(out, modelToEntry(&models[i]))
	}
	return out, nil
}

type entryModel struct {
	bun.BaseModel `bun:"table:publish_ledger"`

	ID          int64     `bun:",pk,autoincrement"`
	Target      string    `bun:"target,notnull,unique:target_post"`
	PostPath    string    `bun:"post_path,notnull,unique:target_post"`
	RemoteID    string    `bun:"remote_id"`
	RemoteSlug  string    `bun:"remote_slug"`
	SubmittedAt time.Time `bun:"submitted_at,notnull"`
}

func modelFromEntry(entry Entry) entryModel {
	return entryModel{
		Target:      entry.Target,
		PostPath:    entry.PostPath,
		RemoteID:    entry.RemoteID,
		RemoteSlug:  entry.RemoteSlug,
		SubmittedAt: entry.SubmittedAt,
	}
}

func modelToEntry(model *entryModel) Entry {
	if model == nil {
		return Entry{}
	}
	return Entry{
		Target:      model.Target,
		PostPath:    model.PostPath,
		RemoteID:    model.RemoteID,
		RemoteSlug:  model.RemoteSlug,
		SubmittedAt: model.SubmittedAt.UTC(),
	}
}
