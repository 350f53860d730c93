package wheel_repo

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"spinny_backend/internal/model"
	"spinny_backend/internal/repository"
)

const (
	table       = "wheels"
	colID       = "id"
	colPublicID = "public_id"
	colName     = "name"
	colOwnerID  = "owner_id"

	usersTable   = "wheel_users"
	colWheelID   = "wheel_id"
	colUserID    = "user_id"
	qualifiedCol = table + "."
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewWheelRepository(dbc *pgxpool.Pool) repository.WheelRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// Create - создает колесо. Возвращает ID новой записи
func (r *repo) Create(ctx context.Context, wheel *model.Wheel) (int64, error) {
	// Формируем запрос
	query := psql.Insert(table).
		Columns(colPublicID, colName, colOwnerID).
		Values(wheel.PublicID, wheel.Name, wheel.OwnerID).
		Suffix("RETURNING " + colID)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

// GetByPublicID - колесо по публичному ID. model.ErrWheelNotFound, если его нет
func (r *repo) GetByPublicID(ctx context.Context, publicID string) (*model.Wheel, error) {
	return r.get(ctx, publicID, false)
}

func (r *repo) LockByPublicID(ctx context.Context, publicID string) (*model.Wheel, error) {
	return r.get(ctx, publicID, true)
}

func (r *repo) get(ctx context.Context, publicID string, lock bool) (*model.Wheel, error) {
	query := psql.Select(colID, colPublicID, colName, colOwnerID).
		From(table).
		Where(sq.Eq{colPublicID: publicID})
	if lock {
		query = query.Suffix("FOR UPDATE")
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var w model.Wheel
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).
		Scan(&w.ID, &w.PublicID, &w.Name, &w.OwnerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrWheelNotFound
		}
		return nil, err
	}

	return &w, nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	sqlStr, args, err := psql.Delete(table).Where(sq.Eq{colID: id}).ToSql()
	if err != nil {
		return err
	}

	tag, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrWheelNotFound
	}
	return nil
}

// ListOwned - колеса, созданные пользователем
func (r *repo) ListOwned(ctx context.Context, ownerID string) ([]model.Wheel, error) {
	query := psql.Select(colID, colPublicID, colName, colOwnerID).
		From(table).
		Where(sq.Eq{colOwnerID: ownerID}).
		OrderBy(colID)

	return r.list(ctx, query)
}

// ListParticipating - колеса, в которых пользователь участвует
func (r *repo) ListParticipating(ctx context.Context, userID string) ([]model.Wheel, error) {
	query := psql.Select(
		qualifiedCol+colID,
		qualifiedCol+colPublicID,
		qualifiedCol+colName,
		qualifiedCol+colOwnerID,
	).
		From(table).
		Join(usersTable + " ON " + usersTable + "." + colWheelID + " = " + qualifiedCol + colID).
		Where(sq.Eq{usersTable + "." + colUserID: userID}).
		OrderBy(qualifiedCol + colID)

	return r.list(ctx, query)
}

func (r *repo) list(ctx context.Context, query sq.SelectBuilder) ([]model.Wheel, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wheels []model.Wheel
	for rows.Next() {
		var w model.Wheel
		if err := rows.Scan(&w.ID, &w.PublicID, &w.Name, &w.OwnerID); err != nil {
			return nil, err
		}
		wheels = append(wheels, w)
	}

	return wheels, rows.Err()
}
