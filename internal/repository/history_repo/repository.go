package history_repo

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"spinny_backend/internal/model"
	"spinny_backend/internal/repository"
)

const (
	table                 = "wheel_selection_history"
	colID                 = "id"
	colPublicID           = "public_id"
	colWheelID            = "wheel_id"
	colUserID             = "user_id"
	colPointsWhenSelected = "points_when_selected"
	colDateSelected       = "date_selected"

	usersTable  = "users"
	colUsersID  = "id"
	colUserName = "name"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewHistoryRepository(dbc *pgxpool.Pool) repository.HistoryRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// AppendHistory - запись о выборе победителя с весом на момент выбора
func (r *repo) AppendHistory(ctx context.Context, s *model.Selection) error {
	sqlStr, args, err := psql.Insert(table).
		Columns(colPublicID, colWheelID, colUserID, colPointsWhenSelected, colDateSelected).
		Values(s.PublicID, s.WheelID, s.UserID, s.PointsWhenSelected, s.DateSelected).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	return err
}

// ListHistory - последние выборы, новые первыми
func (r *repo) ListHistory(ctx context.Context, wheelID int64, limit uint64) ([]model.Selection, error) {
	query := psql.Select(
		table+"."+colPublicID,
		table+"."+colWheelID,
		table+"."+colUserID,
		"COALESCE("+usersTable+"."+colUserName+", '')",
		table+"."+colPointsWhenSelected,
		table+"."+colDateSelected,
	).
		From(table).
		LeftJoin(usersTable + " ON " + usersTable + "." + colUsersID + " = " + table + "." + colUserID).
		Where(sq.Eq{table + "." + colWheelID: wheelID}).
		OrderBy(table+"."+colDateSelected+" DESC", table+"."+colID+" DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []model.Selection
	for rows.Next() {
		var s model.Selection
		if err := rows.Scan(&s.PublicID, &s.WheelID, &s.UserID, &s.UserName, &s.PointsWhenSelected, &s.DateSelected); err != nil {
			return nil, err
		}
		history = append(history, s)
	}

	return history, rows.Err()
}

func (r *repo) DeleteByWheel(ctx context.Context, wheelID int64) error {
	sqlStr, args, err := psql.Delete(table).Where(sq.Eq{colWheelID: wheelID}).ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	return err
}
