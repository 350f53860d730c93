package participant_repo

import (
	"context"
	"slices"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"spinny_backend/internal/model"
	"spinny_backend/internal/repository"
)

const (
	table      = "wheel_users"
	colID      = "id"
	colWheelID = "wheel_id"
	colUserID  = "user_id"
	colPoints  = "points"

	usersTable  = "users"
	colUsersID  = "id"
	colUserName = "name"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewParticipantRepository(dbc *pgxpool.Pool) repository.ParticipantRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// LoadParticipants - участники колеса в порядке вступления. Этот порядок задает сегменты
func (r *repo) LoadParticipants(ctx context.Context, wheelID int64) ([]model.Participant, error) {
	// Имя берется из таблицы пользователей, если она знает этого пользователя
	query := psql.Select(
		table+"."+colUserID,
		"COALESCE("+usersTable+"."+colUserName+", '')",
		table+"."+colPoints,
	).
		From(table).
		LeftJoin(usersTable + " ON " + usersTable + "." + colUsersID + " = " + table + "." + colUserID).
		Where(sq.Eq{table + "." + colWheelID: wheelID}).
		OrderBy(table + "." + colID)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []model.Participant
	for rows.Next() {
		var p model.Participant
		if err := rows.Scan(&p.UserID, &p.Name, &p.Weight); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}

	return participants, rows.Err()
}

// SaveWeights - записывает новые веса одним UPDATE. Строки перечислены в порядке user_id
func (r *repo) SaveWeights(ctx context.Context, wheelID int64, weights map[string]int) error {
	if len(weights) == 0 {
		return nil
	}

	sqlStr, args, err := saveWeightsQuery(wheelID, weights)
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	return err
}

func saveWeightsQuery(wheelID int64, weights map[string]int) (string, []interface{}, error) {
	users := make([]string, 0, len(weights))
	for id := range weights {
		users = append(users, id)
	}
	slices.Sort(users)

	points := sq.Case(colUserID)
	for _, userID := range users {
		points = points.When(sq.Expr("?", userID), sq.Expr("?::int", weights[userID]))
	}
	points = points.Else(colPoints)

	return psql.Update(table).
		Set(colPoints, points).
		Where(sq.Eq{colWheelID: wheelID, colUserID: users}).
		ToSql()
}

// Join - добавляет участника. false, если он уже в колесе
func (r *repo) Join(ctx context.Context, wheelID int64, userID string, weight int) (bool, error) {
	sqlStr, args, err := psql.Insert(table).
		Columns(colWheelID, colUserID, colPoints).
		Values(wheelID, userID, weight).
		Suffix("ON CONFLICT (" + colWheelID + ", " + colUserID + ") DO NOTHING").
		ToSql()
	if err != nil {
		return false, err
	}

	tag, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

// Leave - удаляет участника. false, если его не было
func (r *repo) Leave(ctx context.Context, wheelID int64, userID string) (bool, error) {
	sqlStr, args, err := psql.Delete(table).
		Where(sq.Eq{colWheelID: wheelID, colUserID: userID}).
		ToSql()
	if err != nil {
		return false, err
	}

	tag, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (r *repo) DeleteByWheel(ctx context.Context, wheelID int64) error {
	sqlStr, args, err := psql.Delete(table).Where(sq.Eq{colWheelID: wheelID}).ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	return err
}
