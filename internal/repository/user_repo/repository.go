package user_repo

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"spinny_backend/internal/model"
	"spinny_backend/internal/repository"
)

const (
	table   = "users"
	colID   = "id"
	colName = "name"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewUserRepository(dbc *pgxpool.Pool) repository.UserRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// Upsert - запоминает пользователя из токена. Пустое имя не затирает сохраненное
func (r *repo) Upsert(ctx context.Context, user *model.User) error {
	sqlStr, args, err := psql.Insert(table).
		Columns(colID, colName).
		Values(user.ID, user.Name).
		Suffix("ON CONFLICT (" + colID + ") DO UPDATE SET " + colName + " = EXCLUDED." + colName +
			" WHERE EXCLUDED." + colName + " <> ''").
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	return err
}
