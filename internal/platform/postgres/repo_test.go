package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/suite"

	"backoffice/internal/query"
	"backoffice/pkg/platform/sentinel"
	txcontext "backoffice/pkg/platform/tx"
)

type thing struct {
	ID     int64
	Name   string
	Parent int64
}

var thingTable = Table{
	Name: "things",
	Columns: []Column{
		{Field: "name", Name: "F_01", Search: true},
		{Field: "parent", Name: "F_02"},
	},
}

func thingMapping() Mapping[thing] {
	return Mapping[thing]{
		ID:     func(t thing) int64 { return t.ID },
		SetID:  func(t *thing, id int64) { t.ID = id },
		Values: func(t thing) []any { return []any{t.Name, t.Parent} },
		Scan: func(s Scanner) (thing, error) {
			var t thing
			err := s.Scan(&t.ID, &t.Name, &t.Parent)
			return t, err
		},
	}
}

type RepoSuite struct {
	suite.Suite
	db   *sql.DB
	mock sqlmock.Sqlmock
	repo *Repo[thing]
	ctx  context.Context
}

func TestRepoSuite(t *testing.T) {
	suite.Run(t, new(RepoSuite))
}

func (s *RepoSuite) SetupTest() {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	s.Require().NoError(err)
	s.db, s.mock = db, mock
	s.repo = NewRepo(db, thingTable, thingMapping())
	s.ctx = context.Background()
}

func (s *RepoSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	_ = s.db.Close()
}

func (s *RepoSuite) TestCreate() {
	s.mock.ExpectQuery("INSERT INTO things (F_01, F_02) VALUES ($1, $2) RETURNING F_00").
		WithArgs("Mobilier", int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"F_00"}).AddRow(int64(11)))

	created, err := s.repo.Create(s.ctx, thing{Name: "Mobilier", Parent: 3})
	s.Require().NoError(err)
	s.Equal(int64(11), created.ID)
}

func (s *RepoSuite) TestCreateUniqueViolation() {
	s.mock.ExpectQuery("INSERT INTO things (F_01, F_02) VALUES ($1, $2) RETURNING F_00").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uk_things_name"})

	_, err := s.repo.Create(s.ctx, thing{Name: "Mobilier"})
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)
	var uv *sentinel.UniqueViolation
	s.Require().ErrorAs(err, &uv)
	s.Equal("uk_things_name", uv.Constraint)
}

func (s *RepoSuite) TestUpdateAndDelete() {
	s.mock.ExpectExec("UPDATE things SET F_01 = $1, F_02 = $2 WHERE F_00 = $3").
		WithArgs("Mobilier", int64(3), int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.NoError(s.repo.Update(s.ctx, thing{ID: 11, Name: "Mobilier", Parent: 3}))

	s.mock.ExpectExec("DELETE FROM things WHERE F_00 = $1").
		WithArgs(int64(12)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.ErrorIs(s.repo.Delete(s.ctx, 12), sentinel.ErrNotFound)

	s.mock.ExpectExec("DELETE FROM things WHERE F_00 = $1").
		WithArgs(int64(11)).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "fk_children_thing"})
	s.ErrorIs(s.repo.Delete(s.ctx, 11), sentinel.ErrReferenced)
}

func (s *RepoSuite) TestFindByIDNotFound() {
	s.mock.ExpectQuery("SELECT F_00, F_01, F_02 FROM things WHERE F_00 = $1").
		WithArgs(int64(5)).
		WillReturnError(sql.ErrNoRows)

	_, err := s.repo.FindByID(s.ctx, 5)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RepoSuite) TestLockRunsInsideTransaction() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery("SELECT F_00, F_01, F_02 FROM things WHERE F_00 = $1 FOR UPDATE").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"F_00", "F_01", "F_02"}).AddRow(int64(5), "Mobilier", int64(1)))
	s.mock.ExpectCommit()

	err := txcontext.NewSQLRunner(s.db).RunInTx(s.ctx, func(ctx context.Context) error {
		t, err := s.repo.Lock(ctx, 5)
		s.Equal("Mobilier", t.Name)
		return err
	})
	s.NoError(err)
}

func (s *RepoSuite) TestFindFiltersSortsAndPages() {
	s.mock.ExpectQuery("SELECT COUNT(*) FROM things WHERE (F_01 ILIKE $1) AND F_02 = $2").
		WithArgs(`%mob\%%`, int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(7)))
	s.mock.ExpectQuery("SELECT F_00, F_01, F_02 FROM things WHERE (F_01 ILIKE $1) AND F_02 = $2 ORDER BY F_01 DESC, F_00 ASC LIMIT $3 OFFSET $4").
		WithArgs(`%mob\%%`, int64(3), 5, 5).
		WillReturnRows(sqlmock.NewRows([]string{"F_00", "F_01", "F_02"}).
			AddRow(int64(2), "Mobilier", int64(3)))

	rows, total, err := s.repo.Find(s.ctx,
		query.PageRequest{Page: 1, Size: 5, SortBy: "name", SortDir: query.SortDesc},
		query.Search("mob%"), query.Eq("parent", int64(3)))
	s.Require().NoError(err)
	s.Equal(int64(7), total)
	s.Len(rows, 1)
}

func (s *RepoSuite) TestFindRejectsUnknownSort() {
	s.mock.ExpectQuery("SELECT COUNT(*) FROM things").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))

	_, _, err := s.repo.Find(s.ctx, query.PageRequest{Size: 5, SortBy: "password"})
	s.Error(err)
}

func (s *RepoSuite) TestExistsExcludesSelf() {
	s.mock.ExpectQuery("SELECT EXISTS (SELECT 1 FROM things WHERE F_01 = $1 AND F_00 <> $2)").
		WithArgs("Mobilier", int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	found, err := s.repo.Exists(s.ctx, 4, query.Eq("name", "Mobilier"))
	s.Require().NoError(err)
	s.False(found)
}

func (s *RepoSuite) TestWhereOperators() {
	clause, args, err := s.repo.Where([]query.Criterion{
		query.In("id", []int64{1, 2}),
		query.ContainsAny("name", []string{"capital"}),
		query.Prefix("name", "EU"),
		query.Gte("parent", int64(1)),
		query.Lte("parent", int64(9)),
		query.Search("  "),
	})
	s.Require().NoError(err)
	s.Equal(" WHERE F_00 = ANY($1) AND F_01 ILIKE ANY($2) AND F_01 ILIKE $3 AND F_02 >= $4 AND F_02 <= $5", clause)
	s.Len(args, 5)
	s.Equal("EU%", args[2])

	_, _, err = s.repo.Where([]query.Criterion{query.Eq("password", "x")})
	s.Error(err)
}

func TestMapError(t *testing.T) {
	suite.Run(t, new(mapErrorSuite))
}

type mapErrorSuite struct {
	suite.Suite
}

func (s *mapErrorSuite) TestMapping() {
	s.Nil(MapError(nil))
	s.ErrorIs(MapError(sql.ErrNoRows), sentinel.ErrNotFound)
	s.ErrorIs(MapError(&pgconn.PgError{Code: "23505"}), sentinel.ErrAlreadyUsed)
	s.ErrorIs(MapError(&pgconn.PgError{Code: "23503"}), sentinel.ErrReferenced)
	s.ErrorIs(MapError(&pgconn.PgError{Code: "23514", ConstraintName: "ck_item_distributions_quantity"}), sentinel.ErrInvalidValue)
	s.ErrorIs(MapError(&pgconn.PgError{Code: "22003", Message: "numeric field overflow"}), sentinel.ErrInvalidValue)

	other := errors.New("connection refused")
	s.Equal(other, MapError(other))
}
