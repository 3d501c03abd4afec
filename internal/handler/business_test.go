package handler

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhozi/WeConnect-2/internal/hashid"
	"github.com/muhozi/WeConnect-2/internal/repository"
	"github.com/muhozi/WeConnect-2/internal/validation"
)

const validBusinessBody = `{"name":"Kigali Coffee","description":"Best coffee in town","category":"Coffee","country":"Rwanda","city":"Kigali"}`

func newBusinessHandler(t *testing.T) (*BusinessHandler, sqlmock.Sqlmock, *hashid.Codec, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	codec, err := hashid.New("test-salt", 8)
	require.NoError(t, err)

	// Business and review rules carry no unique specs; the checks are
	// never invoked here.
	rules := validation.NewRuleSets(validation.UniqueChecks{
		Username: func(context.Context, string) (bool, error) { return false, nil },
		Email:    func(context.Context, string) (bool, error) { return false, nil },
	})
	h := NewBusinessHandler(repository.NewBusinessRepo(db), repository.NewReviewRepo(db), codec, rules)
	return h, mock, codec, func() { _ = db.Close() }
}

func businessRow(id, userID uint64, name string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "name", "description", "category", "country", "city", "created_at", "updated_at",
	}).AddRow(id, userID, name, "Best coffee in town", "Coffee", "Rwanda", "Kigali",
		"2018-01-01 00:00:00", "2018-01-01 00:00:00")
}

func TestRegisterBusinessDuplicateName(t *testing.T) {
	h, mock, _, closeDB := newBusinessHandler(t)
	defer closeDB()
	mock.ExpectQuery("SELECT id FROM businesses WHERE user_id").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	req, rec := jsonRequest(http.MethodPost, "/api/v1/businesses", validBusinessBody)
	c := echo.New().NewContext(req, rec)
	c.Set("user_id", uint64(7))

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already a registered business with the same name")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterBusinessSuccess(t *testing.T) {
	h, mock, _, closeDB := newBusinessHandler(t)
	defer closeDB()
	mock.ExpectQuery("SELECT id FROM businesses WHERE user_id").WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO businesses").WillReturnResult(sqlmock.NewResult(1, 1))

	req, rec := jsonRequest(http.MethodPost, "/api/v1/businesses", validBusinessBody)
	c := echo.New().NewContext(req, rec)
	c.Set("user_id", uint64(7))

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Your business has been successfully registered")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterBusinessValidation(t *testing.T) {
	h, mock, _, closeDB := newBusinessHandler(t)
	defer closeDB()

	req, rec := jsonRequest(http.MethodPost, "/api/v1/businesses", `{"name":"K"}`)
	c := echo.New().NewContext(req, rec)
	c.Set("user_id", uint64(7))

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Please provide required info", body["message"])
	errs, ok := body["errors"].(map[string]any)
	require.True(t, ok)
	// All broken fields are reported at once.
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "description")
	assert.Contains(t, errs, "country")
	assert.Contains(t, errs, "city")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBusinessNotOwned(t *testing.T) {
	h, mock, codec, closeDB := newBusinessHandler(t)
	defer closeDB()
	mock.ExpectQuery("SELECT .* FROM businesses WHERE id = .* AND user_id = ").
		WillReturnError(sql.ErrNoRows)

	req, rec := jsonRequest(http.MethodPut, "/api/v1/businesses/x", validBusinessBody)
	c := echo.New().NewContext(req, rec)
	c.Set("user_id", uint64(99))
	c.SetParamNames("id")
	c.SetParamValues(codec.Encode(5))

	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "doesn't exist or you don't have privileges")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBusinessSuccess(t *testing.T) {
	h, mock, codec, closeDB := newBusinessHandler(t)
	defer closeDB()
	mock.ExpectQuery("SELECT .* FROM businesses WHERE id = .* AND user_id = ").
		WillReturnRows(businessRow(5, 7, "Kigali Coffee"))
	mock.ExpectQuery("SELECT id FROM businesses WHERE user_id").WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("UPDATE businesses").WillReturnResult(sqlmock.NewResult(0, 1))

	req, rec := jsonRequest(http.MethodPut, "/api/v1/businesses/x", validBusinessBody)
	c := echo.New().NewContext(req, rec)
	c.Set("user_id", uint64(7))
	c.SetParamNames("id")
	c.SetParamValues(codec.Encode(5))

	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), "Your business has been successfully updated")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteBusinessNotOwned(t *testing.T) {
	h, mock, codec, closeDB := newBusinessHandler(t)
	defer closeDB()
	mock.ExpectQuery("SELECT .* FROM businesses WHERE id = .* AND user_id = ").
		WillReturnError(sql.ErrNoRows)

	req, rec := jsonRequest(http.MethodDelete, "/api/v1/businesses/x", "")
	c := echo.New().NewContext(req, rec)
	c.Set("user_id", uint64(99))
	c.SetParamNames("id")
	c.SetParamValues(codec.Encode(5))

	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "doesn't exist or you don't have privileges")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteBusinessCascadesReviews(t *testing.T) {
	h, mock, codec, closeDB := newBusinessHandler(t)
	defer closeDB()
	mock.ExpectQuery("SELECT .* FROM businesses WHERE id = .* AND user_id = ").
		WillReturnRows(businessRow(5, 7, "Kigali Coffee"))
	// Reviews go first, then the business row.
	mock.ExpectExec("DELETE FROM reviews WHERE business_id").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM businesses WHERE id").WillReturnResult(sqlmock.NewResult(0, 1))

	req, rec := jsonRequest(http.MethodDelete, "/api/v1/businesses/x", "")
	c := echo.New().NewContext(req, rec)
	c.Set("user_id", uint64(7))
	c.SetParamNames("id")
	c.SetParamValues(codec.Encode(5))

	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), "Your business has been successfully deleted")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBusinessUndecodableID(t *testing.T) {
	h, mock, _, closeDB := newBusinessHandler(t)
	defer closeDB()

	req, rec := jsonRequest(http.MethodGet, "/api/v1/businesses/x", "")
	c := echo.New().NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not_a_hashid")

	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Business not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBusinessSerializesHashids(t *testing.T) {
	h, mock, codec, closeDB := newBusinessHandler(t)
	defer closeDB()
	mock.ExpectQuery("SELECT .* FROM businesses WHERE id = ").
		WillReturnRows(businessRow(5, 7, "Kigali Coffee"))

	req, rec := jsonRequest(http.MethodGet, "/api/v1/businesses/x", "")
	c := echo.New().NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(codec.Encode(5))

	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	business, ok := body["business"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, codec.Encode(5), business["id"])
	assert.Equal(t, codec.Encode(7), business["user_id"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBusinessesEmpty(t *testing.T) {
	h, mock, _, closeDB := newBusinessHandler(t)
	defer closeDB()
	mock.ExpectQuery("SELECT .* FROM businesses ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "name", "description", "category", "country", "city", "created_at", "updated_at",
		}))

	req, rec := jsonRequest(http.MethodGet, "/api/v1/businesses", "")
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No business found!")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListBusinessesCategoryFilterIsCaseInsensitive(t *testing.T) {
	h, mock, _, closeDB := newBusinessHandler(t)
	defer closeDB()
	mock.ExpectQuery("SELECT .* FROM businesses WHERE LOWER\\(category\\) = ").
		WithArgs("coffee").
		WillReturnRows(businessRow(5, 7, "Kigali Coffee"))

	req, rec := jsonRequest(http.MethodGet, "/api/v1/businesses?category=CoFFee", "")
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "There are 1 businesses found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountBusinesses(t *testing.T) {
	h, mock, _, closeDB := newBusinessHandler(t)
	defer closeDB()
	mock.ExpectQuery("SELECT .* FROM businesses WHERE user_id = .* ORDER BY id").
		WillReturnRows(businessRow(5, 7, "Kigali Coffee").
			AddRow(6, 7, "Kigali Tea", "Fine teas", "Tea", "Rwanda", "Kigali",
				"2018-01-02 00:00:00", "2018-01-02 00:00:00"))

	req, rec := jsonRequest(http.MethodGet, "/api/v1/account/businesses", "")
	c := echo.New().NewContext(req, rec)
	c.Set("user_id", uint64(7))

	require.NoError(t, h.AccountBusinesses(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "2 registered businesses")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountBusinessesEmpty(t *testing.T) {
	h, mock, _, closeDB := newBusinessHandler(t)
	defer closeDB()
	mock.ExpectQuery("SELECT .* FROM businesses WHERE user_id = .* ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "name", "description", "category", "country", "city", "created_at", "updated_at",
		}))

	req, rec := jsonRequest(http.MethodGet, "/api/v1/account/businesses", "")
	c := echo.New().NewContext(req, rec)
	c.Set("user_id", uint64(7))

	require.NoError(t, h.AccountBusinesses(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "You don't have registered any business")
	assert.NoError(t, mock.ExpectationsWereMet())
}
