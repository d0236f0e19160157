package importcsv_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/financeflow/internal/auth"
	"github.com/MrJamesThe3rd/financeflow/internal/http/importcsv"
	"github.com/MrJamesThe3rd/financeflow/internal/importer"
	"github.com/MrJamesThe3rd/financeflow/internal/transaction"
)

var userID = uuid.MustParse("5b1f7c1e-3c1d-4d7e-9a55-1f0d2e3c4b5a")

const statement = `Date,Type,Category,Amount,Note,Payment Method
2024-06-05,expense,,45000.00,Nasi goreng,cash
`

type fixture struct {
	handler http.Handler
	txs     *importer.MockTransactions
}

func setup(t *testing.T) fixture {
	ctrl := gomock.NewController(t)

	txs := importer.NewMockTransactions(ctrl)
	categories := importer.NewMockCategories(ctrl)
	suggester := importer.NewMockSuggester(ctrl)

	categories.EXPECT().List(gomock.Any(), userID).Return(nil, nil).AnyTimes()
	suggester.EXPECT().Suggest(gomock.Any(), userID, gomock.Any()).Return(uuid.Nil, nil).AnyTimes()

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), &auth.Session{UserID: userID})))
		})
	})
	r.Route("/import", importcsv.NewHandler(importer.NewService(txs, categories, suggester)).Routes)

	return fixture{handler: r, txs: txs}
}

func upload(t *testing.T, field, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "statement.csv")
	require.NoError(t, err)

	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/import/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return req
}

func TestHandler_Import(t *testing.T) {
	f := setup(t)

	f.txs.EXPECT().ImportBatch(gomock.Any(), userID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ uuid.UUID, params []transaction.CreateParams) (*transaction.ImportResult, error) {
			stored := &transaction.Transaction{ID: uuid.New(), Date: params[0].Date, Type: params[0].Type, Amount: params[0].Amount, Note: params[0].Note}
			return &transaction.ImportResult{Imported: []*transaction.Transaction{stored}}, nil
		})

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, upload(t, "file", statement))

	require.Equal(t, http.StatusCreated, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "financeflow", got["format"])
	assert.EqualValues(t, 1, got["imported"])
}

func TestHandler_ImportConflicts(t *testing.T) {
	f := setup(t)

	f.txs.EXPECT().ImportBatch(gomock.Any(), userID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ uuid.UUID, params []transaction.CreateParams) (*transaction.ImportResult, error) {
			existing := &transaction.Transaction{ID: uuid.New(), Date: params[0].Date, Note: params[0].Note}
			return &transaction.ImportResult{Conflicts: []transaction.Conflict{{Incoming: params[0], Existing: existing}}}, nil
		})

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, upload(t, "file", statement))

	require.Equal(t, http.StatusConflict, rec.Code)

	var got struct {
		New       []map[string]any `json:"new"`
		Conflicts []struct {
			Incoming map[string]any `json:"incoming"`
		} `json:"conflicts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Empty(t, got.New)
	require.Len(t, got.Conflicts, 1)
	assert.Equal(t, "2024-06-05", got.Conflicts[0].Incoming["date"])
	assert.Equal(t, "Nasi goreng", got.Conflicts[0].Incoming["note"])
}

func TestHandler_ImportRejected(t *testing.T) {
	t.Run("missing file field", func(t *testing.T) {
		f := setup(t)

		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, upload(t, "other", statement))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown layout", func(t *testing.T) {
		f := setup(t)

		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, upload(t, "file", "foo,bar\n1,2\n"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_Confirm(t *testing.T) {
	f := setup(t)

	f.txs.EXPECT().CreateBatch(gomock.Any(), userID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ uuid.UUID, params []transaction.CreateParams) ([]*transaction.Transaction, error) {
			require.Len(t, params, 1)
			assert.Equal(t, "Nasi goreng", params[0].Note)

			return []*transaction.Transaction{{ID: uuid.New(), Note: params[0].Note}}, nil
		})

	body := `{"params":[{"date":"2024-06-05","type":"expense","amount":"45000","paymentMethod":"cash","note":"Nasi goreng"}]}`

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/import/confirm", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestHandler_ConfirmInvalidRows(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{
			name: "unknown type",
			row:  `{"date":"2024-06-05","type":"bogus","amount":"45000","paymentMethod":"cash","note":"Nasi goreng"}`,
		},
		{
			name: "negative amount",
			row:  `{"date":"2024-06-05","type":"expense","amount":"-5","paymentMethod":"cash","note":"Nasi goreng"}`,
		},
		{
			name: "unknown payment method",
			row:  `{"date":"2024-06-05","type":"expense","amount":"45000","paymentMethod":"cheque","note":"Nasi goreng"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			// No repository calls are expected: invalid rows never reach the store.
			repo := transaction.NewMockRepository(ctrl)
			svc := importer.NewService(transaction.NewService(repo), importer.NewMockCategories(ctrl), importer.NewMockSuggester(ctrl))

			r := chi.NewRouter()
			r.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), &auth.Session{UserID: userID})))
				})
			})
			r.Route("/import", importcsv.NewHandler(svc).Routes)

			body := `{"params":[` + tt.row + `]}`

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/import/confirm", strings.NewReader(body)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "row 1")
		})
	}
}
