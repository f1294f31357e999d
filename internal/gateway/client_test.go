package gateway

import (
	"ai_authoring_backend/internal/model"
	"ai_authoring_backend/internal/util"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	query  string
	header http.Header
	body   []byte
}

func newTestClient(t *testing.T, status int, response string) (*Client, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.RawQuery
		rec.header = r.Header.Clone()
		rec.body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return NewClientWithHTTP(srv.URL, srv.Client()), rec
}

func TestClientSendsNoCacheHeaders(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, `[]`)

	_, err := c.GetDropdownOptions(context.Background(), model.DropdownRequest{CustCode: "ES", OrgCode: "Exc195", AppCode: "Adm488"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/dropdownloader", rec.path)
	assert.Equal(t, "no-cache", rec.header.Get("Cache-Control"))
	assert.Equal(t, "no-cache", rec.header.Get("Pragma"))
	assert.Equal(t, "0", rec.header.Get("Expires"))
	assert.Equal(t, "application/json", rec.header.Get("Content-Type"))
	assert.JSONEq(t, `{"custcode":"ES","orgcode":"Exc195","appcode":"Adm488"}`, string(rec.body))
}

func TestGetLearningObjectivesAcceptsBothShapes(t *testing.T) {
	cases := map[string]string{
		"bare array":    `[{"loCode":"L1","loName":"One"},{"loCode":"","loName":""},{"loCode":"L2","loName":""}]`,
		"data envelope": `{"data":[{"loCode":"L1","loName":"One"},{"loCode":"","loName":""},{"loCode":"L2","loName":""}]}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c, rec := newTestClient(t, http.StatusOK, body)

			los, err := c.GetLearningObjectives(context.Background(), "CH1")
			require.NoError(t, err)

			assert.Equal(t, http.MethodGet, rec.method)
			assert.Equal(t, "/lo", rec.path)
			assert.Equal(t, "chaptercode=CH1", rec.query)
			assert.Equal(t, []model.LearningObjective{
				{Code: "L1", Name: "One"},
				{Code: "L2", Name: ""},
			}, los)
		})
	}
}

func TestGetChaptersNullIsEmpty(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, `{"data":null}`)

	chapters, err := c.GetChapters(context.Background(), "BK1")
	require.NoError(t, err)
	assert.Equal(t, "bookcode=BK1", rec.query)
	assert.NotNil(t, chapters)
	assert.Empty(t, chapters)
}

func TestLogin(t *testing.T) {
	t.Run("success returns first element", func(t *testing.T) {
		c, _ := newTestClient(t, http.StatusOK,
			`{"status":"S001","data":[{"usercode":"U1","orgcode":"O1","custcode":"C1","role":"admin"},{"usercode":"U2"}]}`)

		user, err := c.Login(context.Background(), model.LoginCredentials{Email: "a@b.c", Password: "pw"})
		require.NoError(t, err)
		assert.Equal(t, "U1", user.UserCode)
		assert.Equal(t, "O1", user.OrgCode)

		raw, err := json.Marshal(user)
		require.NoError(t, err)
		assert.JSONEq(t, `{"usercode":"U1","orgcode":"O1","custcode":"C1","role":"admin"}`, string(raw))
	})

	t.Run("other status fails", func(t *testing.T) {
		c, _ := newTestClient(t, http.StatusOK, `{"status":"E001","message":"Invalid password"}`)

		user, err := c.Login(context.Background(), model.LoginCredentials{Email: "a@b.c", Password: "pw"})
		assert.Nil(t, user)
		assert.ErrorIs(t, err, util.ErrLoginFailed)
		assert.Contains(t, err.Error(), "Invalid password")
	})

	t.Run("success without data fails", func(t *testing.T) {
		c, _ := newTestClient(t, http.StatusOK, `{"status":"S001","data":[]}`)

		_, err := c.Login(context.Background(), model.LoginCredentials{Email: "a@b.c", Password: "pw"})
		assert.ErrorIs(t, err, util.ErrLoginFailed)
	})
}

func TestDeleteQuestion(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		deleted bool
	}{
		{"nested success", http.StatusOK, `{"status":[["S001","deleted"]]}`, true},
		{"nested failure", http.StatusOK, `{"status":[["E002"]]}`, false},
		{"flat status", http.StatusOK, `{"status":"S001"}`, false},
		{"empty status", http.StatusOK, `{"status":[]}`, false},
		{"not json", http.StatusOK, `ok`, false},
		{"server error", http.StatusInternalServerError, `{"status":[["S001"]]}`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestClient(t, tc.status, tc.body)
			assert.Equal(t, tc.deleted, c.DeleteQuestion(context.Background(), model.DeleteQuestionRequest{QuestionID: "q1"}))
		})
	}
}

func TestGetBookWiseUsage(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, `[["Algebra","B1",5,"100","2","1",0,"img.png","path.pdf"]]`)

	usage, err := c.GetBookWiseUsage(context.Background(), model.UsageRequest{UserCode: "U1"})
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.Equal(t, model.BookUsage{
		BookName:        "Algebra",
		BookCode:        "B1",
		TotalQuestions:  5,
		TokensUsed:      "100",
		QuestionTypes:   "2",
		ChaptersCovered: "1",
		AverageScore:    0,
		CoverImage:      "img.png",
		DocumentPath:    "path.pdf",
	}, usage[0])

	var sent model.UsageRequest
	require.NoError(t, json.Unmarshal(rec.body, &sent))
	assert.Equal(t, model.UsageTypeBookWise, sent.Type)
}

func TestGetUsageTotalsSetsType(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, `[10, 2500, 3, 7]`)

	totals, err := c.GetUsageTotals(context.Background(), model.UsageRequest{Type: 9})
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 2500, 3, 7}, totals)

	var sent model.UsageRequest
	require.NoError(t, json.Unmarshal(rec.body, &sent))
	assert.Equal(t, model.UsageTypeTotals, sent.Type)
}

func TestGetAppDetailsQuery(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, `{"app_details":[{"id":1,"appcode":"Adm488","name":"Gen","subscription":1}]}`)

	apps, err := c.GetAppDetails(context.Background(), model.AppDetailsQuery{UserCode: "U1", OrgCode: "O1", Subscription: "1"})
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.True(t, apps[0].Subscribed())
	assert.Equal(t, "orgcode=O1&subscription=1&usercode=U1", rec.query)
}

func TestOpaqueEndpointsPassThrough(t *testing.T) {
	c, _ := newTestClient(t, http.StatusOK, `{"anything":[1,2,{"nested":true}]}`)

	out, err := c.GetFromDB(context.Background(), model.ItemQuery{PageSize: 20, PageNo: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"anything":[1,2,{"nested":true}]}`, string(out))
}

func TestOpaque(t *testing.T) {
	assert.Equal(t, "null", string(opaque(nil)))
	assert.Equal(t, `"plain text"`, string(opaque([]byte(" plain text "))))
	assert.Equal(t, `[1]`, string(opaque([]byte("[1]"))))
}

func TestStatusErrorUnwrapsToUpstream(t *testing.T) {
	c, _ := newTestClient(t, http.StatusBadGateway, `gateway down`)

	_, err := c.GenerateItems(context.Background(), model.ItemGenInput{})
	require.Error(t, err)
	assert.ErrorIs(t, err, util.ErrUpstream)

	var serr *StatusError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, http.StatusBadGateway, serr.StatusCode)
	assert.Equal(t, "/item_gen", serr.Endpoint)
}

func TestTransportErrorUnwrapsToUpstream(t *testing.T) {
	c := NewClientWithHTTP("http://127.0.0.1:1", http.DefaultClient)

	_, err := c.GetChapters(context.Background(), "BK1")
	assert.ErrorIs(t, err, util.ErrUpstream)
}
