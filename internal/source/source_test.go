package source_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
	"golang.org/x/oauth2"

	"github.com/Tiliavir/clockstorm/internal/model"
	"github.com/Tiliavir/clockstorm/internal/source"
	"github.com/Tiliavir/clockstorm/internal/storage"
	"github.com/Tiliavir/clockstorm/internal/timecalc"
	"github.com/Tiliavir/clockstorm/internal/timesheets"
)

const gridJSON = `{
  "weekEnding": "03/19/2023",
  "timeCards": [
    {"project": "Internal", "status": "Saved", "hours": [8, "8", "7.5", "abc", "", 0, 0]},
    {"project": "  ", "status": "saved", "hours": [1, 1, 1, 1, 1, 1, 1]},
    {"project": "Client", "status": "draft", "hours": [1, 1, 1, 1, 1, 1, 1]},
    {"project": "Client", "status": "submitted", "hours": [null, 2]}
  ]
}`

func date(y, m, d int) timecalc.DateOnly {
	return timecalc.DateOnly{Year: y, Month: m, Day: d}
}

func TestWireToTimeSheet(t *testing.T) {
	var grid source.WireTimeSheet
	require.NoError(t, json.Unmarshal([]byte(gridJSON), &grid))

	ts, err := grid.ToTimeSheet()
	require.NoError(t, err)
	require.NotNil(t, ts)

	assert.Equal(t, model.NewWeekDates(date(2023, 3, 13)), ts.Dates)
	assert.Equal(t, []model.TimeCard{
		{Status: model.StatusSaved, Hours: model.HoursFromSlice([]float64{8, 8, 7.5})},
		{Status: model.StatusSubmitted, Hours: model.HoursFromSlice([]float64{0, 2})},
	}, ts.TimeCards)
}

func TestWireToTimeSheetWeekEnding(t *testing.T) {
	ts, err := source.WireTimeSheet{WeekEnding: " "}.ToTimeSheet()
	require.NoError(t, err)
	assert.Nil(t, ts)

	_, err = source.WireTimeSheet{WeekEnding: "03/18/2023"}.ToTimeSheet()
	assert.ErrorContains(t, err, "not a sunday")

	_, err = source.WireTimeSheet{WeekEnding: "2023-03-19"}.ToTimeSheet()
	assert.ErrorIs(t, err, timecalc.ErrInvalidDateOnlyKey)

	for _, ending := range []string{"3/19/2023", "03/19/23", "02/30/2023"} {
		_, err = source.WireTimeSheet{WeekEnding: ending}.ToTimeSheet()
		assert.ErrorIs(t, err, timecalc.ErrInvalidDateOnlyKey, ending)
	}
}

func TestClientQueryTimeSheet(t *testing.T) {
	status := http.StatusOK
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/timesheets/current" || r.Header.Get("Accept") != "application/json" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret-token" {
			http.Error(w, "unauthorized "+got, http.StatusUnauthorized)
			return
		}
		w.WriteHeader(status)
		if status == http.StatusOK {
			fmt.Fprint(w, gridJSON)
		}
	}))
	defer server.Close()

	ctx := context.Background()
	client := source.NewClient(ctx, server.URL+"/api/", oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "secret-token"}))

	ts, err := client.QueryTimeSheet(ctx)
	require.NoError(t, err)
	require.NotNil(t, ts)
	assert.Equal(t, "03/13/2023", ts.Key())
	assert.Len(t, ts.TimeCards, 2)

	status = http.StatusNoContent
	ts, err = client.QueryTimeSheet(ctx)
	require.NoError(t, err)
	assert.Nil(t, ts)

	status = http.StatusBadGateway
	_, err = client.QueryTimeSheet(ctx)
	assert.ErrorContains(t, err, "timesheet API error 502")

	anonymous := source.NewHTTPClient(server.URL+"/api", server.Client())
	_, err = anonymous.QueryTimeSheet(ctx)
	assert.ErrorContains(t, err, "401")
}

func TestFileSource(t *testing.T) {
	ctx := context.Background()
	want := model.EmptyTimeSheet(date(2023, 3, 13))
	want.TimeCards = append(want.TimeCards, model.TimeCard{Status: model.StatusApproved, Hours: model.HoursFromSlice([]float64{4})})
	data, err := json.Marshal(want)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "week.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	got, err := source.FileSource{Path: path}.QueryTimeSheet(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)

	got, err = source.FileSource{Path: "-", Reader: strings.NewReader(gridJSON)}.QueryTimeSheet(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, date(2023, 3, 13), got.Dates.Monday)

	_, err = source.FileSource{Path: "-", Reader: strings.NewReader(`{"dates": {}}`)}.QueryTimeSheet(ctx)
	assert.ErrorIs(t, err, model.ErrInvalidTimeSheet)

	_, err = source.FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}.QueryTimeSheet(ctx)
	assert.Error(t, err)
}

type fakeSource struct {
	results []*model.TimeSheet
	errs    []error
	calls   int
}

func (f *fakeSource) QueryTimeSheet(context.Context) (*model.TimeSheet, error) {
	i := f.calls
	f.calls++
	return f.results[i], f.errs[i]
}

func TestSyncer(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	first := model.EmptyTimeSheet(date(2023, 3, 13))
	first.TimeCards = append(first.TimeCards, model.TimeCard{Status: model.StatusUnsaved, Hours: model.HoursFromSlice([]float64{8})})
	same := first
	changed := first
	changed.TimeCards = []model.TimeCard{{Status: model.StatusSaved, Hours: model.HoursFromSlice([]float64{8})}}

	src := &fakeSource{
		results: []*model.TimeSheet{&first, &same, nil, nil, &changed},
		errs:    []error{nil, nil, nil, errors.New("grid not found"), nil},
	}
	syncer := source.NewSyncer(store, src)

	var total source.SyncResult
	for range src.results {
		res, err := syncer.Sync(ctx)
		require.NoError(t, err)
		total.Stored += res.Stored
		total.Unchanged += res.Unchanged
		total.Empty += res.Empty
		total.Errors += res.Errors
	}
	assert.Equal(t, source.SyncResult{Stored: 2, Unchanged: 1, Empty: 1, Errors: 1}, total)
	assert.Equal(t, changed, timesheets.Get(ctx, store, date(2023, 3, 13)))
}

func TestSyncerStoreFailure(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Close())
	ts := model.EmptyTimeSheet(date(2023, 3, 13))

	_, err := source.NewSyncer(store, &fakeSource{results: []*model.TimeSheet{&ts}, errs: []error{nil}}).Sync(context.Background())
	assert.ErrorIs(t, err, storage.ErrClosed)
}

func TestTokenStoreKeyring(t *testing.T) {
	keyring.MockInit()
	store := source.TokenStore{Dir: t.TempDir()}

	tok, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, tok)

	require.NoError(t, store.Save(&oauth2.Token{AccessToken: "a", RefreshToken: "r"}))
	_, err = os.Stat(filepath.Join(store.Dir, "tokens.json"))
	assert.True(t, os.IsNotExist(err), "token must not hit the disk when the keyring works")

	tok, err = store.Load()
	require.NoError(t, err)
	require.NotNil(t, tok)
	assert.Equal(t, "a", tok.AccessToken)

	require.NoError(t, store.Delete())
	tok, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, tok)
}

func TestTokenStoreFileFallback(t *testing.T) {
	keyring.MockInitWithError(errors.New("no secret service"))
	defer keyring.MockInit()
	store := source.TokenStore{Dir: filepath.Join(t.TempDir(), "auth")}

	require.NoError(t, store.Save(&oauth2.Token{AccessToken: "file-token"}))
	info, err := os.Stat(filepath.Join(store.Dir, "tokens.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	tok, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, tok)
	assert.Equal(t, "file-token", tok.AccessToken)

	require.NoError(t, os.WriteFile(filepath.Join(store.Dir, "tokens.json"), []byte("{"), 0o600))
	_, err = store.Load()
	assert.ErrorContains(t, err, "corrupt token file")
}

func tokenServer(t *testing.T) (*httptest.Server, *int) {
	t.Helper()
	issued := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/devicecode", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"device_code":"dc","user_code":"ABCD-EFGH","verification_uri":"https://example.test/device","expires_in":600,"interval":1}`)
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		issued++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":"issued-%d","token_type":"Bearer","refresh_token":"refresh","expires_in":3600}`, issued)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &issued
}

func authConfig(server *httptest.Server) source.AuthConfig {
	return source.AuthConfig{
		ClientID:      "client",
		DeviceAuthURL: server.URL + "/devicecode",
		TokenURL:      server.URL + "/token",
	}
}

func TestAuthenticateNotConfigured(t *testing.T) {
	_, err := source.Authenticate(context.Background(), source.AuthConfig{ClientID: "c"}, source.TokenStore{Dir: t.TempDir()}, &bytes.Buffer{})
	assert.ErrorIs(t, err, source.ErrNotConfigured)
}

func TestAuthConfigTenantEndpoints(t *testing.T) {
	cfg := source.AuthConfig{TenantID: "common", ClientID: "c"}.OAuth2()
	assert.Equal(t, "https://login.microsoftonline.com/common/oauth2/v2.0/devicecode", cfg.Endpoint.DeviceAuthURL)
	assert.Equal(t, "https://login.microsoftonline.com/common/oauth2/v2.0/token", cfg.Endpoint.TokenURL)
}

func TestAuthenticateUsesValidToken(t *testing.T) {
	keyring.MockInit()
	server, issued := tokenServer(t)
	store := source.TokenStore{Dir: t.TempDir()}
	require.NoError(t, store.Save(&oauth2.Token{AccessToken: "stored", Expiry: time.Now().Add(time.Hour)}))

	ts, err := source.Authenticate(context.Background(), authConfig(server), store, &bytes.Buffer{})
	require.NoError(t, err)
	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "stored", tok.AccessToken)
	assert.Equal(t, 0, *issued)
}

func TestAuthenticateRefreshesExpiredToken(t *testing.T) {
	keyring.MockInit()
	server, issued := tokenServer(t)
	store := source.TokenStore{Dir: t.TempDir()}
	require.NoError(t, store.Save(&oauth2.Token{AccessToken: "old", RefreshToken: "refresh", Expiry: time.Now().Add(-time.Hour)}))

	ts, err := source.Authenticate(context.Background(), authConfig(server), store, &bytes.Buffer{})
	require.NoError(t, err)
	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "issued-1", tok.AccessToken)
	assert.Equal(t, 1, *issued)

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "issued-1", saved.AccessToken)
}

func TestAuthenticateDeviceFlow(t *testing.T) {
	keyring.MockInit()
	server, _ := tokenServer(t)
	store := source.TokenStore{Dir: t.TempDir()}
	var prompt bytes.Buffer

	ts, err := source.Authenticate(context.Background(), authConfig(server), store, &prompt)
	require.NoError(t, err)
	assert.Contains(t, prompt.String(), "https://example.test/device")
	assert.Contains(t, prompt.String(), "ABCD-EFGH")

	tok, err := ts.Token()
	require.NoError(t, err)
	assert.Equal(t, "issued-1", tok.AccessToken)

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "issued-1", saved.AccessToken)
}
