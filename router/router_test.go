// file: router/router_test.go

package router_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-ledger/app"
	"go-ledger/config"
	"go-ledger/logger"
	"go-ledger/model"
	"go-ledger/service"
)

func TestMain(m *testing.M) {
	logger.Init()
	logger.Log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Storage.Driver = "memory"
	cfg.JWT.SecretKey = "router-test-secret"
	cfg.JWT.TTL = time.Minute
	cfg.Auth.BcryptCost = bcrypt.MinCost
	cfg.Ledger = config.LedgerConfig{Currency: "USD", TxTimeout: 2 * time.Second, ActivityLimit: 10}
	cfg.Events.Driver = "none"
	cfg.Seed.Demo = true
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *app.App {
	t.Helper()
	a, err := app.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

// --- Test Helper Functions ---

func do(t *testing.T, a *app.App, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, _ := http.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)
	return rr
}

func loginUserForTest(t *testing.T, a *app.App, username string) string {
	t.Helper()
	body := fmt.Sprintf(`{"username": %q, "password": %q}`, username, service.DemoPassword)
	rr := do(t, a, http.MethodPost, "/login", "", body)
	require.Equal(t, http.StatusOK, rr.Code, "Login request should be successful")
	var response map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	require.NotEmpty(t, response["access_token"])
	return response["access_token"]
}

func listAccounts(t *testing.T, a *app.App, token string) map[string]model.AccountView {
	t.Helper()
	rr := do(t, a, http.MethodGet, "/api/accounts", token, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var views []model.AccountView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &views))
	byName := make(map[string]model.AccountView, len(views))
	for _, v := range views {
		byName[v.Name] = v
	}
	return byName
}

// --- Test Suites ---

func TestHealthCheck_Integration(t *testing.T) {
	a := newTestApp(t, testConfig())

	rr := do(t, a, http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ledger is healthy and running"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestLogin_Integration(t *testing.T) {
	a := newTestApp(t, testConfig())

	t.Run("successful login", func(t *testing.T) {
		assert.NotEmpty(t, loginUserForTest(t, a, "Alice"))
	})
	t.Run("wrong password", func(t *testing.T) {
		rr := do(t, a, http.MethodPost, "/login", "", `{"username":"alice","password":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
	t.Run("missing fields", func(t *testing.T) {
		rr := do(t, a, http.MethodPost, "/login", "", `{"username":"alice"}`)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	a := newTestApp(t, testConfig())

	for _, path := range []string{"/api/accounts", "/api/activity"} {
		rr := do(t, a, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
	rr := do(t, a, http.MethodPost, "/api/transfers", "not-a-token", `{}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	rr = do(t, a, http.MethodPost, "/logout", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLogout_Integration(t *testing.T) {
	a := newTestApp(t, testConfig())
	token := loginUserForTest(t, a, "alice")
	otherDevice := loginUserForTest(t, a, "alice")
	bobToken := loginUserForTest(t, a, "bob")
	require.Len(t, listAccounts(t, a, token), 2)

	rr := do(t, a, http.MethodPost, "/logout", token, "")
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	for name, tok := range map[string]string{"same token": token, "other device": otherDevice} {
		t.Run(name, func(t *testing.T) {
			rr := do(t, a, http.MethodGet, "/api/accounts", tok, "")
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}

	t.Run("transfers are refused", func(t *testing.T) {
		rr := do(t, a, http.MethodPost, "/api/transfers", token, `{"from_account_id": 1, "to_user": "bob", "to_account": "Checking", "amount": "1.00"}`)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("second logout with a revoked token", func(t *testing.T) {
		rr := do(t, a, http.MethodPost, "/logout", token, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("other users are unaffected", func(t *testing.T) {
		assert.Len(t, listAccounts(t, a, bobToken), 2)
	})

	t.Run("logging in again works", func(t *testing.T) {
		fresh := loginUserForTest(t, a, "alice")
		assert.Len(t, listAccounts(t, a, fresh), 2)
	})
}

func TestTransfer_Integration(t *testing.T) {
	a := newTestApp(t, testConfig())
	aliceToken := loginUserForTest(t, a, "alice")
	bobToken := loginUserForTest(t, a, "bob")

	aliceAccounts := listAccounts(t, a, aliceToken)
	require.Equal(t, int64(150000), aliceAccounts["Checking"].Balance)
	assert.Equal(t, "$1,500.00", aliceAccounts["Checking"].BalanceDisplay)
	checkingID := aliceAccounts["Checking"].ID

	t.Run("successful transfer", func(t *testing.T) {
		body := fmt.Sprintf(`{"from_account_id": %d, "to_user": " BOB ", "to_account": "Checking", "amount": "50.00", "memo": "rent"}`, checkingID)
		rr := do(t, a, http.MethodPost, "/api/transfers", aliceToken, body)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		var resp model.TransferResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.True(t, resp.OK)
		assert.Equal(t, int64(145000), resp.SourceBalance)
		assert.Equal(t, int64(85000), resp.DestinationBalance)
		assert.Equal(t, "$1,450.00", resp.SourceBalanceDisplay)
		assert.Equal(t, "USD", resp.Currency)

		assert.Equal(t, int64(145000), listAccounts(t, a, aliceToken)["Checking"].Balance)
		assert.Equal(t, int64(85000), listAccounts(t, a, bobToken)["Checking"].Balance)

		rr = do(t, a, http.MethodGet, "/api/activity?limit=1", bobToken, "")
		require.Equal(t, http.StatusOK, rr.Code)
		var activity []model.ActivityView
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &activity))
		require.Len(t, activity, 1)
		assert.Equal(t, resp.EntryID, activity[0].EntryID)
		assert.Equal(t, model.DirectionIn, activity[0].Direction)
		assert.Equal(t, "rent", activity[0].Memo)
		assert.Equal(t, "$50.00", activity[0].AmountDisplay)
		assert.NotEmpty(t, activity[0].When)
	})

	rejections := []struct {
		name       string
		body       string
		wantStatus int
		wantKind   string
	}{
		{"insufficient funds", `{"from_account_id": %d, "to_user": "bob", "to_account": "Checking", "amount": "99999.00"}`, http.StatusBadRequest, "InsufficientFunds"},
		{"zero amount", `{"from_account_id": %d, "to_user": "bob", "to_account": "Checking", "amount": "0"}`, http.StatusBadRequest, "InvalidAmount"},
		{"negative amount", `{"from_account_id": %d, "to_user": "bob", "to_account": "Checking", "amount": "-5.00"}`, http.StatusBadRequest, "InvalidAmount"},
		{"unparseable amount", `{"from_account_id": %d, "to_user": "bob", "to_account": "Checking", "amount": "1.005"}`, http.StatusBadRequest, "InvalidAmount"},
		{"memo too long", `{"from_account_id": %d, "to_user": "bob", "to_account": "Checking", "amount": "1.00", "memo": "` + strings.Repeat("m", 141) + `"}`, http.StatusBadRequest, "MemoTooLong"},
		{"same account", `{"from_account_id": %d, "to_user": "alice", "to_account": "Checking", "amount": "1.00"}`, http.StatusBadRequest, "SameAccountTransfer"},
		{"unknown user", `{"from_account_id": %d, "to_user": "mallory", "to_account": "Checking", "amount": "1.00"}`, http.StatusNotFound, "DestinationUserNotFound"},
		{"unknown account", `{"from_account_id": %d, "to_user": "bob", "to_account": "Brokerage", "amount": "1.00"}`, http.StatusNotFound, "DestinationAccountNotFound"},
		{"overlong account name", `{"from_account_id": %d, "to_user": "bob", "to_account": "` + strings.Repeat("x", 200) + `", "amount": "1.00"}`, http.StatusNotFound, "DestinationAccountNotFound"},
		{"overlong user name", `{"from_account_id": %d, "to_user": "` + strings.Repeat("u", 200) + `", "to_account": "Checking", "amount": "1.00"}`, http.StatusNotFound, "DestinationUserNotFound"},
		{"bad amount reported before missing destination", `{"from_account_id": %d, "to_account": "Checking", "amount": "lots"}`, http.StatusBadRequest, "InvalidAmount"},
		{"exponent amount", `{"from_account_id": %d, "to_user": "bob", "to_account": "Checking", "amount": "1e10000000"}`, http.StatusBadRequest, "InvalidAmount"},
		{"missing destination user", `{"from_account_id": %d, "to_account": "Checking", "amount": "1.00"}`, http.StatusBadRequest, "InvalidRequest"},
	}
	for _, tt := range rejections {
		t.Run(tt.name, func(t *testing.T) {
			before := listAccounts(t, a, aliceToken)

			rr := do(t, a, http.MethodPost, "/api/transfers", aliceToken, fmt.Sprintf(tt.body, checkingID))

			assert.Equal(t, tt.wantStatus, rr.Code)
			var appErr struct {
				Kind string `json:"kind"`
			}
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &appErr))
			assert.Equal(t, tt.wantKind, appErr.Kind)
			assert.Equal(t, before, listAccounts(t, a, aliceToken))
		})
	}

	t.Run("source owned by someone else", func(t *testing.T) {
		bobChecking := listAccounts(t, a, bobToken)["Checking"].ID
		body := fmt.Sprintf(`{"from_account_id": %d, "to_user": "alice", "to_account": "Savings", "amount": "1.00"}`, bobChecking)
		rr := do(t, a, http.MethodPost, "/api/transfers", aliceToken, body)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("unknown source account", func(t *testing.T) {
		rr := do(t, a, http.MethodPost, "/api/transfers", aliceToken, `{"from_account_id": 9999, "to_user": "bob", "to_account": "Checking", "amount": "1.00"}`)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("invalid activity limit", func(t *testing.T) {
		rr := do(t, a, http.MethodGet, "/api/activity?limit=abc", aliceToken, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestConcurrentTransfers_Integration(t *testing.T) {
	a := newTestApp(t, testConfig())
	bobToken := loginUserForTest(t, a, "bob")
	savingsID := listAccounts(t, a, bobToken)["Savings"].ID

	body := fmt.Sprintf(`{"from_account_id": %d, "to_user": "alice", "to_account": "Checking", "amount": "30.00"}`, savingsID)
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rr := do(t, a, http.MethodPost, "/api/transfers", bobToken, body)
			if rr.Code == http.StatusCreated {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Savings opens at 100.00, so three 30.00 transfers fit.
	assert.Equal(t, 3, created)
	assert.Equal(t, int64(1000), listAccounts(t, a, bobToken)["Savings"].Balance)
}

func TestListAccounts_Caching_Integration(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Redis = config.RedisConfig{Enabled: true, Host: host, Port: port, CacheTTL: time.Minute}
	cfg.Events.Driver = "redis"
	cfg.Events.Stream = "ledger.transfers"
	a := newTestApp(t, cfg)

	aliceToken := loginUserForTest(t, a, "alice")
	bobToken := loginUserForTest(t, a, "bob")
	checkingID := listAccounts(t, a, aliceToken)["Checking"].ID
	listAccounts(t, a, bobToken)

	bob, err := a.Store.GetUserByUsername(context.Background(), "bob")
	require.NoError(t, err)
	cacheKey := fmt.Sprintf("accounts:%d", bob.ID)
	assert.True(t, mr.Exists(cacheKey), "first request should populate the cache")

	body := fmt.Sprintf(`{"from_account_id": %d, "to_user": "bob", "to_account": "Checking", "amount": "50.00"}`, checkingID)
	rr := do(t, a, http.MethodPost, "/api/transfers", aliceToken, body)
	require.Equal(t, http.StatusCreated, rr.Code)

	assert.False(t, mr.Exists(cacheKey), "transfer should invalidate the receiver's cached accounts")
	assert.Equal(t, int64(85000), listAccounts(t, a, bobToken)["Checking"].Balance)

	entries, err := mr.Stream("ledger.transfers")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
