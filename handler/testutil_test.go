package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/config"
	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/model"
	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/service"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testOwner = "owner-1"
	testSeed  = "handler-test-seed"
)

// newProviderServer starts a stub of the provider API issuing
// sequential handles
func newProviderServer(t *testing.T) *httptest.Server {
	t.Helper()

	var mu sync.Mutex
	next := 0

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/encrypt":
			mu.Lock()
			next++
			handle := fmt.Sprintf("ct-%d", next)
			mu.Unlock()
			json.NewEncoder(w).Encode(map[string]any{
				"code": 0,
				"data": map[string]string{"handle": handle},
			})
		case "/v1/grants", "/v1/disclosures":
			json.NewEncoder(w).Encode(map[string]any{"code": 0})
		default:
			t.Errorf("Unexpected provider path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

// testEnv wires the full service stack against a stub provider
type testEnv struct {
	store      *service.Store
	registry   *service.RegistryService
	ledger     *service.LedgerService
	evaluation *service.EvaluationService
	decision   *service.DecisionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	srv := newProviderServer(t)
	t.Cleanup(srv.Close)

	cfg := &config.ProviderConfig{
		APIURL:         srv.URL,
		APIToken:       "test-token",
		Seed:           testSeed,
		ServiceAccount: "decision-service",
	}
	provider := service.NewProviderService(cfg)
	store := service.NewStore()

	return &testEnv{
		store:      store,
		registry:   service.NewRegistryService(store, provider, testOwner, cfg.ServiceAccount),
		ledger:     service.NewLedgerService(store, provider, cfg.ServiceAccount),
		evaluation: service.NewEvaluationService(store, provider, cfg.ServiceAccount),
		decision:   service.NewDecisionService(store, provider, testOwner),
	}
}

// authorize marks an account as an authorized investor directly in the
// store
func (e *testEnv) authorize(account string) {
	e.store.SaveAuthorization(&model.Authorization{
		Account:              account,
		Authorized:           true,
		EncryptedBudgetLimit: "ct-budget",
	})
}

// asUser wraps a handler so the caller identity is present in the
// request context, standing in for the auth middleware
func asUser(account, role string, h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("account", account)
		c.Set("role", role)
		h(c)
	}
}

// testProof computes the disclosure proof the stub provider would send
func testProof(requestID string, values model.DisclosedValues) string {
	data := requestID + testSeed + service.EncodeDisclosedValues(values)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
