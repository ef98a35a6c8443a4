package enroll_test

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	httpapi "github.com/classforge/enroll/internal/enroll/http"
	"github.com/classforge/enroll/internal/enroll/service"
	"github.com/classforge/enroll/internal/enroll/store/drivers/sqlite"
	"github.com/classforge/enroll/pkg/enrollsdk"
	"github.com/classforge/enroll/pkg/jwtx"
)

const (
	testSecret = "e2e-shared-secret"
	testIssuer = "classforge-auth"
)

// recordingNotifier captures notifications instead of delivering them.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []service.Notification
	fail bool
}

func (n *recordingNotifier) Send(_ context.Context, msg service.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return context.DeadlineExceeded
	}
	n.sent = append(n.sent, msg)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

// setupServer stands up a full service instance on an in-memory database
// and returns its base URL plus the notifier used for invitation delivery.
func setupServer(t *testing.T) (string, *recordingNotifier) {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	notifier := &recordingNotifier{}
	logger := slog.New(slog.DiscardHandler)

	verifier := jwtx.NewHS256([]byte(testSecret), testIssuer)
	router := httpapi.NewRouter(verifier, "e2e", st, logger)
	router.InvitationService = &service.InvitationService{
		Store:    st,
		Notifier: notifier,
	}
	router.OnboardingService = &service.OnboardingService{}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return srv.URL, notifier
}

// adminToken mints an access token the way the platform auth service would.
func adminToken(t *testing.T, orgID string, scopes ...string) string {
	t.Helper()

	signer := jwtx.NewHS256([]byte(testSecret), testIssuer)
	token, err := signer.Sign(jwtx.Claims{
		Subject: "admin-e2e",
		OrgID:   orgID,
		Scopes:  scopes,
	})
	require.NoError(t, err)
	return token
}

func adminClient(t *testing.T, baseURL, orgID string) *enrollsdk.Client {
	t.Helper()
	return enrollsdk.NewClient(baseURL, adminToken(t, orgID, "invites:read", "invites:write"))
}

func publicClient(baseURL string) *enrollsdk.Client {
	return enrollsdk.NewClient(baseURL, "")
}
