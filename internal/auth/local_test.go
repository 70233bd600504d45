package auth_test

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/Yash-Soni1/vectra-backend/config"
	"github.com/Yash-Soni1/vectra-backend/internal/auth"
	"github.com/Yash-Soni1/vectra-backend/internal/service"
	"github.com/Yash-Soni1/vectra-backend/utils"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	config.AppConfig.JWTSecret = "test-secret"
	os.Exit(m.Run())
}

type mailRecorder struct {
	mu    sync.Mutex
	to    []string
	links []string
}

func (r *mailRecorder) send(to, link string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.to = append(r.to, to)
	r.links = append(r.links, link)
	return nil
}

func (r *mailRecorder) lastToken(t *testing.T) string {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.links)
	parts := strings.Split(r.links[len(r.links)-1], "token=")
	require.Len(t, parts, 2)
	return parts[1]
}

func newProvider() (*auth.LocalProvider, *mailRecorder) {
	mails := &mailRecorder{}
	provider := auth.NewLocalProvider(auth.NewMemoryUserStore(), utils.NewMemoryCache(), mails.send, "http://localhost:5000")
	return provider, mails
}

func TestSignUpVerifyAndSignIn(t *testing.T) {
	provider, mails := newProvider()
	ctx := context.Background()

	user, err := provider.SignUp(ctx, "Alice@Example.com", "hunter22")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Email)
	require.False(t, user.IsActive)
	require.Equal(t, []string{"alice@example.com"}, mails.to)

	// signing in before clicking the link is refused
	_, err = provider.SignIn(ctx, "alice@example.com", "hunter22")
	require.Equal(t, service.KindAuth, service.KindOf(err))

	require.NoError(t, provider.Verify(ctx, mails.lastToken(t)))

	session, err := provider.SignIn(ctx, "alice@example.com", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, session.AccessToken)
	require.Equal(t, "bearer", session.TokenType)
	require.True(t, session.User.IsActive)

	me, err := provider.GetUser(ctx, session.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, me.ID)
	require.Equal(t, "alice@example.com", me.Email)
}

func TestSignUpValidation(t *testing.T) {
	provider, _ := newProvider()
	ctx := context.Background()

	_, err := provider.SignUp(ctx, "", "hunter22")
	require.Equal(t, service.KindValidation, service.KindOf(err))

	_, err = provider.SignUp(ctx, "not-an-email", "hunter22")
	require.Equal(t, service.KindValidation, service.KindOf(err))

	_, err = provider.SignUp(ctx, "bob@example.com", "short")
	require.Equal(t, service.KindValidation, service.KindOf(err))
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	provider, _ := newProvider()
	ctx := context.Background()

	_, err := provider.SignUp(ctx, "carol@example.com", "hunter22")
	require.NoError(t, err)

	_, err = provider.SignUp(ctx, "Carol@example.com", "hunter23")
	require.Equal(t, service.KindConflict, service.KindOf(err))
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	provider, mails := newProvider()
	ctx := context.Background()

	_, err := provider.SignUp(ctx, "dave@example.com", "hunter22")
	require.NoError(t, err)
	require.NoError(t, provider.Verify(ctx, mails.lastToken(t)))

	_, err = provider.SignIn(ctx, "dave@example.com", "wrong-password")
	require.Equal(t, service.KindAuth, service.KindOf(err))

	_, err = provider.SignIn(ctx, "nobody@example.com", "hunter22")
	require.Equal(t, service.KindAuth, service.KindOf(err))
}

func TestVerifyRejectsUnknownToken(t *testing.T) {
	provider, _ := newProvider()

	err := provider.Verify(context.Background(), "bogus-token")
	require.Equal(t, service.KindValidation, service.KindOf(err))

	err = provider.Verify(context.Background(), "")
	require.Equal(t, service.KindValidation, service.KindOf(err))
}

func TestVerifyTokenIsSingleUse(t *testing.T) {
	provider, mails := newProvider()
	ctx := context.Background()

	_, err := provider.SignUp(ctx, "erin@example.com", "hunter22")
	require.NoError(t, err)

	token := mails.lastToken(t)
	require.NoError(t, provider.Verify(ctx, token))

	err = provider.Verify(ctx, token)
	require.Equal(t, service.KindValidation, service.KindOf(err))
}

func TestGetUserRejectsGarbageToken(t *testing.T) {
	provider, _ := newProvider()

	_, err := provider.GetUser(context.Background(), "not-a-jwt")
	require.Equal(t, service.KindAuth, service.KindOf(err))
}
