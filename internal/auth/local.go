package auth

import (
	"errors"
	"log"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/net/context"

	"github.com/Yash-Soni1/vectra-backend/internal/metadata"
	"github.com/Yash-Soni1/vectra-backend/internal/service"
	"github.com/Yash-Soni1/vectra-backend/model"
	"github.com/Yash-Soni1/vectra-backend/utils"
)

// verificationTTL bounds how long a signup verification link stays valid.
const verificationTTL = 10 * time.Minute

// Mailer sends the verification link to a fresh signup.
type Mailer func(to, link string) error

// LocalProvider implements Provider with bcrypt credentials and HS256
// tokens. Verification tokens live in the cache until clicked or expired.
type LocalProvider struct {
	users   UserStore
	cache   utils.Cache
	mailer  Mailer
	baseURL string
}

// NewLocalProvider creates a LocalProvider. mailer may be nil, in which case
// accounts still require verification through the cache token.
func NewLocalProvider(users UserStore, cache utils.Cache, mailer Mailer, baseURL string) *LocalProvider {
	return &LocalProvider{
		users:   users,
		cache:   cache,
		mailer:  mailer,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SignUp registers an inactive account and emails a verification link.
func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, service.ErrValidation("Email and password are required.")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, service.ErrValidation("Invalid email address.")
	}
	if len(password) < 6 {
		return nil, service.ErrValidation("Password must be at least 6 characters.")
	}

	if _, err := p.users.GetByEmail(ctx, email); err == nil {
		return nil, service.ErrConflict("Email already registered.")
	} else if !errors.Is(err, metadata.ErrNotFound) {
		return nil, service.ErrUpstream("Failed to look up account.", err)
	}

	hash, err := utils.GetPwd(password)
	if err != nil {
		return nil, service.ErrUpstream("Failed to hash password.", err)
	}

	user := &model.User{Email: email, Password: hash, IsActive: false}
	if err := p.users.Create(ctx, user); err != nil {
		return nil, service.ErrUpstream("Failed to create account.", err)
	}

	token := utils.GetToken()
	if p.cache != nil {
		if err := p.cache.Set(ctx, verificationKey(token), user.ID, verificationTTL); err != nil {
			return nil, service.ErrUpstream("Failed to store verification token.", err)
		}
	}
	if p.mailer != nil {
		link := p.baseURL + "/api/auth/verify?token=" + token
		if err := p.mailer(user.Email, link); err != nil {
			log.Println("verification mail failed:", err)
		}
	}
	return user, nil
}

// Verify activates the account behind a verification token.
func (p *LocalProvider) Verify(ctx context.Context, token string) error {
	if token == "" {
		return service.ErrValidation("Verification token is required.")
	}
	if p.cache == nil {
		return service.ErrValidation("Invalid or expired verification token.")
	}

	var userID uint64
	if err := p.cache.Get(ctx, verificationKey(token), &userID); err != nil {
		return service.ErrValidation("Invalid or expired verification token.")
	}
	if err := p.users.Activate(ctx, userID); err != nil {
		return service.ErrUpstream("Failed to activate account.", err)
	}
	if err := p.cache.Delete(ctx, verificationKey(token)); err != nil {
		log.Println("verification token cleanup failed:", err)
	}
	return nil
}

// SignIn checks credentials and returns a session token. Unverified accounts
// are refused.
func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, service.ErrValidation("Email and password are required.")
	}

	user, err := p.users.GetByEmail(ctx, email)
	if errors.Is(err, metadata.ErrNotFound) {
		return nil, service.ErrAuth("Invalid credentials.")
	}
	if err != nil {
		return nil, service.ErrUpstream("Failed to look up account.", err)
	}
	if !utils.CheckPwd(password, user.Password) {
		return nil, service.ErrAuth("Invalid credentials.")
	}
	if !user.IsActive {
		return nil, service.ErrAuth("Email not verified.")
	}

	token, err := utils.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, service.ErrUpstream("Failed to issue token.", err)
	}
	return &Session{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   time.Now().Add(utils.TokenTTL).Unix(),
		User:        user,
	}, nil
}

// GetUser resolves an access token to its account.
func (p *LocalProvider) GetUser(ctx context.Context, token string) (*model.User, error) {
	claims, err := utils.VerifyToken(token)
	if err != nil {
		return nil, service.ErrAuth("Invalid or expired token.")
	}
	user, err := p.users.GetByID(ctx, claims.UserId)
	if errors.Is(err, metadata.ErrNotFound) {
		return nil, service.ErrAuth("Invalid or expired token.")
	}
	if err != nil {
		return nil, service.ErrUpstream("Failed to look up account.", err)
	}
	return user, nil
}

func verificationKey(token string) string {
	return utils.BuildCacheKey("verify", token)
}
