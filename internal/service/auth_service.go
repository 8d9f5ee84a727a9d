package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pacificpro/internal/model"
	"pacificpro/internal/repository"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("username atau password salah")
	ErrAccountLocked      = errors.New("akun terkunci sementara karena terlalu banyak percobaan login")
	ErrInvalidToken       = errors.New("token tidak valid atau sudah kedaluwarsa")
)

// Claims adalah isi JWT sesi.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService menangani login, lockout brute-force, dan token sesi.
// Token kedaluwarsa mengikuti batas idle sesi, jadi sesi yang didiamkan
// otomatis mati.
type AuthService struct {
	userRepo       *repository.UserRepository
	activityRepo   *repository.ActivityRepository
	redisClient    *redis.Client // nil berarti tanpa lockout (test)
	jwtSecret      []byte
	sessionTimeout time.Duration
	maxAttempts    int
	lockoutWindow  time.Duration
	sessionLogCap  int
}

func NewAuthService(
	userRepo *repository.UserRepository,
	activityRepo *repository.ActivityRepository,
	redisClient *redis.Client,
	jwtSecret string,
	sessionTimeoutMin, maxAttempts, lockoutMinutes, sessionLogCap int,
) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		activityRepo:   activityRepo,
		redisClient:    redisClient,
		jwtSecret:      []byte(jwtSecret),
		sessionTimeout: time.Duration(sessionTimeoutMin) * time.Minute,
		maxAttempts:    maxAttempts,
		lockoutWindow:  time.Duration(lockoutMinutes) * time.Minute,
		sessionLogCap:  sessionLogCap,
	}
}

// Login memverifikasi kredensial dan mengembalikan token sesi. Kegagalan
// beruntun dihitung per username; melewati batas berarti akun dikunci
// sampai jendela lockout lewat.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	if username == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	locked, err := s.isLocked(ctx, username)
	if err != nil {
		return "", nil, err
	}
	if locked {
		return "", nil, ErrAccountLocked
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.recordFailedAttempt(ctx, username)
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.recordFailedAttempt(ctx, username)
		return "", nil, ErrInvalidCredentials
	}

	s.clearAttempts(ctx, username)

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}

	s.recordSession(ctx, user, fmt.Sprintf("Login berhasil: %s", user.Username))
	return token, user, nil
}

// Logout hanya mencatat jejak sesi; token JWT tidak dicabut, cukup
// dibiarkan kedaluwarsa.
func (s *AuthService) Logout(ctx context.Context, user *model.User) {
	s.recordSession(ctx, user, fmt.Sprintf("Logout: %s", user.Username))
}

// ParseToken memvalidasi token dan mengembalikan claims-nya.
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("metode tanda tangan tidak didukung: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ResolveUser memuat user dari klaim token. Dipakai middleware auth.
func (s *AuthService) ResolveUser(ctx context.Context, claims *Claims) (*model.User, error) {
	return s.userRepo.GetByID(ctx, claims.UserID)
}

func (s *AuthService) issueToken(user *model.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTimeout)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func (s *AuthService) attemptsKey(username string) string {
	return "login:attempts:" + username
}

func (s *AuthService) isLocked(ctx context.Context, username string) (bool, error) {
	if s.redisClient == nil {
		return false, nil
	}
	attempts, err := s.redisClient.Get(ctx, s.attemptsKey(username)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return attempts >= s.maxAttempts, nil
}

func (s *AuthService) recordFailedAttempt(ctx context.Context, username string) {
	if s.redisClient == nil {
		return
	}
	key := s.attemptsKey(username)
	attempts, err := s.redisClient.Incr(ctx, key).Result()
	if err != nil {
		log.Warn().Err(err).Str("username", username).Msg("gagal mencatat percobaan login")
		return
	}
	if attempts == 1 {
		s.redisClient.Expire(ctx, key, s.lockoutWindow)
	}
}

func (s *AuthService) clearAttempts(ctx context.Context, username string) {
	if s.redisClient == nil {
		return
	}
	if err := s.redisClient.Del(ctx, s.attemptsKey(username)).Err(); err != nil {
		log.Warn().Err(err).Str("username", username).Msg("gagal mereset hitungan login")
	}
}

func (s *AuthService) recordSession(ctx context.Context, user *model.User, activity string) {
	entry := &model.Activity{
		Username: user.Username,
		Role:     string(user.Role),
		Category: model.ActivityCategorySession,
		Activity: activity,
	}
	if err := s.activityRepo.Append(ctx, entry, s.sessionLogCap); err != nil {
		log.Warn().Err(err).Str("activity", activity).Msg("gagal mencatat aktivitas sesi")
	}
}
