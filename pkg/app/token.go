package app

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/haierkeys/objective-share-service/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenIssuer 默认签发者
const DefaultTokenIssuer = "objective-share-service"

// ownerContextKey gin 上下文中保存 OwnerClaims 的键
const ownerContextKey = "owner_token"

var ErrInvalidOwnerToken = errors.New("invalid owner token")

// TokenConfig owner JWT 配置
type TokenConfig struct {
	SecretKey string
	Expiry    time.Duration // 默认 7 天
	Issuer    string
}

// TokenManager issues and verifies owner identity tokens.
// Owner identity is external to the sharing core; the CLI mints these tokens in place of an identity provider.
type TokenManager interface {
	Generate(uid int64, name string) (string, error)
	Parse(token string) (*OwnerClaims, error)
}

type tokenManager struct {
	config TokenConfig
}

func NewTokenManager(cfg TokenConfig) TokenManager {
	if cfg.Expiry == 0 {
		cfg.Expiry = 7 * 24 * time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultTokenIssuer
	}
	return &tokenManager{config: cfg}
}

// OwnerClaims JWT 中保存的 owner 信息
type OwnerClaims struct {
	UID  int64  `json:"uid"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// signingKey SecretKey + "_" + 机器 ID
func (t *tokenManager) signingKey() []byte {
	return []byte(t.config.SecretKey + "_" + util.GetMachineID())
}

func (t *tokenManager) Generate(uid int64, name string) (string, error) {
	if uid <= 0 {
		return "", fmt.Errorf("%w: uid must be positive", ErrInvalidOwnerToken)
	}
	now := time.Now()
	claims := &OwnerClaims{
		UID:  uid,
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.config.Expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    t.config.Issuer,
			Subject:   "owner",
			ID:        strconv.FormatInt(uid, 10),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.signingKey())
}

func (t *tokenManager) Parse(token string) (*OwnerClaims, error) {
	claims := &OwnerClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.signingKey(), nil
	}, jwt.WithIssuer(t.config.Issuer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOwnerToken, err)
	}
	if !parsed.Valid || claims.UID <= 0 {
		return nil, ErrInvalidOwnerToken
	}
	return claims, nil
}

// SetOwner 保存已验证的 owner 到上下文
func SetOwner(ctx *gin.Context, claims *OwnerClaims) {
	ctx.Set(ownerContextKey, claims)
}

// GetUID 从上下文中获取 owner uid，未认证时为 0
func GetUID(ctx *gin.Context) (out int64) {
	if v, exist := ctx.Get(ownerContextKey); exist {
		if claims, ok := v.(*OwnerClaims); ok {
			out = claims.UID
		}
	}
	return
}
