package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"gestaorh-checkout-api/models"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// JWTService só valida tokens. Quem emite é o portal, na sessão de login da
// empresa; esta API recebe o token pronto no header Authorization.
type JWTService struct {
	secretKey []byte
	issuer    string
}

type CompanyClaims struct {
	CompanyID   string `json:"company_id"`
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
	jwt.RegisteredClaims
}

func NewJWTService(secretKey, issuer string) *JWTService {
	return &JWTService{
		secretKey: []byte(secretKey),
		issuer:    issuer,
	}
}

// ValidateToken verifica assinatura, expiração e emissor, e devolve a
// empresa autenticada.
func (j *JWTService) ValidateToken(tokenString string) (*models.Company, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CompanyClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*CompanyClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if j.issuer != "" && claims.Issuer != j.issuer {
		return nil, ErrInvalidToken
	}

	if claims.CompanyID == "" {
		return nil, ErrInvalidToken
	}

	return &models.Company{
		ID:    claims.CompanyID,
		Name:  claims.CompanyName,
		Email: claims.Email,
	}, nil
}
