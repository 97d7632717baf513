package ticket

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"community-rewards/internal/domain/claim"
)

// Claims 請求チケットのJWTクレーム
type Claims struct {
	RewardID string `json:"reward_id"`
	jwt.RegisteredClaims
}

// Issuer 請求チケットの発行と検証を行う
// チケットIDは上流への送信の冪等キーとして使う
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
	newID  func() string
}

// NewIssuer 新しいIssuerを作成
func NewIssuer(secret, issuer string, ttl time.Duration) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

// Issue ユーザーとリワードに紐づくチケットを発行する
func (i *Issuer) Issue(userID, rewardID string) (*claim.Ticket, error) {
	if userID == "" || rewardID == "" {
		return nil, claim.ErrPreconditionFailed
	}

	now := i.now()
	id := i.newID()
	expiresAt := now.Add(i.ttl)

	claims := Claims{
		RewardID: rewardID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   userID,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign claim ticket: %w", err)
	}

	return &claim.Ticket{
		ID:        id,
		Token:     signed,
		UserID:    userID,
		RewardID:  rewardID,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify 署名・有効期限・ユーザーとリワードの紐付けを検証し、チケットIDを返す
func (i *Issuer) Verify(tokenString, userID, rewardID string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithIssuer(i.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", claim.ErrInvalidTicket, err)
	}
	if !token.Valid {
		return "", claim.ErrInvalidTicket
	}
	if claims.Subject != userID || claims.RewardID != rewardID {
		return "", fmt.Errorf("%w: ticket is bound to a different user or reward", claim.ErrInvalidTicket)
	}
	if claims.ID == "" {
		return "", fmt.Errorf("%w: missing ticket id", claim.ErrInvalidTicket)
	}
	return claims.ID, nil
}

var _ claim.TicketIssuer = (*Issuer)(nil)
