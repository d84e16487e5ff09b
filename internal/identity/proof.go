package identity

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/airvent/subscription/internal/clock"
	"github.com/airvent/subscription/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// clockSkew is how far the signer's clock may run ahead of ours.
const clockSkew = 30 * time.Second

// ProofClaims is the payload of an identity proof. The issuer is the
// signer's identity and doubles as the verification key; the subject is
// the owner of the record the operation targets.
type ProofClaims struct {
	Operation Operation `json:"op"`
	Digest    string    `json:"dig"`
	jwt.RegisteredClaims
}

// SignProof mints a proof that kp agrees to intent. The proof is valid
// from issuedAt for ttl.
func SignProof(kp *Keypair, intent Intent, issuedAt time.Time, ttl time.Duration) (string, error) {
	if kp == nil || len(kp.Private) == 0 {
		return "", errors.New("identity: signing key is required")
	}
	if ttl <= 0 {
		return "", errors.New("identity: proof ttl must be positive")
	}

	digest, err := intent.Digest()
	if err != nil {
		return "", err
	}

	claims := ProofClaims{
		Operation: intent.Operation,
		Digest:    digest,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    kp.Identity.String(),
			Subject:   intent.Owner.String(),
			Audience:  jwt.ClaimStrings{common.ProofAudience},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(kp.Private)
	if err != nil {
		return "", fmt.Errorf("identity: signing proof: %w", err)
	}
	return signed, nil
}

// Verifier checks proofs presented to the server.
type Verifier struct {
	clock  clock.Clock
	maxAge time.Duration
	guard  *ReplayGuard
}

// NewVerifier returns a Verifier that rejects proofs whose lifetime exceeds
// maxAge. guard may be nil to disable replay detection.
func NewVerifier(c clock.Clock, maxAge time.Duration, guard *ReplayGuard) *Verifier {
	return &Verifier{clock: c, maxAge: maxAge, guard: guard}
}

// Verify checks that proof is a live, unused EdDSA proof for exactly
// intent and returns the identity that signed it. It does not decide
// whether that identity may perform the operation; the state machine does.
func (v *Verifier) Verify(proof string, intent Intent) (Identity, error) {
	digest, err := intent.Digest()
	if err != nil {
		return Identity{}, err
	}

	claims := &ProofClaims{}
	_, err = jwt.ParseWithClaims(
		proof,
		claims,
		func(t *jwt.Token) (any, error) {
			iss, err := t.Claims.GetIssuer()
			if err != nil {
				return nil, err
			}
			signer, err := Parse(iss)
			if err != nil {
				return nil, err
			}
			return signer.PublicKey(), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithAudience(common.ProofAudience),
		jwt.WithSubject(intent.Owner.String()),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(clockSkew),
		jwt.WithTimeFunc(v.clock.Now),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", common.ErrInvalidProof, err)
	}

	if claims.Operation != intent.Operation {
		return Identity{}, fmt.Errorf("%w: proof is for %q, not %q", common.ErrInvalidProof, claims.Operation, intent.Operation)
	}
	if subtle.ConstantTimeCompare([]byte(claims.Digest), []byte(digest)) != 1 {
		return Identity{}, fmt.Errorf("%w: proof does not cover this request", common.ErrInvalidProof)
	}
	if claims.IssuedAt == nil || claims.ID == "" {
		return Identity{}, fmt.Errorf("%w: iat and jti are required", common.ErrInvalidProof)
	}
	if claims.ExpiresAt.Sub(claims.IssuedAt.Time) > v.maxAge {
		return Identity{}, fmt.Errorf("%w: lifetime exceeds %s", common.ErrInvalidProof, v.maxAge)
	}

	signer, err := Parse(claims.Issuer)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", common.ErrInvalidProof, err)
	}

	if v.guard != nil && !v.guard.Use(claims.ID, claims.ExpiresAt.Add(clockSkew), v.clock.Now()) {
		return Identity{}, common.ErrProofReplayed
	}

	return signer, nil
}
