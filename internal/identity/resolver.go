package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/ryanolv/doctor-agenda/internal/model"
	"github.com/ryanolv/doctor-agenda/internal/repository"
	"github.com/ryanolv/doctor-agenda/pkg/auth"
)

// Resolver turns an Authorization header into a Session. The active clinic is the
// user's first membership.
type Resolver struct {
	tokens  auth.JWTService
	clinics repository.ClinicRepository
}

func NewResolver(tokens auth.JWTService, clinics repository.ClinicRepository) *Resolver {
	return &Resolver{tokens: tokens, clinics: clinics}
}

// Resolve returns an anonymous session for a missing or invalid token. Only storage
// failures are reported as errors.
func (r *Resolver) Resolve(ctx context.Context, authorization string) (*model.Session, error) {
	token, ok := bearerToken(authorization)
	if !ok {
		return &model.Session{}, nil
	}

	claims, err := r.tokens.ValidateToken(token)
	if err != nil {
		return &model.Session{}, nil
	}

	clinic, err := r.clinics.GetFirstForUser(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session clinic: %w", err)
	}

	return &model.Session{
		User: &model.SessionUser{
			ID:     claims.UserID,
			Clinic: model.NewSessionClinic(clinic),
		},
	}, nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
