package service

import (
	"context"
	"fmt"
	"time"

	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/model"
	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/pkg/logger"
)

// RegistryService maintains the investor authorization registry.
// Only the owner account may add or update entries.
type RegistryService struct {
	store          *Store
	provider       Provider
	ownerAccount   string
	serviceAccount string
}

func NewRegistryService(store *Store, provider Provider, ownerAccount, serviceAccount string) *RegistryService {
	return &RegistryService{
		store:          store,
		provider:       provider,
		ownerAccount:   ownerAccount,
		serviceAccount: serviceAccount,
	}
}

// Authorize marks account as an authorized investor with the given
// encrypted budget ceiling. Idempotent: re-authorizing overwrites the
// budget limit without error. The budget handle is readable by both
// the registry and the account itself.
func (s *RegistryService) Authorize(ctx context.Context, caller, account string, budgetLimit uint64) error {
	if caller != s.ownerAccount {
		return model.ErrUnauthorized
	}

	handle, err := s.provider.Encrypt(ctx, budgetLimit)
	if err != nil {
		return fmt.Errorf("failed to encrypt budget limit: %w", err)
	}
	if err := s.provider.GrantAccess(ctx, handle, s.serviceAccount); err != nil {
		return fmt.Errorf("failed to grant registry access: %w", err)
	}
	if err := s.provider.GrantAccess(ctx, handle, account); err != nil {
		return fmt.Errorf("failed to grant account access: %w", err)
	}

	s.store.SaveAuthorization(&model.Authorization{
		Account:              account,
		Authorized:           true,
		EncryptedBudgetLimit: handle,
		GrantedAt:            time.Now(),
	})

	logger.Info(ctx, "investor authorized", "investor", account)
	return nil
}

// IsAuthorized reports whether account may act as an investor
func (s *RegistryService) IsAuthorized(account string) bool {
	return s.store.IsAuthorized(account)
}

// GetAuthorization returns the registry entry for account, or nil
func (s *RegistryService) GetAuthorization(account string) *model.Authorization {
	return s.store.GetAuthorization(account)
}
