package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"estate-ledger/internal/accounts/models"
	"estate-ledger/internal/platform/privacy"
	id "estate-ledger/pkg/domain"
	dErrors "estate-ledger/pkg/domain-errors"
	"estate-ledger/pkg/platform/middleware/requesttime"
	"estate-ledger/pkg/platform/sentinel"
	"estate-ledger/pkg/platform/tracer"
	"estate-ledger/pkg/requestcontext"
	"estate-ledger/pkg/secrets"
)

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	Token      string
	ExpiresAt  time.Time
	Username   string
	Email      string
	EstateName string
	EstateID   id.EstateID
	IsAdmin    bool
}

// Register creates the estate, its first user and that user's admin account
// in one transaction. A taken username is a conflict.
func (s *Service) Register(ctx context.Context, cmd *RegisterCommand) (membership *models.Membership, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanRegister)
	defer func() { span.End(err) }()

	cmd.Username = strings.TrimSpace(cmd.Username)
	cmd.EstateName = strings.TrimSpace(cmd.EstateName)
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	hash, err := secrets.HashPassword(cmd.Password)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		now := requesttime.Now(txCtx)
		estate, err := models.NewEstate(id.NewEstateID(), cmd.EstateName, strings.TrimSpace(cmd.EstateAddress), now)
		if err != nil {
			return err
		}
		user, err := models.NewUser(id.NewUserID(), cmd.Username, cmd.Email, hash, now)
		if err != nil {
			return err
		}
		account, err := models.NewAccount(id.NewAccountID(), user.ID, estate.ID, true, now)
		if err != nil {
			return err
		}

		if err := s.store.CreateEstate(txCtx, estate); err != nil {
			return wrapStoreErr(err, "estate already exists", "failed to create estate")
		}
		if err := s.store.CreateUser(txCtx, user); err != nil {
			return wrapStoreErr(err, "username already taken", "failed to create user")
		}
		if err := s.store.CreateAccount(txCtx, account); err != nil {
			return wrapStoreErr(err, "user already has an account", "failed to create account")
		}
		membership = &models.Membership{User: user, Account: account, Estate: estate}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.EstatesRegistered.Inc()
	}
	s.logger.InfoContext(ctx, "estate registered",
		"estate_id", membership.Estate.ID.String(),
		"user_id", membership.User.ID.String(),
		"email", privacy.MaskEmail(membership.User.Email),
		"request_id", requestcontext.RequestID(ctx),
	)
	return membership, nil
}

// Login checks the password and issues an access token. Unknown users and
// wrong passwords fail the same way.
func (s *Service) Login(ctx context.Context, cmd *LoginCommand) (result *LoginResult, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanLogin)
	defer func() {
		if s.metrics != nil {
			s.metrics.IncrementLogin(err == nil)
		}
		span.End(err)
	}()

	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	user, err := s.store.FindUserByUsername(ctx, cmd.Username)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			secrets.BurnCompare(cmd.Password)
			return nil, s.invalidCredentials(ctx, cmd.Username)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	if err := secrets.CheckPassword(user.PasswordHash, cmd.Password); err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			return nil, s.invalidCredentials(ctx, cmd.Username)
		}
		return nil, err
	}

	membership, err := s.store.FindMembership(ctx, user.ID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "user has no estate account")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}

	issued, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user logged in",
		"user_id", user.ID.String(),
		"estate_id", membership.Estate.ID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return &LoginResult{
		Token:      issued.Token,
		ExpiresAt:  issued.ExpiresAt,
		Username:   user.Username,
		Email:      user.Email,
		EstateName: membership.Estate.Name,
		EstateID:   membership.Estate.ID,
		IsAdmin:    membership.Account.IsAdmin,
	}, nil
}

func (s *Service) invalidCredentials(ctx context.Context, username string) error {
	s.logger.WarnContext(ctx, "login rejected",
		"username", username,
		"client_ip", privacy.AnonymizeIP(requestcontext.ClientIP(ctx)),
		"request_id", requestcontext.RequestID(ctx),
	)
	return dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
}

// Logout revokes the token the request was made with until it expires.
func (s *Service) Logout(ctx context.Context, tok requestcontext.Token) error {
	if tok.JTI == "" {
		return dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if err := s.revocations.Revoke(ctx, tok.JTI, tok.ExpiresAt); err != nil {
		if s.metrics != nil {
			s.metrics.TRLWriteFailures.Inc()
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke token")
	}
	if s.metrics != nil {
		s.metrics.Logouts.Inc()
	}
	s.logger.InfoContext(ctx, "token revoked",
		"user_id", requestcontext.UserID(ctx).String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

// AddMember creates a non-admin account in the caller's estate. The returned
// membership carries no estate.
func (s *Service) AddMember(ctx context.Context, p *requestcontext.Principal, cmd *AddMemberCommand) (*models.Membership, error) {
	if p == nil || p.EstateID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if !p.IsAdmin {
		return nil, dErrors.New(dErrors.CodeForbidden, "only estate admins can add members")
	}
	cmd.Username = strings.TrimSpace(cmd.Username)
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	hash, err := secrets.HashPassword(cmd.Password)
	if err != nil {
		return nil, err
	}

	var membership *models.Membership
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		now := requesttime.Now(txCtx)
		user, err := models.NewUser(id.NewUserID(), cmd.Username, cmd.Email, hash, now)
		if err != nil {
			return err
		}
		account, err := models.NewAccount(id.NewAccountID(), user.ID, p.EstateID, false, now)
		if err != nil {
			return err
		}
		if err := s.store.CreateUser(txCtx, user); err != nil {
			return wrapStoreErr(err, "username already taken", "failed to create user")
		}
		if err := s.store.CreateAccount(txCtx, account); err != nil {
			return wrapStoreErr(err, "user already has an account", "failed to create account")
		}
		membership = &models.Membership{User: user, Account: account}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.MembersAdded.Inc()
	}
	s.logger.InfoContext(ctx, "member added",
		"estate_id", p.EstateID.String(),
		"user_id", membership.User.ID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return membership, nil
}

// ResolvePrincipal maps an authenticated user to the account it acts as.
func (s *Service) ResolvePrincipal(ctx context.Context, userID id.UserID) (*requestcontext.Principal, error) {
	membership, err := s.store.FindMembership(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "user has no estate account")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve account")
	}
	return &requestcontext.Principal{
		UserID:    membership.User.ID,
		AccountID: membership.Account.ID,
		EstateID:  membership.Estate.ID,
		IsAdmin:   membership.Account.IsAdmin,
	}, nil
}
