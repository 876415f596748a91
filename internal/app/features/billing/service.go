// internal/app/features/billing/service.go
package billing

import (
	"context"
	"errors"
	"strings"
	"time"

	organizationstore "github.com/dalemusser/fleetcheckr/internal/app/store/organizations"
	"github.com/dalemusser/fleetcheckr/internal/app/system/auditlog"
	"github.com/dalemusser/fleetcheckr/internal/app/system/identity"
	"github.com/dalemusser/fleetcheckr/internal/app/system/ids"
	"github.com/dalemusser/fleetcheckr/internal/app/system/inputval"
	"github.com/dalemusser/fleetcheckr/internal/app/system/paystack"
	"github.com/dalemusser/fleetcheckr/internal/app/system/result"
	"github.com/dalemusser/fleetcheckr/internal/domain/models"
	"go.uber.org/zap"
)

// Gateway is the payment provider.
type Gateway interface {
	InitializeTransaction(ctx context.Context, in paystack.InitializeRequest) (paystack.Checkout, error)
	VerifyTransaction(ctx context.Context, reference string) (paystack.Transaction, error)
	CreateSubscription(ctx context.Context, in paystack.SubscriptionRequest) (paystack.Subscription, error)
}

// OrgStore records the subscription on the organization.
type OrgStore interface {
	UpdateSubscription(ctx context.Context, orgID string, sub organizationstore.Subscription) error
}

// Config holds the billing settings.
type Config struct {
	// BaseURL is the public origin used to build the callback URL.
	BaseURL string
	// PlanCode is the gateway plan subscribed to after verification.
	PlanCode string
	// VerifyAmount is the card verification charge in kobo.
	VerifyAmount int64
	TrialDays    int
}

// Service runs the card-verification and subscription flow.
type Service struct {
	gateway Gateway
	orgs    OrgStore
	cfg     Config
	audit   *auditlog.Logger
	log     *zap.Logger
	now     func() time.Time
}

func NewService(gateway Gateway, orgs OrgStore, cfg Config, audit *auditlog.Logger, logger *zap.Logger) *Service {
	return &Service{gateway: gateway, orgs: orgs, cfg: cfg, audit: audit, log: logger, now: time.Now}
}

// CallbackMount is where CallbackRoutes is mounted; CallbackPath is the
// full path the gateway returns the payer to.
const (
	CallbackMount = "/payment"
	CallbackPath  = CallbackMount + "/callback"
)

const (
	msgNoOrg        = "Organization not found."
	msgBadEmail     = "A valid email address is required."
	msgGateway      = "The payment provider could not be reached. Please try again."
	msgNoReference  = "No transaction reference found."
	msgNotPaid      = "Payment was not successful."
	msgNotReusable  = "This card cannot be used for a subscription."
	msgNoMetadata   = "Transaction is missing its organization."
	msgWrongOrg     = "Transaction does not belong to your organization."
	msgUpdateFailed = "Could not update the subscription."
)

// Checkout is returned by Initialize.
type Checkout struct {
	URL       string `json:"url"`
	Reference string `json:"reference"`
}

// Initialize starts the card verification charge for the caller's org.
func (s *Service) Initialize(ctx context.Context, id identity.Identity, email string) result.Result[Checkout] {
	if id.OrgID == "" {
		return result.Err[Checkout](msgNoOrg)
	}
	if email = strings.TrimSpace(email); email == "" {
		email = id.Email
	}
	if !inputval.IsValidEmail(email) {
		return result.Err[Checkout](msgBadEmail)
	}

	ref := ids.Reference()
	co, err := s.gateway.InitializeTransaction(ctx, paystack.InitializeRequest{
		Email:       email,
		Amount:      s.cfg.VerifyAmount,
		Reference:   ref,
		CallbackURL: strings.TrimRight(s.cfg.BaseURL, "/") + CallbackPath,
		Metadata:    map[string]string{"org_id": id.OrgID},
	})
	if err != nil {
		s.log.Error("initialize transaction failed", zap.String("org_id", id.OrgID), zap.String("reference", ref), zap.Error(err))
		return result.Err[Checkout](msgGateway)
	}
	if co.Reference == "" {
		co.Reference = ref
	}
	return result.Ok(Checkout{URL: co.AuthorizationURL, Reference: co.Reference})
}

// Subscribed describes the new subscription.
type Subscribed struct {
	OrgID            string    `json:"org_id"`
	SubscriptionCode string    `json:"subscription_code"`
	TrialEndsAt      time.Time `json:"trial_ends_at"`
}

// VerifyAndSubscribe confirms the verification charge and starts a
// subscription whose first charge falls after the trial. References are
// not tracked locally; the gateway's reference is trusted to be unique.
func (s *Service) VerifyAndSubscribe(ctx context.Context, id identity.Identity, reference string) result.Result[Subscribed] {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return result.Err[Subscribed](msgNoReference)
	}

	tx, err := s.gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		s.log.Error("verify transaction failed", zap.String("reference", reference), zap.Error(err))
		return result.Err[Subscribed](msgGateway)
	}
	orgID := tx.Metadata()["org_id"]
	switch {
	case tx.Status != "success":
		return s.reject(ctx, orgID, reference, msgNotPaid)
	case tx.Authorization.AuthorizationCode == "" || !tx.Authorization.Reusable:
		return s.reject(ctx, orgID, reference, msgNotReusable)
	case orgID == "":
		return s.reject(ctx, orgID, reference, msgNoMetadata)
	case id.OrgID != "" && id.OrgID != orgID:
		return s.reject(ctx, orgID, reference, msgWrongOrg)
	}

	start := s.now().UTC().AddDate(0, 0, s.cfg.TrialDays)
	sub, err := s.gateway.CreateSubscription(ctx, paystack.SubscriptionRequest{
		Customer:      tx.Customer.CustomerCode,
		Plan:          s.cfg.PlanCode,
		Authorization: tx.Authorization.AuthorizationCode,
		StartDate:     start,
	})
	if err != nil {
		s.log.Error("create subscription failed", zap.String("org_id", orgID), zap.String("reference", reference), zap.Error(err))
		s.audit.SubscriptionFailed(ctx, orgID, reference, "create subscription")
		return result.Err[Subscribed](msgGateway)
	}

	err = s.orgs.UpdateSubscription(ctx, orgID, organizationstore.Subscription{
		Plan:             models.PlanPro,
		Status:           models.SubscriptionTrialing,
		TrialEndsAt:      start,
		SubscriptionCode: sub.SubscriptionCode,
		CustomerCode:     tx.Customer.CustomerCode,
	})
	if err != nil {
		if errors.Is(err, organizationstore.ErrNotFound) {
			return s.reject(ctx, orgID, reference, msgNoOrg)
		}
		s.log.Error("record subscription failed", zap.String("org_id", orgID), zap.String("subscription_code", sub.SubscriptionCode), zap.Error(err))
		s.audit.SubscriptionFailed(ctx, orgID, reference, "update organization")
		return result.Err[Subscribed](msgUpdateFailed)
	}

	s.audit.SubscriptionCreated(ctx, orgID, sub.SubscriptionCode, reference)
	s.log.Info("subscription started", zap.String("org_id", orgID), zap.Time("trial_ends_at", start))
	return result.OkMsg(Subscribed{OrgID: orgID, SubscriptionCode: sub.SubscriptionCode, TrialEndsAt: start},
		"Your free trial has started.")
}

func (s *Service) reject(ctx context.Context, orgID, reference, msg string) result.Result[Subscribed] {
	s.audit.SubscriptionFailed(ctx, orgID, reference, msg)
	return result.Err[Subscribed](msg)
}
