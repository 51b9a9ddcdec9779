package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/exchange-ui/backend/internal/beneficiaries"
	"github.com/exchange-ui/backend/internal/config"
	"github.com/exchange-ui/backend/internal/events"
	"github.com/exchange-ui/backend/internal/models"
	"github.com/exchange-ui/backend/internal/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type BeneficiaryStore interface {
	List(ctx context.Context, userID uuid.UUID, currency string) ([]models.Beneficiary, error)
	GetByID(ctx context.Context, userID uuid.UUID, id int64) (*models.Beneficiary, error)
	Count(ctx context.Context, userID uuid.UUID, currency string) (int, error)
	Create(ctx context.Context, b *models.Beneficiary, pin models.PinChallenge) error
	GetPin(ctx context.Context, userID uuid.UUID, id int64) (*models.PinChallenge, error)
	UpdatePin(ctx context.Context, userID uuid.UUID, id int64, pin models.PinChallenge) error
	RecordPinFailure(ctx context.Context, userID uuid.UUID, id int64) (int, error)
	Activate(ctx context.Context, userID uuid.UUID, id int64) (*models.Beneficiary, error)
	Delete(ctx context.Context, userID uuid.UUID, id int64) (*models.Beneficiary, error)
}

type MemberStore interface {
	Levels(ctx context.Context) (*models.MemberLevels, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.UserInfo, error)
}

type AuditLogger interface {
	Log(ctx context.Context, entry models.AuditLog) error
}

type PinNotifier interface {
	SendPin(ctx context.Context, d PinDelivery) error
}

type AddressValidator interface {
	Validate(currency, addr string) error
}

type BeneficiaryService struct {
	repo      BeneficiaryStore
	members   MemberStore
	audit     AuditLogger
	notifier  PinNotifier
	addresses AddressValidator
	publisher events.Publisher
	cfg       *config.Config
	log       *zap.Logger

	now     func() time.Time
	pinCost int
}

func NewBeneficiaryService(
	repo BeneficiaryStore,
	members MemberStore,
	audit AuditLogger,
	notifier PinNotifier,
	addresses AddressValidator,
	publisher events.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) *BeneficiaryService {
	return &BeneficiaryService{
		repo:      repo,
		members:   members,
		audit:     audit,
		notifier:  notifier,
		addresses: addresses,
		publisher: publisher,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
		pinCost:   bcrypt.DefaultCost,
	}
}

func (s *BeneficiaryService) List(ctx context.Context, userID uuid.UUID, currency string) ([]models.Beneficiary, error) {
	items, err := s.repo.List(ctx, userID, normalizeCurrency(currency))
	if err != nil {
		return nil, fmt.Errorf("list beneficiaries: %w", err)
	}
	return items, nil
}

func (s *BeneficiaryService) Get(ctx context.Context, userID uuid.UUID, id int64) (*models.Beneficiary, error) {
	b, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, s.notFound(err, id)
	}
	return b, nil
}

// Create validates the draft, applies the same gate the UI applies before
// opening the add dialog and stores the beneficiary as pending. The pin is
// delivered out of band; a failed delivery leaves the record resendable.
func (s *BeneficiaryService) Create(ctx context.Context, userID uuid.UUID, draft models.BeneficiaryDraft) (*models.Beneficiary, error) {
	currency := normalizeCurrency(draft.Currency)
	name := strings.TrimSpace(draft.Name)
	if currency == "" || name == "" {
		return nil, fmt.Errorf("%w: currency and name are required", ErrInvalidDestination)
	}
	dest, err := s.validateDestination(currency, draft.Data)
	if err != nil {
		return nil, err
	}

	user, err := s.members.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	levels, err := s.members.Levels(ctx)
	if err != nil {
		return nil, fmt.Errorf("load member levels: %w", err)
	}
	count, err := s.repo.Count(ctx, userID, currency)
	if err != nil {
		return nil, fmt.Errorf("count beneficiaries: %w", err)
	}

	switch beneficiaries.ShouldOpenAddDialog(user.Level, levels.Withdraw.MinimumLevel, count) {
	case beneficiaries.ShowInsufficientLevelError:
		return nil, ErrInsufficientLevel
	case beneficiaries.ShowMaxCountError:
		return nil, ErrMaxBeneficiaries
	}

	pin, challenge, err := s.newChallenge()
	if err != nil {
		return nil, err
	}

	b := &models.Beneficiary{
		UserID:      userID,
		Currency:    currency,
		Name:        name,
		Data:        dest,
		Description: trimOptional(draft.Description),
	}
	if err := s.repo.Create(ctx, b, challenge); err != nil {
		return nil, fmt.Errorf("failed to save beneficiary: %w", err)
	}

	s.deliverPin(ctx, user, b, pin, challenge)
	s.publish(ctx, events.EventBeneficiaryCreated, userID, b)
	s.auditLog(ctx, userID, "beneficiary_created", b, map[string]any{"currency": currency, "type": string(b.Type())})

	s.log.Info("beneficiary created",
		zap.String("user_id", userID.String()),
		zap.Int64("beneficiary_id", b.ID),
		zap.String("currency", currency),
	)
	return b, nil
}

// Activate confirms a pending beneficiary with the pin sent on creation.
// After MaxPinAttempts wrong pins the challenge is locked until a resend.
func (s *BeneficiaryService) Activate(ctx context.Context, userID uuid.UUID, id int64, pin string) (*models.Beneficiary, error) {
	b, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, s.notFound(err, id)
	}
	if b.State != models.StatePending {
		return nil, ErrNotPending
	}

	challenge, err := s.repo.GetPin(ctx, userID, id)
	if err != nil {
		return nil, s.notFound(err, id)
	}
	if challenge.Expired(s.now()) {
		return nil, ErrPinExpired
	}
	if challenge.Attempts >= s.cfg.MaxPinAttempts {
		return nil, ErrPinAttemptsExceeded
	}
	if !checkPin(challenge.Hash, strings.TrimSpace(pin)) {
		attempts, err := s.repo.RecordPinFailure(ctx, userID, id)
		if err != nil {
			return nil, s.notFound(err, id)
		}
		s.auditLog(ctx, userID, "beneficiary_pin_rejected", b, map[string]any{"attempts": attempts})
		if attempts >= s.cfg.MaxPinAttempts {
			s.log.Warn("beneficiary pin locked",
				zap.String("user_id", userID.String()),
				zap.Int64("beneficiary_id", id),
			)
			return nil, ErrPinAttemptsExceeded
		}
		return nil, ErrInvalidPin
	}

	activated, err := s.repo.Activate(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// параллельная активация успела раньше
			return nil, ErrNotPending
		}
		return nil, fmt.Errorf("failed to activate beneficiary: %w", err)
	}

	s.publish(ctx, events.EventBeneficiaryActivated, userID, activated)
	s.auditLog(ctx, userID, "beneficiary_activated", activated, nil)

	s.log.Info("beneficiary activated",
		zap.String("user_id", userID.String()),
		zap.Int64("beneficiary_id", id),
	)
	return activated, nil
}

func (s *BeneficiaryService) ResendPin(ctx context.Context, userID uuid.UUID, id int64) error {
	b, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return s.notFound(err, id)
	}
	if b.State != models.StatePending {
		return ErrNotPending
	}

	prev, err := s.repo.GetPin(ctx, userID, id)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	if prev != nil && s.now().Sub(prev.SentAt) < s.cfg.PinResendTimeout {
		return ErrResendTooSoon
	}

	user, err := s.members.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	pin, challenge, err := s.newChallenge()
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePin(ctx, userID, id, challenge); err != nil {
		return s.notFound(err, id)
	}

	s.deliverPin(ctx, user, b, pin, challenge)
	s.auditLog(ctx, userID, "beneficiary_pin_resent", b, nil)
	return nil
}

func (s *BeneficiaryService) Delete(ctx context.Context, userID uuid.UUID, id int64) error {
	b, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return s.notFound(err, id)
	}

	s.publish(ctx, events.EventBeneficiaryDeleted, userID, b)
	s.auditLog(ctx, userID, "beneficiary_deleted", b, map[string]any{"state": b.State.String()})

	s.log.Info("beneficiary deleted",
		zap.String("user_id", userID.String()),
		zap.Int64("beneficiary_id", id),
	)
	return nil
}

func (s *BeneficiaryService) validateDestination(currency string, dest models.Destination) (models.Destination, error) {
	switch d := dest.(type) {
	case models.CoinAddress:
		d.Address = strings.TrimSpace(d.Address)
		if err := s.addresses.Validate(currency, d.Address); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDestination, err)
		}
		return d, nil
	case models.BankAccount:
		d.AccountNumber = strings.TrimSpace(d.AccountNumber)
		d.BankName = strings.TrimSpace(d.BankName)
		d.FullName = strings.TrimSpace(d.FullName)
		if d.AccountNumber == "" || d.BankName == "" || d.FullName == "" {
			return nil, fmt.Errorf("%w: account number, bank name and full name are required", ErrInvalidDestination)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("%w: missing destination", ErrInvalidDestination)
	}
}

func (s *BeneficiaryService) newChallenge() (string, models.PinChallenge, error) {
	pin, err := newPin()
	if err != nil {
		return "", models.PinChallenge{}, fmt.Errorf("generate pin: %w", err)
	}
	hash, err := hashPin(pin, s.pinCost)
	if err != nil {
		return "", models.PinChallenge{}, fmt.Errorf("hash pin: %w", err)
	}
	now := s.now()
	return pin, models.PinChallenge{
		Hash:      hash,
		ExpiresAt: now.Add(s.cfg.PinTTL),
		SentAt:    now,
	}, nil
}

func (s *BeneficiaryService) deliverPin(ctx context.Context, user *models.UserInfo, b *models.Beneficiary, pin string, ch models.PinChallenge) {
	err := s.notifier.SendPin(ctx, PinDelivery{
		UserID:        user.ID,
		Email:         user.Email,
		BeneficiaryID: b.ID,
		Currency:      b.Currency,
		Name:          b.Name,
		Pin:           pin,
		ExpiresAt:     ch.ExpiresAt,
	})
	if err != nil {
		s.log.Warn("failed to deliver beneficiary pin",
			zap.Int64("beneficiary_id", b.ID),
			zap.Error(err),
		)
	}
}

func (s *BeneficiaryService) publish(ctx context.Context, eventType string, userID uuid.UUID, b *models.Beneficiary) {
	if s.publisher == nil {
		return
	}
	_ = s.publisher.Publish(ctx, events.StreamBeneficiary, events.Event{
		Type: eventType,
		Payload: map[string]any{
			"user_id":        userID.String(),
			"currency":       b.Currency,
			"beneficiary_id": strconv.FormatInt(b.ID, 10),
		},
	})
}

func (s *BeneficiaryService) auditLog(ctx context.Context, userID uuid.UUID, action string, b *models.Beneficiary, meta map[string]any) {
	err := s.audit.Log(ctx, models.AuditLog{
		ActorUserID: &userID,
		ActorType:   "user",
		Action:      action,
		EntityType:  "beneficiary",
		EntityID:    strconv.FormatInt(b.ID, 10),
		Meta:        meta,
	})
	if err != nil {
		s.log.Warn("audit log failed", zap.String("action", action), zap.Error(err))
	}
}

func (s *BeneficiaryService) notFound(err error, id int64) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: %d", ErrBeneficiaryNotFound, id)
	}
	return err
}

func normalizeCurrency(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
