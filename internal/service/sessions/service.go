package sessions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	sessionStore "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/session"
	"github.com/m04kA/SMC-SalonBooking/internal/service/sessions/models"
	"github.com/m04kA/SMC-SalonBooking/internal/wizard"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Service хранит сессии мастера записи и применяет к ним действия пользователя.
// Действия над одной сессией выполняются по очереди: пока одно идет,
// остальные получают wizard.ErrBusy. Учет ведется в пределах процесса.
type Service struct {
	store   SessionStore
	gateway *Gateway
	opts    wizard.Options
	metrics Metrics
	clock   TimeProvider
	logger  Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewService создает новый экземпляр сервиса сессий
func NewService(
	store SessionStore,
	gateway *Gateway,
	opts wizard.Options,
	metrics Metrics,
	clock TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		store:    store,
		gateway:  gateway,
		opts:     opts,
		metrics:  metrics,
		clock:    clock,
		logger:   logger,
		inflight: make(map[string]struct{}),
	}
}

// Start открывает новую сессию и загружает данные мастера.
// Сессию оператора может открыть только сам мастер (userID == ownerID).
func (s *Service) Start(ctx context.Context, userID int64, req *models.StartSessionRequest) (*models.SessionResponse, error) {
	s.logger.Info("Start: opening %s booking session for owner=%d by user=%d", req.Audience, req.OwnerID, userID)

	// 1. Проверяем параметры и права
	if req.OwnerID <= 0 || !req.Audience.IsValid() {
		return nil, fmt.Errorf("%w: ownerId and audience are required", ErrInvalidInput)
	}
	if req.Audience == domain.AudienceOperator && userID != req.OwnerID {
		s.logger.Warn("Start: user=%d is not owner=%d", userID, req.OwnerID)
		return nil, ErrAccessDenied
	}

	// 2. Создаем мастер и загружаем снимок
	session := wizard.NewSession(uuid.NewString(), req.OwnerID, req.Audience, s.clock.Now())
	w := s.newWizard(session)

	if err := w.Load(ctx); err != nil {
		s.logger.Error("Start: failed to load data for owner=%d: %v", req.OwnerID, err)
		return nil, err
	}

	// 3. Сохраняем
	state, err := s.save(ctx, w)
	if err != nil {
		return nil, err
	}

	s.metrics.IncWizardSession(string(req.Audience))
	s.logger.Info("Start: opened session=%s for owner=%d", state.ID, req.OwnerID)
	return models.FromDomainSession(state, s.identityLabel(), w.CanSubmit()), nil
}

// Get возвращает текущее состояние сессии
func (s *Service) Get(ctx context.Context, userID int64, sessionID string) (*models.SessionResponse, error) {
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	w := s.newWizard(*session)
	return models.FromDomainSession(w.Session(), s.identityLabel(), w.CanSubmit()), nil
}

// Apply применяет одно действие. Состояние сохраняется и при ошибке действия:
// мастер сам решает, что оставить (например, после конфликта он уже на выборе времени).
// При ошибке действия вместе с ней возвращается актуальное состояние.
func (s *Service) Apply(ctx context.Context, userID int64, sessionID string, req *models.ActionRequest) (*models.SessionResponse, error) {
	if !s.acquire(sessionID) {
		s.logger.Warn("Apply: session=%s is busy, rejecting %s", sessionID, req.Type)
		return nil, wizard.ErrBusy
	}
	defer s.release(sessionID)

	// 1. Загружаем сессию
	session, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	// 2. Применяем действие
	w := s.newWizard(*session)
	actionErr := s.dispatch(ctx, w, req)
	if actionErr != nil {
		s.logger.Warn("Apply: session=%s action %s failed: %v", sessionID, req.Type, actionErr)
	}

	// 3. Сохраняем состояние в любом случае
	state, err := s.save(ctx, w)
	if err != nil {
		return nil, err
	}

	resp := models.FromDomainSession(state, s.identityLabel(), w.CanSubmit())
	if actionErr != nil {
		return resp, actionErr
	}

	s.logger.Info("Apply: session=%s action %s done, step=%s", sessionID, req.Type, state.Step)
	return resp, nil
}

func (s *Service) dispatch(ctx context.Context, w *wizard.Wizard, req *models.ActionRequest) error {
	switch req.Type {
	case models.ActionSelectService:
		return w.SelectService(req.ServiceID)

	case models.ActionSelectDate:
		date, err := s.parseDate(req.Date)
		if err != nil {
			return err
		}
		return w.SelectDate(date)

	case models.ActionSelectSlot:
		slot, err := types.NewTimeStringFromString(req.Slot)
		if err != nil {
			return fmt.Errorf("%w: slot: %v", ErrInvalidInput, err)
		}
		return w.SelectSlot(slot)

	case models.ActionSetClientName:
		return w.SetClientName(req.ClientName)

	case models.ActionBack:
		return w.Back()

	case models.ActionSubmit:
		return w.Submit(ctx)

	case models.ActionReset:
		return w.Reset()

	case models.ActionRefresh:
		return w.Load(ctx)

	case models.ActionEnterManage:
		return w.EnterManage()

	case models.ActionLeaveManage:
		return w.LeaveManage()

	case models.ActionSearch:
		return w.Search(ctx, req.Query)

	case models.ActionCancel:
		return w.Cancel(ctx, req.AppointmentID)

	case models.ActionStartReschedule:
		return w.StartReschedule(req.AppointmentID)
	}

	return fmt.Errorf("%w: %q", ErrUnknownAction, req.Type)
}

// load читает сессию и проверяет доступ к ней
func (s *Service) load(ctx context.Context, userID int64, sessionID string) (*domain.BookingSession, error) {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessionStore.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("load: failed to read session=%s: %v", sessionID, err)
		return nil, fmt.Errorf("%w: load session: %v", ErrInternal, err)
	}

	if session.Audience == domain.AudienceOperator && userID != session.OwnerID {
		s.logger.Warn("load: user=%d has no access to operator session=%s", userID, sessionID)
		return nil, ErrAccessDenied
	}

	return session, nil
}

func (s *Service) save(ctx context.Context, w *wizard.Wizard) (domain.BookingSession, error) {
	state := w.Session()
	state.UpdatedAt = s.clock.Now()

	if err := s.store.Save(ctx, state); err != nil {
		s.logger.Error("save: failed to store session=%s: %v", state.ID, err)
		return state, fmt.Errorf("%w: save session: %v", ErrInternal, err)
	}
	return state, nil
}

func (s *Service) newWizard(session domain.BookingSession) *wizard.Wizard {
	return wizard.New(session, s.opts, s.gateway, s.gateway, s.clock, s.logger)
}

func (s *Service) parseDate(value string) (time.Time, error) {
	date, err := time.ParseInLocation(domain.DateFormat, strings.TrimSpace(value), s.clock.Now().Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	return date, nil
}

func (s *Service) identityLabel() string {
	if s.opts.IdentityLabel == "" {
		return wizard.DefaultIdentityLabel
	}
	return s.opts.IdentityLabel
}

func (s *Service) acquire(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inflight[sessionID]; busy {
		return false
	}
	s.inflight[sessionID] = struct{}{}
	return true
}

func (s *Service) release(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inflight, sessionID)
}
